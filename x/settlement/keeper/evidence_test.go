package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/meterd-ai/meterd/testutil/keeper"
	"github.com/meterd-ai/meterd/x/settlement/types"
)

// TestSlashingEvidence_CollectsHostSessions tests that the evidence export
// covers every session a host served, with proof trails and the terminal
// evidence reference.
func TestSlashingEvidence_CollectsHostSessions(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	depositor := testAddr(0x01)
	host := testAddr(0x02)
	priv := registerHost(t, f, host)

	first := openSession(t, f, depositor, host)
	submitProof(t, f, first, host, priv, 10000, "evidence-proof-1", 60)
	submitProof(t, f, first, host, priv, 5000, "evidence-proof-2", 60)

	_, err := f.Keeper.CompleteSession(f.Ctx, types.NewMsgCompleteSession(first, depositor.String(), "bafy-record-1"))
	require.NoError(t, err)

	second := openSession(t, f, depositor, host)
	submitProof(t, f, second, host, priv, 2000, "evidence-proof-3", 60)

	evidence, err := f.Keeper.SlashingEvidence(f.Ctx, host)
	require.NoError(t, err)
	require.Len(t, evidence, 2)

	require.Equal(t, first, evidence[0].SessionId)
	require.Equal(t, types.SESSION_STATUS_COMPLETED, evidence[0].Status)
	require.Equal(t, "bafy-record-1", evidence[0].EvidenceRef)
	require.Len(t, evidence[0].ProofRecords, 2)
	require.Equal(t, proofHash("evidence-proof-1"), evidence[0].ProofRecords[0].ProofHash)

	require.Equal(t, second, evidence[1].SessionId)
	require.Equal(t, types.SESSION_STATUS_ACTIVE, evidence[1].Status)
	require.Empty(t, evidence[1].EvidenceRef)
	require.Len(t, evidence[1].ProofRecords, 1)

	// A host with no sessions has an empty trail
	stranger := testAddr(0x09)
	empty, err := f.Keeper.SlashingEvidence(f.Ctx, stranger)
	require.NoError(t, err)
	require.Empty(t, empty)
}
