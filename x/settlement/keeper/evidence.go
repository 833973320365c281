package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

// Read-only evidence surface for the external stake registry's penalty
// workflow. The settlement module records proof commitments and evidence
// references but never triggers a slash itself.

// HostEvidence is the audit trail of one session served by a host: the
// session's terminal evidence reference plus every proof record.
type HostEvidence struct {
	SessionId    uint64              `json:"session_id"`
	Status       types.SessionStatus `json:"status"`
	EvidenceRef  string              `json:"evidence_ref,omitempty"`
	ProofRecords []types.ProofRecord `json:"proof_records"`
}

// SlashingEvidence returns the evidence trail of every session a host has
// served, in session ID order.
func (k Keeper) SlashingEvidence(ctx context.Context, host sdk.AccAddress) ([]HostEvidence, error) {
	sessions, err := k.GetSessionsByHost(ctx, host)
	if err != nil {
		return nil, err
	}

	evidence := make([]HostEvidence, 0, len(sessions))
	for _, session := range sessions {
		records, err := k.GetSessionProofs(ctx, session.Id)
		if err != nil {
			return nil, err
		}
		evidence = append(evidence, HostEvidence{
			SessionId:    session.Id,
			Status:       session.Status,
			EvidenceRef:  session.EvidenceRef,
			ProofRecords: records,
		})
	}
	return evidence, nil
}
