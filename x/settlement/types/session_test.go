package types_test

import (
	"bytes"
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

func testSession() types.Session {
	return types.Session{
		Id:                   1,
		Depositor:            testBech32(0x01),
		Host:                 testBech32(0x02),
		ModelId:              "llama-70b",
		Denom:                "umtr",
		Deposit:              math.NewInt(100000),
		PricePerToken:        math.NewInt(types.PriceScale),
		MaxDurationSeconds:   86400,
		ProofIntervalSeconds: 60,
		StartTime:            time.Unix(1700000000, 0).UTC(),
		LastProofTime:        time.Unix(1700000000, 0).UTC(),
		Status:               types.SESSION_STATUS_ACTIVE,
	}
}

func TestSession_WithinDepositBound(t *testing.T) {
	session := testSession()

	// 100000umtr at 1 unit/token covers exactly 100000 tokens
	require.True(t, session.WithinDepositBound(0))
	require.True(t, session.WithinDepositBound(100000))
	require.False(t, session.WithinDepositBound(100001))

	// Fractional price: 500 scaled is half a unit per token
	session.PricePerToken = math.NewInt(500)
	require.True(t, session.WithinDepositBound(200000))
	require.False(t, session.WithinDepositBound(200001))
}

func TestSession_PaymentDue(t *testing.T) {
	session := testSession()

	session.TokensProven = 40000
	require.Equal(t, math.NewInt(40000), session.PaymentDue())

	// Truncation: 3 tokens at a third of a unit pays 0
	session.PricePerToken = math.NewInt(333)
	session.TokensProven = 3
	require.Equal(t, math.ZeroInt(), session.PaymentDue())

	session.TokensProven = 0
	require.True(t, session.PaymentDue().IsZero())
}

func TestSession_Validate(t *testing.T) {
	valid := testSession()
	require.NoError(t, valid.Validate())

	terminal := testSession()
	terminal.Status = types.SESSION_STATUS_COMPLETED
	require.Error(t, terminal.Validate()) // terminal without SettledAt

	terminal.SettledAt = time.Unix(1700003600, 0).UTC()
	require.NoError(t, terminal.Validate())

	activeWithTime := testSession()
	activeWithTime.SettledAt = time.Unix(1700003600, 0).UTC()
	require.Error(t, activeWithTime.Validate()) // active with settlement time

	overProven := testSession()
	overProven.TokensProven = 100001
	require.Error(t, overProven.Validate())

	badStatus := testSession()
	badStatus.Status = types.SessionStatus(99)
	require.Error(t, badStatus.Validate())
}

func TestSessionStatus_Lifecycle(t *testing.T) {
	require.False(t, types.SESSION_STATUS_ACTIVE.IsTerminal())
	require.True(t, types.SESSION_STATUS_COMPLETED.IsTerminal())
	require.True(t, types.SESSION_STATUS_TIMED_OUT.IsTerminal())
	require.Equal(t, "active", types.SESSION_STATUS_ACTIVE.String())
	require.Equal(t, "timed_out", types.SESSION_STATUS_TIMED_OUT.String())
}

func TestProofCommitmentHash_BindsAllInputs(t *testing.T) {
	hash := bytes.Repeat([]byte{0xAB}, 32)
	attester := sdk.AccAddress(bytes.Repeat([]byte{0x01}, 20))

	base := types.ProofCommitmentHash(hash, attester, 100)
	require.Len(t, base, 32)

	// Deterministic
	require.Equal(t, base, types.ProofCommitmentHash(hash, attester, 100))

	// Any input change produces a different commitment
	otherHash := bytes.Repeat([]byte{0xAC}, 32)
	require.NotEqual(t, base, types.ProofCommitmentHash(otherHash, attester, 100))

	otherAttester := sdk.AccAddress(bytes.Repeat([]byte{0x02}, 20))
	require.NotEqual(t, base, types.ProofCommitmentHash(hash, otherAttester, 100))

	require.NotEqual(t, base, types.ProofCommitmentHash(hash, attester, 101))
}
