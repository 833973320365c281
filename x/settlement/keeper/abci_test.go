package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/meterd-ai/meterd/testutil/keeper"
	"github.com/meterd-ai/meterd/x/settlement/types"
)

// TestEndBlocker_SettlesExpiredSessions tests the automatic timeout sweep
func TestEndBlocker_SettlesExpiredSessions(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	depositor := testAddr(0x01)
	host := testAddr(0x02)
	priv := registerHost(t, f, host)
	sessionID := openSession(t, f, depositor, host)

	submitProof(t, f, sessionID, host, priv, 40000, "proof-1", 60)

	advanceTime(f, 86401)
	require.NoError(t, f.Keeper.EndBlocker(f.Ctx))

	session, err := f.Keeper.GetSession(f.Ctx, sessionID)
	require.NoError(t, err)
	require.Equal(t, types.SESSION_STATUS_TIMED_OUT, session.Status)

	earnings, err := f.Keeper.GetEarnings(f.Ctx, host, testDenom)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(36000), earnings)
}

// TestEndBlocker_LeavesLiveSessionsAlone tests that the sweep skips
// sessions still inside their duration
func TestEndBlocker_LeavesLiveSessionsAlone(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	depositor := testAddr(0x01)
	host := testAddr(0x02)
	registerHost(t, f, host)
	sessionID := openSession(t, f, depositor, host)

	advanceTime(f, 60)
	require.NoError(t, f.Keeper.EndBlocker(f.Ctx))

	session, err := f.Keeper.GetSession(f.Ctx, sessionID)
	require.NoError(t, err)
	require.Equal(t, types.SESSION_STATUS_ACTIVE, session.Status)
}

// TestEndBlocker_ExactDeadlineSecond tests that the sweep applies the
// same strict deadline as a manual timeout: nothing settles at the exact
// deadline second, everything does one second past it.
func TestEndBlocker_ExactDeadlineSecond(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	depositor := testAddr(0x01)
	host := testAddr(0x02)
	registerHost(t, f, host)
	sessionID := openSession(t, f, depositor, host)

	advanceTime(f, 86400)
	require.NoError(t, f.Keeper.EndBlocker(f.Ctx))

	session, err := f.Keeper.GetSession(f.Ctx, sessionID)
	require.NoError(t, err)
	require.Equal(t, types.SESSION_STATUS_ACTIVE, session.Status)

	advanceTime(f, 1)
	require.NoError(t, f.Keeper.EndBlocker(f.Ctx))

	session, err = f.Keeper.GetSession(f.Ctx, sessionID)
	require.NoError(t, err)
	require.Equal(t, types.SESSION_STATUS_TIMED_OUT, session.Status)
}

// TestEndBlocker_SkipsManuallySettledSessions tests stale index cleanup
func TestEndBlocker_SkipsManuallySettledSessions(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	depositor := testAddr(0x01)
	host := testAddr(0x02)
	registerHost(t, f, host)
	sessionID := openSession(t, f, depositor, host)

	_, err := f.Keeper.CompleteSession(f.Ctx, types.NewMsgCompleteSession(sessionID, depositor.String(), ""))
	require.NoError(t, err)

	advanceTime(f, 86401)
	require.NoError(t, f.Keeper.EndBlocker(f.Ctx))

	session, err := f.Keeper.GetSession(f.Ctx, sessionID)
	require.NoError(t, err)
	require.Equal(t, types.SESSION_STATUS_COMPLETED, session.Status)
}

// TestBeginBlocker_SweepsProtocolFees tests the fee collector sweep
func TestBeginBlocker_SweepsProtocolFees(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	depositor := testAddr(0x01)
	host := testAddr(0x02)
	priv := registerHost(t, f, host)
	sessionID := openSession(t, f, depositor, host)

	submitProof(t, f, sessionID, host, priv, 40000, "proof-1", 60)
	_, err := f.Keeper.CompleteSession(f.Ctx, types.NewMsgCompleteSession(sessionID, depositor.String(), ""))
	require.NoError(t, err)

	require.NoError(t, f.Keeper.BeginBlocker(f.Ctx))

	// Fee cell zeroed, coins with the fee collector
	fees, err := f.Keeper.GetProtocolFees(f.Ctx, testDenom)
	require.NoError(t, err)
	require.True(t, fees.IsZero())

	feeCollector := f.AccountKeeper.GetModuleAddress(authtypes.FeeCollectorName)
	collected := f.BankKeeper.GetBalance(f.Ctx, feeCollector, testDenom)
	require.Equal(t, math.NewInt(4000), collected.Amount)

	// A second sweep finds nothing to move
	require.NoError(t, f.Keeper.BeginBlocker(f.Ctx))
	require.Equal(t, math.NewInt(4000), f.BankKeeper.GetBalance(f.Ctx, feeCollector, testDenom).Amount)
}
