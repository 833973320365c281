package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/meterd-ai/meterd/testutil/keeper"
	"github.com/meterd-ai/meterd/x/settlement/keeper"
	"github.com/meterd-ai/meterd/x/settlement/types"
)

// TestMsgServer_DepositWithdraw tests the bank-facing handlers end to end
func TestMsgServer_DepositWithdraw(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	srv := keeper.NewMsgServerImpl(*f.Keeper)
	account := testAddr(0x01)
	f.FundAccount(t, account, sdk.NewCoins(sdk.NewCoin(testDenom, math.NewInt(50000))))

	depositResp, err := srv.Deposit(f.Ctx, types.NewMsgDeposit(account.String(), sdk.NewCoin(testDenom, math.NewInt(20000))))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(20000), depositResp.Withdrawable)

	withdrawResp, err := srv.Withdraw(f.Ctx, types.NewMsgWithdraw(account.String(), sdk.NewCoin(testDenom, math.NewInt(5000))))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(15000), withdrawResp.Withdrawable)
}

// TestMsgServer_SessionLifecycle tests create, prove, and complete
// through the message server
func TestMsgServer_SessionLifecycle(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	srv := keeper.NewMsgServerImpl(*f.Keeper)
	depositor := testAddr(0x01)
	host := testAddr(0x02)
	priv := registerHost(t, f, host)
	f.ModelRegistry.Approved["llama-70b"] = true
	f.FundAccount(t, depositor, sdk.NewCoins(sdk.NewCoin(testDenom, math.NewInt(1000000))))

	createResp, err := srv.CreateSession(f.Ctx, types.NewMsgCreateSession(
		depositor.String(), host.String(), "llama-70b",
		sdk.NewCoin(testDenom, math.NewInt(100000)),
		math.NewInt(types.PriceScale), 86400, 60,
		types.FundingSourceInline,
	))
	require.NoError(t, err)
	require.Equal(t, uint64(1), createResp.SessionId)

	advanceTime(f, 60)
	hash := proofHash("proof-1")
	proofResp, err := srv.SubmitProof(f.Ctx, types.NewMsgSubmitProof(
		createResp.SessionId, host.String(), 40000, hash, signProof(priv, hash, host, 40000), nil,
	))
	require.NoError(t, err)
	require.Equal(t, uint64(40000), proofResp.TokensProven)

	completeResp, err := srv.CompleteSession(f.Ctx, types.NewMsgCompleteSession(createResp.SessionId, depositor.String(), ""))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(36000), completeResp.HostShare)

	earningsResp, err := srv.WithdrawEarnings(f.Ctx, types.NewMsgWithdrawEarnings(host.String(), testDenom))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(36000), earningsResp.Amount)
}

// TestMsgServer_UpdateParams tests authority gating on parameter updates
func TestMsgServer_UpdateParams(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	srv := keeper.NewMsgServerImpl(*f.Keeper)

	params := types.DefaultParams()
	params.MinDeposit = math.NewInt(5000)

	_, err := srv.UpdateParams(f.Ctx, types.NewMsgUpdateParams(testAddr(0x01).String(), params))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = srv.UpdateParams(f.Ctx, types.NewMsgUpdateParams(f.Authority, params))
	require.NoError(t, err)

	stored, err := f.Keeper.GetParams(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(5000), stored.MinDeposit)
}

// TestMsgServer_InvalidMessageRejected tests ValidateBasic enforcement
func TestMsgServer_InvalidMessageRejected(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	srv := keeper.NewMsgServerImpl(*f.Keeper)

	_, err := srv.Deposit(f.Ctx, types.NewMsgDeposit("not-an-address", sdk.NewCoin(testDenom, math.NewInt(1000))))
	require.ErrorIs(t, err, types.ErrInvalidAddress)
}

// TestQueryServer_BalanceAndSession tests the read paths
func TestQueryServer_BalanceAndSession(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	qs := keeper.NewQueryServerImpl(*f.Keeper)
	depositor := testAddr(0x01)
	host := testAddr(0x02)
	priv := registerHost(t, f, host)
	sessionID := openSession(t, f, depositor, host)
	submitProof(t, f, sessionID, host, priv, 10000, "proof-1", 60)

	balance, err := qs.Balance(f.Ctx, &types.QueryBalanceRequest{Address: depositor.String(), Denom: testDenom})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(100000), balance.Locked)
	require.True(t, balance.Withdrawable.IsZero())

	session, err := qs.Session(f.Ctx, &types.QuerySessionRequest{SessionId: sessionID})
	require.NoError(t, err)
	require.Equal(t, uint64(10000), session.Session.TokensProven)

	proofs, err := qs.SessionProofs(f.Ctx, &types.QuerySessionProofsRequest{SessionId: sessionID})
	require.NoError(t, err)
	require.Len(t, proofs.Proofs, 1)

	byHost, err := qs.Sessions(f.Ctx, &types.QuerySessionsRequest{Host: host.String()})
	require.NoError(t, err)
	require.Len(t, byHost.Sessions, 1)

	active, err := qs.Sessions(f.Ctx, &types.QuerySessionsRequest{Status: "active"})
	require.NoError(t, err)
	require.Len(t, active.Sessions, 1)
}
