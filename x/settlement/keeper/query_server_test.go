package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/meterd-ai/meterd/testutil/keeper"
	settlementkeeper "github.com/meterd-ai/meterd/x/settlement/keeper"
	"github.com/meterd-ai/meterd/x/settlement/types"
)

// TestQueryBalance_TotalsLedgerCells tests that the balance query reports
// the withdrawable and locked cells plus their sum
func TestQueryBalance_TotalsLedgerCells(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	depositor := testAddr(0x01)
	host := testAddr(0x02)
	registerHost(t, f, host)
	f.ModelRegistry.Approved["llama-70b"] = true

	f.FundAccount(t, depositor, sdk.NewCoins(sdk.NewCoin(testDenom, math.NewInt(250000))))
	_, err := f.Keeper.Deposit(f.Ctx, depositor, sdk.NewCoin(testDenom, math.NewInt(250000)))
	require.NoError(t, err)

	_, err = f.Keeper.CreateSession(f.Ctx, types.NewMsgCreateSession(
		depositor.String(), host.String(), "llama-70b",
		sdk.NewCoin(testDenom, math.NewInt(100000)),
		math.NewInt(types.PriceScale), 86400, 60,
		types.FundingSourceBalance,
	))
	require.NoError(t, err)

	q := settlementkeeper.NewQueryServerImpl(*f.Keeper)
	resp, err := q.Balance(f.Ctx, &types.QueryBalanceRequest{Address: depositor.String(), Denom: testDenom})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(150000), resp.Withdrawable)
	require.Equal(t, math.NewInt(100000), resp.Locked)
	require.Equal(t, math.NewInt(250000), resp.Total)
}

// TestQueryBalance_EmptyCells tests the zero view for an untouched account
func TestQueryBalance_EmptyCells(t *testing.T) {
	f := keepertest.SettlementKeeper(t)

	q := settlementkeeper.NewQueryServerImpl(*f.Keeper)
	resp, err := q.Balance(f.Ctx, &types.QueryBalanceRequest{Address: testAddr(0x07).String(), Denom: testDenom})
	require.NoError(t, err)
	require.True(t, resp.Withdrawable.IsZero())
	require.True(t, resp.Locked.IsZero())
	require.True(t, resp.Total.IsZero())
}
