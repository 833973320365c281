package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/meterd-ai/meterd/testutil/keeper"
)

// TestDeposit_Valid tests crediting the withdrawable balance
func TestDeposit_Valid(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	account := testAddr(0x01)
	f.FundAccount(t, account, sdk.NewCoins(sdk.NewCoin(testDenom, math.NewInt(50000))))

	updated, err := f.Keeper.Deposit(f.Ctx, account, sdk.NewCoin(testDenom, math.NewInt(30000)))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(30000), updated)

	withdrawable, err := f.Keeper.GetWithdrawable(f.Ctx, account, testDenom)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(30000), withdrawable)

	// Coins moved into module custody
	moduleBalance := f.BankKeeper.GetBalance(f.Ctx, f.Keeper.ModuleAddress(), testDenom)
	require.Equal(t, math.NewInt(30000), moduleBalance.Amount)
}

// TestDeposit_Accumulates tests that repeated deposits sum
func TestDeposit_Accumulates(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	account := testAddr(0x01)
	f.FundAccount(t, account, sdk.NewCoins(sdk.NewCoin(testDenom, math.NewInt(50000))))

	_, err := f.Keeper.Deposit(f.Ctx, account, sdk.NewCoin(testDenom, math.NewInt(10000)))
	require.NoError(t, err)
	updated, err := f.Keeper.Deposit(f.Ctx, account, sdk.NewCoin(testDenom, math.NewInt(15000)))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(25000), updated)
}

// TestDeposit_InsufficientFunds tests a deposit the account cannot cover
func TestDeposit_InsufficientFunds(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	account := testAddr(0x01)

	_, err := f.Keeper.Deposit(f.Ctx, account, sdk.NewCoin(testDenom, math.NewInt(30000)))
	require.Error(t, err)

	// Ledger untouched after the failed transfer
	withdrawable, err := f.Keeper.GetWithdrawable(f.Ctx, account, testDenom)
	require.NoError(t, err)
	require.True(t, withdrawable.IsZero())
}

// TestWithdraw_Valid tests paying out a withdrawable balance
func TestWithdraw_Valid(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	account := testAddr(0x01)
	f.FundAccount(t, account, sdk.NewCoins(sdk.NewCoin(testDenom, math.NewInt(50000))))

	_, err := f.Keeper.Deposit(f.Ctx, account, sdk.NewCoin(testDenom, math.NewInt(30000)))
	require.NoError(t, err)

	updated, err := f.Keeper.Withdraw(f.Ctx, account, sdk.NewCoin(testDenom, math.NewInt(12000)))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(18000), updated)

	bankBalance := f.BankKeeper.GetBalance(f.Ctx, account, testDenom)
	require.Equal(t, math.NewInt(32000), bankBalance.Amount)
}

// TestWithdraw_InsufficientBalance tests overdrawing the withdrawable cell
func TestWithdraw_InsufficientBalance(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	account := testAddr(0x01)
	f.FundAccount(t, account, sdk.NewCoins(sdk.NewCoin(testDenom, math.NewInt(50000))))

	_, err := f.Keeper.Deposit(f.Ctx, account, sdk.NewCoin(testDenom, math.NewInt(10000)))
	require.NoError(t, err)

	_, err = f.Keeper.Withdraw(f.Ctx, account, sdk.NewCoin(testDenom, math.NewInt(10001)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "insufficient")
}

// TestWithdraw_LockedFundsUnreachable tests that session-locked funds
// cannot be withdrawn
func TestWithdraw_LockedFundsUnreachable(t *testing.T) {
	f := keepertest.SettlementKeeper(t)
	depositor := testAddr(0x01)
	host := testAddr(0x02)
	registerHost(t, f, host)
	openSession(t, f, depositor, host)

	locked, err := f.Keeper.GetLocked(f.Ctx, depositor, testDenom)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(100000), locked)

	// Nothing withdrawable: the whole deposit is locked
	_, err = f.Keeper.Withdraw(f.Ctx, depositor, sdk.NewCoin(testDenom, math.NewInt(1)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "insufficient")
}
