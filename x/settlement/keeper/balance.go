package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

// The balance ledger stores one math.Int cell per (account, denom) pair,
// split across two prefixes: withdrawable and locked. Coins backing every
// cell sit in the module account; cells are bookkeeping over that pool.

func (k Keeper) getIntCell(ctx context.Context, key []byte) (math.Int, error) {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return math.ZeroInt(), nil
	}

	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		return math.Int{}, fmt.Errorf("failed to unmarshal balance cell: %w", err)
	}
	return amount, nil
}

// setIntCell writes amount under key, deleting the cell when it reaches
// zero so iteration only ever sees live cells.
func (k Keeper) setIntCell(ctx context.Context, key []byte, amount math.Int) error {
	store := k.getStore(ctx)

	if amount.IsZero() {
		store.Delete(key)
		return nil
	}

	bz, err := amount.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal balance cell: %w", err)
	}
	store.Set(key, bz)
	return nil
}

// GetWithdrawable returns the freely withdrawable balance of an account
func (k Keeper) GetWithdrawable(ctx context.Context, addr sdk.AccAddress, denom string) (math.Int, error) {
	return k.getIntCell(ctx, WithdrawableKey(addr, denom))
}

// GetLocked returns the session-locked balance of an account
func (k Keeper) GetLocked(ctx context.Context, addr sdk.AccAddress, denom string) (math.Int, error) {
	return k.getIntCell(ctx, LockedKey(addr, denom))
}

// Deposit moves coins from the account into the module pool and credits
// the account's withdrawable balance. Transfer first, bookkeeping after:
// a failed transfer leaves the ledger untouched.
func (k Keeper) Deposit(ctx context.Context, account sdk.AccAddress, amount sdk.Coin) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, account, types.ModuleName, sdk.NewCoins(amount)); err != nil {
		return math.Int{}, types.ErrInvalidDeposit.Wrapf("failed to transfer deposit: %v", err)
	}

	if err := k.creditWithdrawable(ctx, account, amount.Denom, amount.Amount); err != nil {
		return math.Int{}, err
	}

	updated, err := k.GetWithdrawable(ctx, account, amount.Denom)
	if err != nil {
		return math.Int{}, err
	}

	k.metrics.Deposits.WithLabelValues(amount.Denom).Inc()
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDeposit,
		sdk.NewAttribute(types.AttributeKeyAccount, account.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))

	return updated, nil
}

// Withdraw debits the account's withdrawable balance and pays the coins
// back out of the module pool. Locked funds are not reachable here.
func (k Keeper) Withdraw(ctx context.Context, account sdk.AccAddress, amount sdk.Coin) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.debitWithdrawable(ctx, account, amount.Denom, amount.Amount); err != nil {
		return math.Int{}, err
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, account, sdk.NewCoins(amount)); err != nil {
		return math.Int{}, fmt.Errorf("failed to pay out withdrawal: %w", err)
	}

	updated, err := k.GetWithdrawable(ctx, account, amount.Denom)
	if err != nil {
		return math.Int{}, err
	}

	k.metrics.Withdrawals.WithLabelValues(amount.Denom).Inc()
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeWithdraw,
		sdk.NewAttribute(types.AttributeKeyAccount, account.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))

	return updated, nil
}

func (k Keeper) creditWithdrawable(ctx context.Context, addr sdk.AccAddress, denom string, amount math.Int) error {
	current, err := k.GetWithdrawable(ctx, addr, denom)
	if err != nil {
		return err
	}

	updated, err := SafeAdd(current, amount)
	if err != nil {
		return err
	}
	return k.setIntCell(ctx, WithdrawableKey(addr, denom), updated)
}

func (k Keeper) debitWithdrawable(ctx context.Context, addr sdk.AccAddress, denom string, amount math.Int) error {
	current, err := k.GetWithdrawable(ctx, addr, denom)
	if err != nil {
		return err
	}

	if current.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("withdrawable %s%s, need %s%s", current, denom, amount, denom)
	}

	updated, err := SafeSub(current, amount)
	if err != nil {
		return err
	}
	return k.setIntCell(ctx, WithdrawableKey(addr, denom), updated)
}

func (k Keeper) creditLocked(ctx context.Context, addr sdk.AccAddress, denom string, amount math.Int) error {
	current, err := k.GetLocked(ctx, addr, denom)
	if err != nil {
		return err
	}

	updated, err := SafeAdd(current, amount)
	if err != nil {
		return err
	}
	return k.setIntCell(ctx, LockedKey(addr, denom), updated)
}

func (k Keeper) debitLocked(ctx context.Context, addr sdk.AccAddress, denom string, amount math.Int) error {
	current, err := k.GetLocked(ctx, addr, denom)
	if err != nil {
		return err
	}

	if current.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("locked %s%s, need %s%s", current, denom, amount, denom)
	}

	updated, err := SafeSub(current, amount)
	if err != nil {
		return err
	}
	return k.setIntCell(ctx, LockedKey(addr, denom), updated)
}

// lockFromBalance moves amount from the depositor's withdrawable cell to
// its locked cell. No coins move; custody stays with the module pool.
func (k Keeper) lockFromBalance(ctx context.Context, addr sdk.AccAddress, denom string, amount math.Int) error {
	if err := k.debitWithdrawable(ctx, addr, denom, amount); err != nil {
		return err
	}
	return k.creditLocked(ctx, addr, denom, amount)
}

// IterateBalanceCells walks every cell under prefix in key order,
// yielding the parsed (address, denom, amount) triple.
func (k Keeper) IterateBalanceCells(ctx context.Context, prefix []byte, fn func(addr sdk.AccAddress, denom string, amount math.Int) bool) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		rest := iterator.Key()[len(prefix):]
		addrLen := int(rest[0])
		addr := sdk.AccAddress(rest[1 : 1+addrLen])
		denom := string(rest[1+addrLen:])

		var amount math.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			return fmt.Errorf("failed to unmarshal balance cell: %w", err)
		}

		if fn(addr, denom, amount) {
			break
		}
	}
	return nil
}
