package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

// GetEarnings returns a host's accrued, not yet withdrawn earnings
func (k Keeper) GetEarnings(ctx context.Context, host sdk.AccAddress, denom string) (math.Int, error) {
	return k.getIntCell(ctx, EarningsKey(host, denom))
}

// creditEarnings accrues a settled host share. Earnings accumulate in the
// module pool until the host withdraws them in one batched transfer.
func (k Keeper) creditEarnings(ctx context.Context, host sdk.AccAddress, denom string, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	current, err := k.GetEarnings(ctx, host, denom)
	if err != nil {
		return err
	}

	updated, err := SafeAdd(current, amount)
	if err != nil {
		return err
	}
	if err := k.setIntCell(ctx, EarningsKey(host, denom), updated); err != nil {
		return err
	}

	k.metrics.EarningsCredited.WithLabelValues(denom).Inc()
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeEarningsCredited,
		sdk.NewAttribute(types.AttributeKeyHost, host.String()),
		sdk.NewAttribute(types.AttributeKeyDenom, denom),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))
	return nil
}

// WithdrawEarnings pays out the host's full accrued balance for a denom.
// The cell is zeroed before the transfer leaves the module pool.
func (k Keeper) WithdrawEarnings(ctx context.Context, host sdk.AccAddress, denom string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	amount, err := k.GetEarnings(ctx, host, denom)
	if err != nil {
		return math.Int{}, err
	}
	if !amount.IsPositive() {
		return math.Int{}, types.ErrNoEarnings.Wrapf("no earnings for %s in %s", host, denom)
	}

	if err := k.setIntCell(ctx, EarningsKey(host, denom), math.ZeroInt()); err != nil {
		return math.Int{}, err
	}

	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, host, coins); err != nil {
		return math.Int{}, fmt.Errorf("failed to pay out earnings: %w", err)
	}

	k.metrics.EarningsWithdrawn.WithLabelValues(denom).Inc()
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeEarningsWithdrawn,
		sdk.NewAttribute(types.AttributeKeyHost, host.String()),
		sdk.NewAttribute(types.AttributeKeyDenom, denom),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))

	return amount, nil
}

// GetProtocolFees returns the accrued protocol fees for a denom
func (k Keeper) GetProtocolFees(ctx context.Context, denom string) (math.Int, error) {
	return k.getIntCell(ctx, ProtocolFeeKey(denom))
}

// addProtocolFee accrues the protocol's cut of one settlement
func (k Keeper) addProtocolFee(ctx context.Context, denom string, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	current, err := k.GetProtocolFees(ctx, denom)
	if err != nil {
		return err
	}

	updated, err := SafeAdd(current, amount)
	if err != nil {
		return err
	}
	if err := k.setIntCell(ctx, ProtocolFeeKey(denom), updated); err != nil {
		return err
	}

	k.metrics.ProtocolFeeAccrued.WithLabelValues(denom).Inc()
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeProtocolFee,
		sdk.NewAttribute(types.AttributeKeyDenom, denom),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))
	return nil
}

// DistributeProtocolFees sweeps all accrued protocol fees to the fee
// collector. Cells are zeroed before the transfer so a re-entrant sweep
// sees nothing to move.
func (k Keeper) DistributeProtocolFees(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	store := k.getStore(ctx)

	var denoms []string
	var amounts []math.Int
	iterator := storetypes.KVStorePrefixIterator(store, ProtocolFeeKeyPrefix)
	for ; iterator.Valid(); iterator.Next() {
		denom := string(iterator.Key()[len(ProtocolFeeKeyPrefix):])

		var amount math.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			iterator.Close()
			return fmt.Errorf("failed to unmarshal protocol fee cell: %w", err)
		}
		denoms = append(denoms, denom)
		amounts = append(amounts, amount)
	}
	iterator.Close()

	if len(denoms) == 0 {
		return nil
	}

	coins := sdk.NewCoins()
	for i, denom := range denoms {
		store.Delete(ProtocolFeeKey(denom))
		coins = coins.Add(sdk.NewCoin(denom, amounts[i]))
	}

	if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, authtypes.FeeCollectorName, coins); err != nil {
		return fmt.Errorf("failed to sweep protocol fees: %w", err)
	}

	k.metrics.FeeSweeps.Inc()
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeProtocolFeeSwept,
		sdk.NewAttribute(types.AttributeKeyAmount, coins.String()),
	))
	return nil
}
