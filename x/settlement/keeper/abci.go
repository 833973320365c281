package keeper

import (
	"context"
)

// BeginBlocker sweeps accrued protocol fees to the fee collector
func (k Keeper) BeginBlocker(ctx context.Context) error {
	return k.DistributeProtocolFees(ctx)
}

// EndBlocker settles sessions whose hard deadline has passed
func (k Keeper) EndBlocker(ctx context.Context) error {
	return k.ProcessExpiredSessions(ctx)
}
