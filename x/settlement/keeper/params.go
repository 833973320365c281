package keeper

import (
	"context"
	"fmt"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

// GetParams returns the current settlement parameters
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	store := k.getStore(ctx)

	bz := store.Get(ParamsKey)
	if bz == nil {
		return types.DefaultParams(), nil
	}

	var params types.Params
	if err := k.cdc.Unmarshal(bz, &params); err != nil {
		return types.Params{}, fmt.Errorf("failed to unmarshal params: %w", err)
	}
	return params, nil
}

// SetParams stores the settlement parameters after validation
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return types.ErrValidationFailed.Wrapf("invalid params: %v", err)
	}

	bz, err := k.cdc.Marshal(&params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	k.getStore(ctx).Set(ParamsKey, bz)
	return nil
}
