package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AccountKeeper defines the expected account keeper used by the module
type AccountKeeper interface {
	GetModuleAddress(name string) sdk.AccAddress
}

// BankKeeper defines the expected bank keeper used by the module
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
}

// StakeRegistry is the external host registration/staking subsystem,
// consumed only at its interface boundary. The registry resolves its
// price fallback chain internally; callers use the single resolved value
// and never compose fallbacks themselves.
type StakeRegistry interface {
	// IsHostActive reports whether the host is registered and in good
	// standing.
	IsHostActive(ctx context.Context, host sdk.AccAddress) bool

	// MinimumPrice returns the host's published minimum price for the
	// model/denom pair, scaled by PriceScale.
	MinimumPrice(ctx context.Context, host sdk.AccAddress, modelID, denom string) (sdkmath.Int, error)

	// HostAttestationKey returns the ed25519 public key the host
	// registered for signing work attestations.
	HostAttestationKey(ctx context.Context, host sdk.AccAddress) ([]byte, bool)
}

// ModelRegistry is the external model-governance subsystem. Sessions may
// only be opened against currently approved models.
type ModelRegistry interface {
	IsModelApproved(ctx context.Context, modelID string) bool
}
