package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Settlement module sentinel errors. Every error is detected before any
// ledger mutation and surfaces synchronously to the caller with its
// specific kind; nothing is recovered silently.

var (
	// Session parameter / lookup errors
	ErrInvalidSession  = sdkerrors.Register(ModuleName, 2, "invalid session parameters")
	ErrSessionNotFound = sdkerrors.Register(ModuleName, 3, "session not found")

	// Lifecycle errors
	ErrInvalidSessionState = sdkerrors.Register(ModuleName, 4, "session is not active")
	ErrUnauthorized        = sdkerrors.Register(ModuleName, 5, "unauthorized caller")
	ErrDisputeWindowActive = sdkerrors.Register(ModuleName, 6, "dispute window has not elapsed")
	ErrTimeoutNotReached   = sdkerrors.Register(ModuleName, 7, "timeout conditions not met")

	// Balance ledger errors
	ErrInsufficientBalance = sdkerrors.Register(ModuleName, 10, "insufficient withdrawable balance")
	ErrInvalidDeposit      = sdkerrors.Register(ModuleName, 11, "deposit below minimum")
	ErrDenomNotAllowed     = sdkerrors.Register(ModuleName, 12, "denomination not allowed for sessions")
	ErrInvalidFunding      = sdkerrors.Register(ModuleName, 13, "unknown funding source")

	// Session creation gate errors
	ErrHostNotActive    = sdkerrors.Register(ModuleName, 20, "host is not active in the stake registry")
	ErrPriceTooLow      = sdkerrors.Register(ModuleName, 21, "price below host minimum")
	ErrModelNotApproved = sdkerrors.Register(ModuleName, 22, "model is not approved")

	// Proof errors
	ErrInvalidProof     = sdkerrors.Register(ModuleName, 30, "invalid proof submission")
	ErrClaimTooSmall    = sdkerrors.Register(ModuleName, 31, "claimed tokens below minimum proof size")
	ErrExcessiveClaim   = sdkerrors.Register(ModuleName, 32, "claimed tokens implausible for elapsed time")
	ErrExceedsDeposit   = sdkerrors.Register(ModuleName, 33, "claim would exceed session deposit")
	ErrReplayDetected   = sdkerrors.Register(ModuleName, 34, "proof hash already consumed")
	ErrInvalidSignature = sdkerrors.Register(ModuleName, 35, "proof signature verification failed")

	// Earnings errors
	ErrNoEarnings = sdkerrors.Register(ModuleName, 40, "no earnings accrued")

	// Generic validation errors
	ErrInvalidAddress   = sdkerrors.Register(ModuleName, 50, "invalid address")
	ErrValidationFailed = sdkerrors.Register(ModuleName, 51, "message validation failed")
)
