package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// Params holds the governed settlement policy knobs.
type Params struct {
	// MinDeposit is the smallest deposit a session may lock, in base units
	// of the session denom.
	MinDeposit math.Int `json:"min_deposit"`

	// FeeRate is the protocol's cut of every settled payment, in [0,1).
	FeeRate math.LegacyDec `json:"fee_rate"`

	// DisputeWindowSeconds is the grace period after session start during
	// which only the depositor may force completion.
	DisputeWindowSeconds uint64 `json:"dispute_window_seconds"`

	// MinProofTokens is the anti-spam floor on a single proof's claim.
	MinProofTokens uint64 `json:"min_proof_tokens"`

	// MaxTokensPerSecond bounds how many tokens a host may plausibly claim
	// per second elapsed since its previous proof. Policy knob, not a
	// protocol constant.
	MaxTokensPerSecond uint64 `json:"max_tokens_per_second"`

	// MissedProofWindows is how many proof intervals of host silence allow
	// anyone to trigger a timeout.
	MissedProofWindows uint64 `json:"missed_proof_windows"`

	// MaxSessionDurationSeconds caps the duration a depositor may request.
	MaxSessionDurationSeconds uint64 `json:"max_session_duration_seconds"`

	// MinProofIntervalSeconds floors the proof interval so the silence
	// timeout cannot be made trivially reachable.
	MinProofIntervalSeconds uint64 `json:"min_proof_interval_seconds"`

	// AllowedDenoms lists the currencies sessions may be denominated in.
	AllowedDenoms []string `json:"allowed_denoms"`
}

// DefaultParams returns the default settlement parameters.
func DefaultParams() Params {
	return Params{
		MinDeposit:                math.NewInt(1000),
		FeeRate:                   math.LegacyNewDecWithPrec(10, 2), // 10%
		DisputeWindowSeconds:      3600,                             // 1 hour
		MinProofTokens:            10,
		MaxTokensPerSecond:        1000,
		MissedProofWindows:        3,
		MaxSessionDurationSeconds: 604800, // 7 days
		MinProofIntervalSeconds:   10,
		AllowedDenoms:             []string{"umtr"},
	}
}

// Validate ensures the parameter set is internally consistent.
func (p Params) Validate() error {
	if p.MinDeposit.IsNil() || p.MinDeposit.IsNegative() {
		return fmt.Errorf("min deposit must be non-negative")
	}
	if p.FeeRate.IsNil() || p.FeeRate.IsNegative() || p.FeeRate.GTE(math.LegacyOneDec()) {
		return fmt.Errorf("fee rate must be in [0,1)")
	}
	if p.MinProofTokens == 0 {
		return fmt.Errorf("min proof tokens must be positive")
	}
	if p.MaxTokensPerSecond == 0 {
		return fmt.Errorf("max tokens per second must be positive")
	}
	if p.MissedProofWindows == 0 {
		return fmt.Errorf("missed proof windows must be positive")
	}
	if p.MaxSessionDurationSeconds == 0 {
		return fmt.Errorf("max session duration must be positive")
	}
	if p.MinProofIntervalSeconds == 0 {
		return fmt.Errorf("min proof interval must be positive")
	}
	if len(p.AllowedDenoms) == 0 {
		return fmt.Errorf("at least one allowed denom is required")
	}
	seen := make(map[string]struct{}, len(p.AllowedDenoms))
	for _, denom := range p.AllowedDenoms {
		if denom == "" {
			return fmt.Errorf("allowed denom cannot be empty")
		}
		if _, ok := seen[denom]; ok {
			return fmt.Errorf("duplicate allowed denom %s", denom)
		}
		seen[denom] = struct{}{}
	}
	return nil
}

// DenomAllowed reports whether sessions may be denominated in denom.
func (p Params) DenomAllowed(denom string) bool {
	for _, d := range p.AllowedDenoms {
		if d == denom {
			return true
		}
	}
	return false
}
