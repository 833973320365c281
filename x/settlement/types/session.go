package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Session is the central settlement entity. It is created atomically with
// its locked-balance debit, mutated only by proof intake and its single
// terminal transition, and never deleted: terminal sessions remain as an
// immutable audit record.
type Session struct {
	Id            uint64   `json:"id"`
	Depositor     string   `json:"depositor"`
	Host          string   `json:"host"`
	ModelId       string   `json:"model_id"`
	Denom         string   `json:"denom"`
	Deposit       math.Int `json:"deposit"`
	PricePerToken math.Int `json:"price_per_token"` // scaled by PriceScale

	MaxDurationSeconds   uint64 `json:"max_duration_seconds"`
	ProofIntervalSeconds uint64 `json:"proof_interval_seconds"`

	StartTime     time.Time `json:"start_time"`
	LastProofTime time.Time `json:"last_proof_time"`

	// TokensProven is the only quantity payment is computed from. It is
	// monotonically non-decreasing and bounded by
	// TokensProven * PricePerToken <= Deposit * PriceScale at all times.
	TokensProven uint64 `json:"tokens_proven"`
	ProofCount   uint64 `json:"proof_count"`

	Status      SessionStatus `json:"status"`
	EvidenceRef string        `json:"evidence_ref,omitempty"`

	// SettledAt stays the zero time until the terminal transition.
	SettledAt time.Time `json:"settled_at,omitempty"`
}

// WithinDepositBound reports whether a proven-token total keeps the
// session inside its escrow. The comparison is done in scaled integer
// form so truncation can never hide an overclaim.
func (s Session) WithinDepositBound(tokensProven uint64) bool {
	proven := math.NewIntFromUint64(tokensProven).Mul(s.PricePerToken)
	return proven.LTE(s.Deposit.MulRaw(PriceScale))
}

// PaymentDue returns the amount owed for the currently proven tokens,
// truncating toward zero after removing the price scale factor.
func (s Session) PaymentDue() math.Int {
	return math.NewIntFromUint64(s.TokensProven).
		Mul(s.PricePerToken).
		QuoRaw(PriceScale)
}

// Validate performs stateless sanity checks on a session record.
func (s Session) Validate() error {
	if s.Id == 0 {
		return fmt.Errorf("session id must be positive")
	}
	if _, err := sdk.AccAddressFromBech32(s.Depositor); err != nil {
		return fmt.Errorf("invalid depositor address: %w", err)
	}
	if _, err := sdk.AccAddressFromBech32(s.Host); err != nil {
		return fmt.Errorf("invalid host address: %w", err)
	}
	if s.ModelId == "" {
		return fmt.Errorf("model id is required")
	}
	if err := sdk.ValidateDenom(s.Denom); err != nil {
		return fmt.Errorf("invalid denom: %w", err)
	}
	if s.Deposit.IsNil() || !s.Deposit.IsPositive() {
		return fmt.Errorf("deposit must be positive")
	}
	if s.PricePerToken.IsNil() || !s.PricePerToken.IsPositive() {
		return fmt.Errorf("price per token must be positive")
	}
	if s.MaxDurationSeconds == 0 || s.ProofIntervalSeconds == 0 {
		return fmt.Errorf("duration and proof interval must be positive")
	}
	switch s.Status {
	case SESSION_STATUS_ACTIVE:
		if !s.SettledAt.IsZero() {
			return fmt.Errorf("active session cannot carry a settlement time")
		}
	case SESSION_STATUS_COMPLETED, SESSION_STATUS_TIMED_OUT:
		if s.SettledAt.IsZero() {
			return fmt.Errorf("terminal session must carry a settlement time")
		}
	default:
		return fmt.Errorf("unknown session status %d", s.Status)
	}
	if !s.WithinDepositBound(s.TokensProven) {
		return fmt.Errorf("proven tokens exceed deposit bound")
	}
	return nil
}

// ProofRecord is the audit trail of one accepted or attempted proof
// submission. Records are retained forever; their hashes and evidence
// references are the raw material for the external slashing workflow.
type ProofRecord struct {
	SessionId     uint64    `json:"session_id"`
	Sequence      uint64    `json:"sequence"`
	ProofHash     []byte    `json:"proof_hash"`
	TokensClaimed uint64    `json:"tokens_claimed"`
	Timestamp     time.Time `json:"timestamp"`
	Verified      bool      `json:"verified"`
	EvidenceRefs  []string  `json:"evidence_refs,omitempty"`
}
