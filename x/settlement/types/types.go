package types

import (
	"crypto/sha256"
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "settlement"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// PriceScale is the network-wide fixed-point factor applied to
	// per-token prices. A stored price of 1000 pays exactly one base unit
	// per proven token. The same factor is used in price validation and
	// settlement arithmetic so rounding direction never diverges.
	PriceScale = 1000
)

// Funding sources accepted by session creation.
const (
	// FundingSourceInline supplies the deposit with the call itself.
	FundingSourceInline = "inline"

	// FundingSourceBalance debits the depositor's withdrawable balance.
	FundingSourceBalance = "balance"
)

// SessionStatus is the lifecycle state of a session. Active is the only
// non-terminal state; exactly one of Completed/TimedOut is reachable from
// it and neither is reachable from the other.
type SessionStatus int32

const (
	SESSION_STATUS_UNSPECIFIED SessionStatus = iota
	SESSION_STATUS_ACTIVE
	SESSION_STATUS_COMPLETED
	SESSION_STATUS_TIMED_OUT
)

// String returns the human-readable status name.
func (s SessionStatus) String() string {
	switch s {
	case SESSION_STATUS_ACTIVE:
		return "active"
	case SESSION_STATUS_COMPLETED:
		return "completed"
	case SESSION_STATUS_TIMED_OUT:
		return "timed_out"
	default:
		return "unspecified"
	}
}

// IsTerminal reports whether no further transition may leave this status.
func (s SessionStatus) IsTerminal() bool {
	return s == SESSION_STATUS_COMPLETED || s == SESSION_STATUS_TIMED_OUT
}

// ProofCommitmentHash builds the canonical message a host signs when
// attesting an increment of metered work. It commits to the proof content
// hash, the attesting party, and the claimed token count, so a signature
// cannot be transplanted onto a different claim or a different host.
func ProofCommitmentHash(proofHash []byte, attester sdk.AccAddress, claimedTokens uint64) []byte {
	hasher := sha256.New()

	hasher.Write(proofHash)
	hasher.Write(attester.Bytes())

	tokenBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(tokenBytes, claimedTokens)
	hasher.Write(tokenBytes)

	return hasher.Sum(nil)
}
