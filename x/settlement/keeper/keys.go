package keeper

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

var (
	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x01}

	// SessionKeyPrefix is the prefix for session storage
	SessionKeyPrefix = []byte{0x02}

	// NextSessionIDKey is the key for the next session ID counter
	NextSessionIDKey = []byte{0x03}

	// ProofRecordKeyPrefix is the prefix for proof record storage
	ProofRecordKeyPrefix = []byte{0x04}

	// ProofHashKeyPrefix stores digests of accepted proofs to prevent reuse.
	// The set is global: a hash consumed by any session is consumed for all.
	ProofHashKeyPrefix = []byte{0x05}

	// WithdrawableKeyPrefix is the prefix for withdrawable balance cells
	WithdrawableKeyPrefix = []byte{0x06}

	// LockedKeyPrefix is the prefix for locked balance cells
	LockedKeyPrefix = []byte{0x07}

	// EarningsKeyPrefix is the prefix for host earnings accrual cells
	EarningsKeyPrefix = []byte{0x08}

	// ProtocolFeeKeyPrefix is the prefix for accrued protocol fee cells
	ProtocolFeeKeyPrefix = []byte{0x09}

	// SessionTimeoutPrefix is the timeout index for active sessions.
	// Key: prefix + expiry timestamp + session ID -> session ID
	SessionTimeoutPrefix = []byte{0x0A}

	// SessionTimeoutReversePrefix is the reverse index for timeout lookup
	// by session ID. Key: prefix + session ID -> expiry timestamp.
	// This enables O(1) lookup when removing timeout indexes.
	SessionTimeoutReversePrefix = []byte{0x0B}

	// SessionsByDepositorPrefix is the prefix for indexing sessions by depositor
	SessionsByDepositorPrefix = []byte{0x0C}

	// SessionsByHostPrefix is the prefix for indexing sessions by host
	SessionsByHostPrefix = []byte{0x0D}

	// SessionsByStatusPrefix is the prefix for indexing sessions by status
	SessionsByStatusPrefix = []byte{0x0E}
)

// SessionKey returns the store key for a session
func SessionKey(sessionID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, sessionID)
	return append(SessionKeyPrefix, bz...)
}

// ProofRecordKey returns the store key for one proof record of a session
func ProofRecordKey(sessionID, sequence uint64) []byte {
	bz := make([]byte, 16)
	binary.BigEndian.PutUint64(bz[:8], sessionID)
	binary.BigEndian.PutUint64(bz[8:], sequence)
	return append(ProofRecordKeyPrefix, bz...)
}

// ProofRecordSessionPrefix returns the iteration prefix over one session's
// proof records, ordered by sequence.
func ProofRecordSessionPrefix(sessionID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, sessionID)
	return append(ProofRecordKeyPrefix, bz...)
}

// ProofHashKey returns the store key for a consumed proof digest
func ProofHashKey(hash []byte) []byte {
	return append(ProofHashKeyPrefix, hash...)
}

// WithdrawableKey returns the store key for a withdrawable balance cell
func WithdrawableKey(addr sdk.AccAddress, denom string) []byte {
	return append(append(WithdrawableKeyPrefix, address.MustLengthPrefix(addr)...), []byte(denom)...)
}

// LockedKey returns the store key for a locked balance cell
func LockedKey(addr sdk.AccAddress, denom string) []byte {
	return append(append(LockedKeyPrefix, address.MustLengthPrefix(addr)...), []byte(denom)...)
}

// EarningsKey returns the store key for a host earnings cell
func EarningsKey(host sdk.AccAddress, denom string) []byte {
	return append(append(EarningsKeyPrefix, address.MustLengthPrefix(host)...), []byte(denom)...)
}

// ProtocolFeeKey returns the store key for an accrued protocol fee cell
func ProtocolFeeKey(denom string) []byte {
	return append(ProtocolFeeKeyPrefix, []byte(denom)...)
}

// SessionTimeoutKey returns the timeout index key for a session
func SessionTimeoutKey(expiry int64, sessionID uint64) []byte {
	bz := make([]byte, 16)
	binary.BigEndian.PutUint64(bz[:8], uint64(expiry))
	binary.BigEndian.PutUint64(bz[8:], sessionID)
	return append(SessionTimeoutPrefix, bz...)
}

// SessionTimeoutReverseKey returns the reverse timeout index key
func SessionTimeoutReverseKey(sessionID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, sessionID)
	return append(SessionTimeoutReversePrefix, bz...)
}

// SessionByDepositorKey returns the index key for sessions by depositor
func SessionByDepositorKey(depositor sdk.AccAddress, sessionID uint64) []byte {
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, sessionID)
	return append(append(SessionsByDepositorPrefix, address.MustLengthPrefix(depositor)...), idBz...)
}

// SessionByHostKey returns the index key for sessions by host
func SessionByHostKey(host sdk.AccAddress, sessionID uint64) []byte {
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, sessionID)
	return append(append(SessionsByHostPrefix, address.MustLengthPrefix(host)...), idBz...)
}

// SessionByStatusKey returns the index key for sessions by status
func SessionByStatusKey(status int32, sessionID uint64) []byte {
	statusBz := make([]byte, 4)
	binary.BigEndian.PutUint32(statusBz, uint32(status))
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, sessionID)
	return append(append(SessionsByStatusPrefix, statusBz...), idBz...)
}

// GetSessionIDFromBytes converts bytes to a session ID
func GetSessionIDFromBytes(bz []byte) uint64 {
	return binary.BigEndian.Uint64(bz)
}
