package keeper

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

// HasProofHash reports whether a proof digest was already consumed. The
// replay set is global across sessions and hosts.
func (k Keeper) HasProofHash(ctx context.Context, hash []byte) bool {
	return k.getStore(ctx).Has(ProofHashKey(hash))
}

// markProofHash inserts a digest into the replay set
func (k Keeper) markProofHash(ctx context.Context, hash []byte) {
	k.getStore(ctx).Set(ProofHashKey(hash), []byte{1})
}

// verifyProofSignature checks a work attestation against the host's
// registered attestation key. Verification binds the signature to the
// proof hash, the attesting host, and the claimed token count.
func (k Keeper) verifyProofSignature(ctx context.Context, host sdk.AccAddress, proofHash, signature []byte, claimedTokens uint64) error {
	if len(proofHash) != sha256.Size {
		return types.ErrInvalidProof.Wrapf("proof hash must be %d bytes, got %d", sha256.Size, len(proofHash))
	}
	if len(signature) != ed25519.SignatureSize {
		return types.ErrInvalidSignature.Wrapf("signature must be %d bytes, got %d", ed25519.SignatureSize, len(signature))
	}

	pubKey, ok := k.stakeRegistry.HostAttestationKey(ctx, host)
	if !ok {
		return types.ErrInvalidSignature.Wrapf("host %s has no registered attestation key", host)
	}
	if len(pubKey) != ed25519.PublicKeySize {
		return types.ErrInvalidSignature.Wrapf("registered attestation key has invalid size %d", len(pubKey))
	}

	commitment := types.ProofCommitmentHash(proofHash, host, claimedTokens)
	if !ed25519.Verify(ed25519.PublicKey(pubKey), commitment, signature) {
		return types.ErrInvalidSignature.Wrap("attestation signature does not verify against registered key")
	}
	return nil
}

// VerifyProof runs the full acceptance check for one proof submission:
// structural validation, replay detection, then signature verification.
// The digest is only consumed on success; a rejected proof leaves the
// replay set untouched.
func (k Keeper) VerifyProof(ctx context.Context, host sdk.AccAddress, proofHash, signature []byte, claimedTokens uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if claimedTokens == 0 {
		return types.ErrInvalidProof.Wrap("claimed tokens must be positive")
	}

	if k.HasProofHash(ctx, proofHash) {
		k.metrics.ReplaysDetected.Inc()
		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeProofReplay,
			sdk.NewAttribute(types.AttributeKeyHost, host.String()),
			sdk.NewAttribute(types.AttributeKeyProofHash, hex.EncodeToString(proofHash)),
		))
		return types.ErrReplayDetected.Wrapf("proof hash %s already consumed", hex.EncodeToString(proofHash))
	}

	if err := k.verifyProofSignature(ctx, host, proofHash, signature, claimedTokens); err != nil {
		return err
	}

	k.markProofHash(ctx, proofHash)
	return nil
}

// SetProofRecord stores one proof audit record
func (k Keeper) SetProofRecord(ctx context.Context, record *types.ProofRecord) error {
	bz, err := k.cdc.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal proof record: %w", err)
	}
	k.getStore(ctx).Set(ProofRecordKey(record.SessionId, record.Sequence), bz)
	return nil
}

// GetSessionProofs returns a session's proof records in sequence order
func (k Keeper) GetSessionProofs(ctx context.Context, sessionID uint64) ([]types.ProofRecord, error) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, ProofRecordSessionPrefix(sessionID))
	defer iterator.Close()

	var records []types.ProofRecord
	for ; iterator.Valid(); iterator.Next() {
		var record types.ProofRecord
		if err := k.cdc.Unmarshal(iterator.Value(), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal proof record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// IterateProofHashes walks the global replay set
func (k Keeper) IterateProofHashes(ctx context.Context, fn func(hash []byte) bool) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, ProofHashKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		hash := iterator.Key()[len(ProofHashKeyPrefix):]
		if fn(hash) {
			break
		}
	}
}

// IterateProofRecords walks every proof record across all sessions
func (k Keeper) IterateProofRecords(ctx context.Context, fn func(record types.ProofRecord) bool) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, ProofRecordKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var record types.ProofRecord
		if err := k.cdc.Unmarshal(iterator.Value(), &record); err != nil {
			return fmt.Errorf("failed to unmarshal proof record: %w", err)
		}
		if fn(record) {
			break
		}
	}
	return nil
}
