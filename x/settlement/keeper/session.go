package keeper

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

// GetSession returns a session by ID
func (k Keeper) GetSession(ctx context.Context, sessionID uint64) (*types.Session, error) {
	bz := k.getStore(ctx).Get(SessionKey(sessionID))
	if bz == nil {
		return nil, types.ErrSessionNotFound.Wrapf("session %d", sessionID)
	}

	var session types.Session
	if err := k.cdc.Unmarshal(bz, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %d: %w", sessionID, err)
	}
	return &session, nil
}

// SetSession stores a session
func (k Keeper) SetSession(ctx context.Context, session *types.Session) error {
	bz, err := k.cdc.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %d: %w", session.Id, err)
	}
	k.getStore(ctx).Set(SessionKey(session.Id), bz)
	return nil
}

// getNextSessionID returns and increments the session ID counter
func (k Keeper) getNextSessionID(ctx context.Context) (uint64, error) {
	store := k.getStore(ctx)

	next := uint64(1)
	if bz := store.Get(NextSessionIDKey); bz != nil {
		next = binary.BigEndian.Uint64(bz)
	}

	incremented, err := SafeAddUint64(next, 1)
	if err != nil {
		return 0, err
	}

	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, incremented)
	store.Set(NextSessionIDKey, bz)

	return next, nil
}

// setSessionIndexes writes the secondary indexes for a new session
func (k Keeper) setSessionIndexes(ctx context.Context, session *types.Session) error {
	store := k.getStore(ctx)

	depositor, err := sdk.AccAddressFromBech32(session.Depositor)
	if err != nil {
		return err
	}
	host, err := sdk.AccAddressFromBech32(session.Host)
	if err != nil {
		return err
	}

	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, session.Id)

	store.Set(SessionByDepositorKey(depositor, session.Id), idBz)
	store.Set(SessionByHostKey(host, session.Id), idBz)
	store.Set(SessionByStatusKey(int32(session.Status), session.Id), idBz)
	return nil
}

// updateSessionStatusIndex moves a session between status index buckets
func (k Keeper) updateSessionStatusIndex(ctx context.Context, sessionID uint64, from, to types.SessionStatus) {
	store := k.getStore(ctx)

	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, sessionID)

	store.Delete(SessionByStatusKey(int32(from), sessionID))
	store.Set(SessionByStatusKey(int32(to), sessionID), idBz)
}

// setTimeoutIndex records the session in the expiry-ordered timeout index
// together with its reverse entry.
func (k Keeper) setTimeoutIndex(ctx context.Context, sessionID uint64, expiry time.Time) {
	store := k.getStore(ctx)

	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, sessionID)
	store.Set(SessionTimeoutKey(expiry.Unix(), sessionID), idBz)

	expiryBz := make([]byte, 8)
	binary.BigEndian.PutUint64(expiryBz, uint64(expiry.Unix()))
	store.Set(SessionTimeoutReverseKey(sessionID), expiryBz)
}

// removeTimeoutIndex deletes both sides of the timeout index. The reverse
// entry makes this O(1) instead of a scan over the forward index.
func (k Keeper) removeTimeoutIndex(ctx context.Context, sessionID uint64) {
	store := k.getStore(ctx)

	reverseKey := SessionTimeoutReverseKey(sessionID)
	expiryBz := store.Get(reverseKey)
	if expiryBz == nil {
		return
	}

	expiry := int64(binary.BigEndian.Uint64(expiryBz))
	store.Delete(SessionTimeoutKey(expiry, sessionID))
	store.Delete(reverseKey)
}

// CreateSession validates the request against policy and the external
// registries, takes custody of the deposit, and opens an Active session.
// All checks run before any fund movement.
func (k Keeper) CreateSession(ctx context.Context, msg *types.MsgCreateSession) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}

	if !params.DenomAllowed(msg.Deposit.Denom) {
		return 0, types.ErrDenomNotAllowed.Wrapf("denom %s", msg.Deposit.Denom)
	}
	if msg.Deposit.Amount.LT(params.MinDeposit) {
		return 0, types.ErrInvalidDeposit.Wrapf("deposit %s below minimum %s", msg.Deposit.Amount, params.MinDeposit)
	}
	if msg.MaxDurationSeconds > params.MaxSessionDurationSeconds {
		return 0, types.ErrInvalidSession.Wrapf("duration %d exceeds maximum %d", msg.MaxDurationSeconds, params.MaxSessionDurationSeconds)
	}
	if msg.ProofIntervalSeconds < params.MinProofIntervalSeconds {
		return 0, types.ErrInvalidSession.Wrapf("proof interval %d below minimum %d", msg.ProofIntervalSeconds, params.MinProofIntervalSeconds)
	}
	if msg.ProofIntervalSeconds > msg.MaxDurationSeconds {
		return 0, types.ErrInvalidSession.Wrap("proof interval cannot exceed session duration")
	}

	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		return 0, types.ErrInvalidAddress.Wrapf("invalid depositor: %v", err)
	}
	host, err := sdk.AccAddressFromBech32(msg.Host)
	if err != nil {
		return 0, types.ErrInvalidAddress.Wrapf("invalid host: %v", err)
	}

	if !k.modelRegistry.IsModelApproved(ctx, msg.ModelId) {
		return 0, types.ErrModelNotApproved.Wrapf("model %s", msg.ModelId)
	}
	if !k.stakeRegistry.IsHostActive(ctx, host) {
		return 0, types.ErrHostNotActive.Wrapf("host %s", msg.Host)
	}

	minPrice, err := k.stakeRegistry.MinimumPrice(ctx, host, msg.ModelId, msg.Deposit.Denom)
	if err != nil {
		return 0, types.ErrPriceTooLow.Wrapf("failed to resolve minimum price: %v", err)
	}
	if msg.PricePerToken.LT(minPrice) {
		return 0, types.ErrPriceTooLow.Wrapf("price %s below host minimum %s", msg.PricePerToken, minPrice)
	}

	// Funds move only after every check has passed.
	switch msg.FundingSource {
	case types.FundingSourceInline:
		if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, depositor, types.ModuleName, sdk.NewCoins(msg.Deposit)); err != nil {
			return 0, types.ErrInvalidDeposit.Wrapf("failed to transfer deposit: %v", err)
		}
		if err := k.creditLocked(ctx, depositor, msg.Deposit.Denom, msg.Deposit.Amount); err != nil {
			return 0, err
		}
	case types.FundingSourceBalance:
		if err := k.lockFromBalance(ctx, depositor, msg.Deposit.Denom, msg.Deposit.Amount); err != nil {
			return 0, err
		}
	default:
		return 0, types.ErrInvalidFunding.Wrapf("funding source %q", msg.FundingSource)
	}

	sessionID, err := k.getNextSessionID(ctx)
	if err != nil {
		return 0, err
	}

	now := sdkCtx.BlockTime()
	session := &types.Session{
		Id:                   sessionID,
		Depositor:            msg.Depositor,
		Host:                 msg.Host,
		ModelId:              msg.ModelId,
		Denom:                msg.Deposit.Denom,
		Deposit:              msg.Deposit.Amount,
		PricePerToken:        msg.PricePerToken,
		MaxDurationSeconds:   msg.MaxDurationSeconds,
		ProofIntervalSeconds: msg.ProofIntervalSeconds,
		StartTime:            now,
		LastProofTime:        now,
		Status:               types.SESSION_STATUS_ACTIVE,
	}

	if err := k.SetSession(ctx, session); err != nil {
		return 0, err
	}
	if err := k.setSessionIndexes(ctx, session); err != nil {
		return 0, err
	}
	expiry := now.Add(time.Duration(msg.MaxDurationSeconds) * time.Second)
	k.setTimeoutIndex(ctx, sessionID, expiry)

	k.metrics.SessionsCreated.WithLabelValues(msg.Deposit.Denom).Inc()
	k.metrics.SessionsActive.Inc()

	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSessionCreated,
		sdk.NewAttribute(types.AttributeKeySessionID, fmt.Sprintf("%d", sessionID)),
		sdk.NewAttribute(types.AttributeKeyDepositor, msg.Depositor),
		sdk.NewAttribute(types.AttributeKeyHost, msg.Host),
		sdk.NewAttribute(types.AttributeKeyModelID, msg.ModelId),
		sdk.NewAttribute(types.AttributeKeyDeposit, msg.Deposit.String()),
		sdk.NewAttribute(types.AttributeKeyPricePerToken, msg.PricePerToken.String()),
		sdk.NewAttribute(types.AttributeKeyFundingSource, msg.FundingSource),
	))

	return sessionID, nil
}

// IterateSessions walks every stored session in ID order
func (k Keeper) IterateSessions(ctx context.Context, fn func(session types.Session) bool) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, SessionKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var session types.Session
		if err := k.cdc.Unmarshal(iterator.Value(), &session); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		if fn(session) {
			break
		}
	}
	return nil
}

// GetSessionsByDepositor returns the sessions opened by a depositor
func (k Keeper) GetSessionsByDepositor(ctx context.Context, depositor sdk.AccAddress) ([]types.Session, error) {
	return k.sessionsByIndex(ctx, append(SessionsByDepositorPrefix, address.MustLengthPrefix(depositor)...))
}

// GetSessionsByHost returns the sessions served by a host
func (k Keeper) GetSessionsByHost(ctx context.Context, host sdk.AccAddress) ([]types.Session, error) {
	return k.sessionsByIndex(ctx, append(SessionsByHostPrefix, address.MustLengthPrefix(host)...))
}

func (k Keeper) sessionsByIndex(ctx context.Context, prefix []byte) ([]types.Session, error) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var sessions []types.Session
	for ; iterator.Valid(); iterator.Next() {
		sessionID := GetSessionIDFromBytes(iterator.Value())
		session, err := k.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, nil
}
