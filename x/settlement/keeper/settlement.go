package keeper

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

// maxExpiredSessionsPerBlock caps end-block settlement work so a backlog
// of expired sessions cannot stall block production.
const maxExpiredSessionsPerBlock = 100

// SubmitProof accepts one signed work attestation against an active
// session and folds its claim into the proven total. A rejected proof
// leaves the session and the replay set completely untouched.
func (k Keeper) SubmitProof(ctx context.Context, msg *types.MsgSubmitProof) (*types.MsgSubmitProofResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	session, err := k.GetSession(ctx, msg.SessionId)
	if err != nil {
		return nil, err
	}
	if session.Status != types.SESSION_STATUS_ACTIVE {
		return nil, types.ErrInvalidSessionState.Wrapf("session %d is %s", session.Id, session.Status)
	}
	if msg.Host != session.Host {
		k.metrics.ProofsRejected.WithLabelValues("unauthorized").Inc()
		return nil, types.ErrUnauthorized.Wrapf("only the session host may submit proofs")
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	if msg.ClaimedTokens < params.MinProofTokens {
		k.metrics.ProofsRejected.WithLabelValues("claim_too_small").Inc()
		return nil, types.ErrClaimTooSmall.Wrapf("claim %d below minimum %d", msg.ClaimedTokens, params.MinProofTokens)
	}

	// Plausibility bound: a host cannot claim more tokens than the
	// configured throughput allows for the time since its last proof.
	now := sdkCtx.BlockTime()
	elapsed := uint64(now.Sub(session.LastProofTime) / time.Second)
	if elapsed == 0 {
		elapsed = 1
	}
	maxClaim, err := SafeMulUint64(elapsed, params.MaxTokensPerSecond)
	if err != nil {
		return nil, err
	}
	if msg.ClaimedTokens > maxClaim {
		k.metrics.ProofsRejected.WithLabelValues("excessive_claim").Inc()
		return nil, types.ErrExcessiveClaim.Wrapf("claim %d exceeds plausible maximum %d for %ds elapsed", msg.ClaimedTokens, maxClaim, elapsed)
	}

	newTotal, err := SafeAddUint64(session.TokensProven, msg.ClaimedTokens)
	if err != nil {
		return nil, err
	}
	if !session.WithinDepositBound(newTotal) {
		k.metrics.ProofsRejected.WithLabelValues("exceeds_deposit").Inc()
		return nil, types.ErrExceedsDeposit.Wrapf("proven total %d would exceed the deposit bound", newTotal)
	}

	host, err := sdk.AccAddressFromBech32(msg.Host)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid host: %v", err)
	}

	// Replay detection and signature verification; consumes the digest on
	// success only.
	if err := k.VerifyProof(ctx, host, msg.ProofHash, msg.Signature, msg.ClaimedTokens); err != nil {
		k.metrics.ProofsRejected.WithLabelValues("verification").Inc()
		return nil, err
	}

	session.TokensProven = newTotal
	session.ProofCount++
	session.LastProofTime = now
	if err := k.SetSession(ctx, session); err != nil {
		return nil, err
	}

	record := &types.ProofRecord{
		SessionId:     session.Id,
		Sequence:      session.ProofCount,
		ProofHash:     msg.ProofHash,
		TokensClaimed: msg.ClaimedTokens,
		Timestamp:     now,
		Verified:      true,
		EvidenceRefs:  msg.EvidenceRefs,
	}
	if err := k.SetProofRecord(ctx, record); err != nil {
		return nil, err
	}

	k.metrics.ProofsAccepted.WithLabelValues(session.Denom).Inc()
	k.metrics.TokensProven.WithLabelValues(session.Denom).Add(float64(msg.ClaimedTokens))

	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeProofAccepted,
		sdk.NewAttribute(types.AttributeKeySessionID, fmt.Sprintf("%d", session.Id)),
		sdk.NewAttribute(types.AttributeKeyHost, session.Host),
		sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", session.ProofCount)),
		sdk.NewAttribute(types.AttributeKeyTokensClaimed, fmt.Sprintf("%d", msg.ClaimedTokens)),
		sdk.NewAttribute(types.AttributeKeyTokensProven, fmt.Sprintf("%d", session.TokensProven)),
		sdk.NewAttribute(types.AttributeKeyProofHash, hex.EncodeToString(msg.ProofHash)),
	))

	return &types.MsgSubmitProofResponse{
		Sequence:     session.ProofCount,
		TokensProven: session.TokensProven,
	}, nil
}

// settlementResult carries the fund split computed by settle
type settlementResult struct {
	PaymentDue  math.Int
	HostShare   math.Int
	ProtocolFee math.Int
	Refund      math.Int
}

// settle performs the single terminal transition of a session: it splits
// the deposit into host share, protocol fee, and refund, updates every
// ledger cell, and marks the session terminal. All state effects happen
// before the refund transfer leaves the module pool.
func (k Keeper) settle(ctx context.Context, session *types.Session, status types.SessionStatus, evidenceRef string) (*settlementResult, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	depositor, err := sdk.AccAddressFromBech32(session.Depositor)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid depositor: %v", err)
	}
	host, err := sdk.AccAddressFromBech32(session.Host)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid host: %v", err)
	}

	paymentDue, err := SafeMulDiv(
		math.NewIntFromUint64(session.TokensProven),
		session.PricePerToken,
		math.NewInt(types.PriceScale),
	)
	if err != nil {
		return nil, err
	}
	protocolFee := params.FeeRate.MulInt(paymentDue).TruncateInt()
	hostShare, err := SafeSub(paymentDue, protocolFee)
	if err != nil {
		return nil, err
	}
	refund, err := SafeSub(session.Deposit, paymentDue)
	if err != nil {
		return nil, err
	}

	// Release the full locked deposit; the split below redistributes it.
	if err := k.debitLocked(ctx, depositor, session.Denom, session.Deposit); err != nil {
		return nil, err
	}

	if hostShare.IsPositive() {
		if err := k.creditEarnings(ctx, host, session.Denom, hostShare); err != nil {
			return nil, err
		}
	}
	if protocolFee.IsPositive() {
		if err := k.addProtocolFee(ctx, session.Denom, protocolFee); err != nil {
			return nil, err
		}
	}

	session.Status = status
	session.SettledAt = sdkCtx.BlockTime()
	if evidenceRef != "" {
		session.EvidenceRef = evidenceRef
	}
	if err := k.SetSession(ctx, session); err != nil {
		return nil, err
	}
	k.updateSessionStatusIndex(ctx, session.Id, types.SESSION_STATUS_ACTIVE, status)
	k.removeTimeoutIndex(ctx, session.Id)

	// Refund transfer is the only external interaction and runs last.
	if refund.IsPositive() {
		refundCoins := sdk.NewCoins(sdk.NewCoin(session.Denom, refund))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, depositor, refundCoins); err != nil {
			return nil, fmt.Errorf("failed to pay refund: %w", err)
		}
		k.metrics.RefundsPaid.WithLabelValues(session.Denom).Inc()
		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeRefundPaid,
			sdk.NewAttribute(types.AttributeKeySessionID, fmt.Sprintf("%d", session.Id)),
			sdk.NewAttribute(types.AttributeKeyDepositor, session.Depositor),
			sdk.NewAttribute(types.AttributeKeyRefund, refund.String()),
		))
	}

	k.metrics.SessionsActive.Dec()

	return &settlementResult{
		PaymentDue:  paymentDue,
		HostShare:   hostShare,
		ProtocolFee: protocolFee,
		Refund:      refund,
	}, nil
}

// CompleteSession settles an active session cooperatively. The depositor
// may complete at any time; the host only once the dispute window since
// session start has fully elapsed.
func (k Keeper) CompleteSession(ctx context.Context, msg *types.MsgCompleteSession) (*types.MsgCompleteSessionResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	session, err := k.GetSession(ctx, msg.SessionId)
	if err != nil {
		return nil, err
	}
	if session.Status != types.SESSION_STATUS_ACTIVE {
		return nil, types.ErrInvalidSessionState.Wrapf("session %d is %s", session.Id, session.Status)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	switch msg.Caller {
	case session.Depositor:
		// The paying party may settle at any time.
	case session.Host:
		windowEnd := session.StartTime.Add(time.Duration(params.DisputeWindowSeconds) * time.Second)
		if sdkCtx.BlockTime().Before(windowEnd) {
			return nil, types.ErrDisputeWindowActive.Wrapf("host may complete after %s", windowEnd.UTC().Format(time.RFC3339))
		}
	default:
		return nil, types.ErrUnauthorized.Wrap("only the depositor or host may complete a session")
	}

	result, err := k.settle(ctx, session, types.SESSION_STATUS_COMPLETED, msg.EvidenceRef)
	if err != nil {
		return nil, err
	}

	k.metrics.SessionsCompleted.WithLabelValues(session.Denom).Inc()
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSessionCompleted,
		sdk.NewAttribute(types.AttributeKeySessionID, fmt.Sprintf("%d", session.Id)),
		sdk.NewAttribute(types.AttributeKeyCaller, msg.Caller),
		sdk.NewAttribute(types.AttributeKeyTokensProven, fmt.Sprintf("%d", session.TokensProven)),
		sdk.NewAttribute(types.AttributeKeyPaymentDue, result.PaymentDue.String()),
		sdk.NewAttribute(types.AttributeKeyHostShare, result.HostShare.String()),
		sdk.NewAttribute(types.AttributeKeyProtocolFee, result.ProtocolFee.String()),
		sdk.NewAttribute(types.AttributeKeyRefund, result.Refund.String()),
	))

	return &types.MsgCompleteSessionResponse{
		PaymentDue:  result.PaymentDue,
		HostShare:   result.HostShare,
		ProtocolFee: result.ProtocolFee,
		Refund:      result.Refund,
	}, nil
}

// timeoutReached reports whether a session satisfies either timeout
// condition: its maximum duration has elapsed, or the host has been
// silent for the configured number of proof windows.
func timeoutReached(session *types.Session, params types.Params, now time.Time) bool {
	hardDeadline := session.StartTime.Add(time.Duration(session.MaxDurationSeconds) * time.Second)
	if now.After(hardDeadline) {
		return true
	}

	silence := time.Duration(params.MissedProofWindows*session.ProofIntervalSeconds) * time.Second
	return now.After(session.LastProofTime.Add(silence))
}

// TriggerTimeout settles a stalled or expired session. Any account may
// call it; the settlement outcome never depends on the caller, so the
// only thing a stranger can force is exactly the payout the proofs
// already justify.
func (k Keeper) TriggerTimeout(ctx context.Context, msg *types.MsgTriggerTimeout) (*types.MsgTriggerTimeoutResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	session, err := k.GetSession(ctx, msg.SessionId)
	if err != nil {
		return nil, err
	}
	if session.Status != types.SESSION_STATUS_ACTIVE {
		return nil, types.ErrInvalidSessionState.Wrapf("session %d is %s", session.Id, session.Status)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	if !timeoutReached(session, params, sdkCtx.BlockTime()) {
		return nil, types.ErrTimeoutNotReached.Wrapf("session %d has not timed out", session.Id)
	}

	result, err := k.settle(ctx, session, types.SESSION_STATUS_TIMED_OUT, "")
	if err != nil {
		return nil, err
	}

	k.metrics.SessionsTimedOut.WithLabelValues(session.Denom).Inc()
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSessionTimedOut,
		sdk.NewAttribute(types.AttributeKeySessionID, fmt.Sprintf("%d", session.Id)),
		sdk.NewAttribute(types.AttributeKeyCaller, msg.Caller),
		sdk.NewAttribute(types.AttributeKeyTokensProven, fmt.Sprintf("%d", session.TokensProven)),
		sdk.NewAttribute(types.AttributeKeyPaymentDue, result.PaymentDue.String()),
		sdk.NewAttribute(types.AttributeKeyHostShare, result.HostShare.String()),
		sdk.NewAttribute(types.AttributeKeyProtocolFee, result.ProtocolFee.String()),
		sdk.NewAttribute(types.AttributeKeyRefund, result.Refund.String()),
	))

	return &types.MsgTriggerTimeoutResponse{
		PaymentDue:  result.PaymentDue,
		HostShare:   result.HostShare,
		ProtocolFee: result.ProtocolFee,
		Refund:      result.Refund,
	}, nil
}

// ProcessExpiredSessions settles every session whose hard deadline has
// passed, up to the per-block cap. Failures are logged and skipped so one
// bad session cannot wedge the sweep.
func (k Keeper) ProcessExpiredSessions(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime()

	// Collect first: settlement mutates the index being walked.
	var expired []uint64
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, SessionTimeoutPrefix)
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()[len(SessionTimeoutPrefix):]
		// Strictly past the deadline, matching timeoutReached.
		expiry := int64(binary.BigEndian.Uint64(key[:8]))
		if expiry >= now.Unix() {
			break
		}
		expired = append(expired, GetSessionIDFromBytes(key[8:]))
		if len(expired) >= maxExpiredSessionsPerBlock {
			break
		}
	}
	iterator.Close()

	if len(expired) == 0 {
		return nil
	}

	processed := 0
	for _, sessionID := range expired {
		session, err := k.GetSession(ctx, sessionID)
		if err != nil {
			k.Logger(sdkCtx).Error("expired session lookup failed", "session_id", sessionID, "error", err)
			k.removeTimeoutIndex(ctx, sessionID)
			continue
		}
		if session.Status != types.SESSION_STATUS_ACTIVE {
			// Stale index entry from a session settled this block.
			k.removeTimeoutIndex(ctx, sessionID)
			continue
		}

		result, err := k.settle(ctx, session, types.SESSION_STATUS_TIMED_OUT, "")
		if err != nil {
			k.Logger(sdkCtx).Error("expired session settlement failed", "session_id", sessionID, "error", err)
			continue
		}

		k.metrics.SessionsTimedOut.WithLabelValues(session.Denom).Inc()
		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeSessionTimedOut,
			sdk.NewAttribute(types.AttributeKeySessionID, fmt.Sprintf("%d", sessionID)),
			sdk.NewAttribute(types.AttributeKeyTokensProven, fmt.Sprintf("%d", session.TokensProven)),
			sdk.NewAttribute(types.AttributeKeyRefund, result.Refund.String()),
		))
		processed++
	}

	k.metrics.ExpiredSessionSweeps.Inc()
	if processed > 0 {
		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeExpiredSessionsProcessed,
			sdk.NewAttribute(types.AttributeKeyCount, fmt.Sprintf("%d", processed)),
		))
	}
	return nil
}
