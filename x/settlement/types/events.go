package types

// Event types for the settlement module.
// All event types use lowercase with underscore separator (module_action format)
const (
	// Balance ledger events
	EventTypeDeposit  = "settlement_deposit"
	EventTypeWithdraw = "settlement_withdraw"

	// Session lifecycle events
	EventTypeSessionCreated   = "session_created"
	EventTypeSessionCompleted = "session_completed"
	EventTypeSessionTimedOut  = "session_timed_out"

	// Proof events
	EventTypeProofAccepted = "proof_accepted"
	EventTypeProofReplay   = "proof_replay_detected"

	// Settlement fund-movement events
	EventTypeEarningsCredited  = "earnings_credited"
	EventTypeEarningsWithdrawn = "earnings_withdrawn"
	EventTypeRefundPaid        = "refund_paid"
	EventTypeProtocolFee       = "protocol_fee_accrued"
	EventTypeProtocolFeeSwept  = "protocol_fee_swept"

	// Maintenance events
	EventTypeExpiredSessionsProcessed = "expired_sessions_processed"
)

// Event attribute keys for the settlement module.
const (
	AttributeKeySessionID     = "session_id"
	AttributeKeyDepositor     = "depositor"
	AttributeKeyHost          = "host"
	AttributeKeyModelID       = "model_id"
	AttributeKeyDenom         = "denom"
	AttributeKeyDeposit       = "deposit"
	AttributeKeyPricePerToken = "price_per_token"
	AttributeKeyFundingSource = "funding_source"

	AttributeKeyAccount = "account"
	AttributeKeyAmount  = "amount"

	AttributeKeyTokensClaimed = "tokens_claimed"
	AttributeKeyTokensProven  = "tokens_proven"
	AttributeKeyProofHash     = "proof_hash"
	AttributeKeySequence      = "sequence"

	AttributeKeyCaller      = "caller"
	AttributeKeyPaymentDue  = "payment_due"
	AttributeKeyHostShare   = "host_share"
	AttributeKeyProtocolFee = "protocol_fee"
	AttributeKeyRefund      = "refund"
	AttributeKeyEvidenceRef = "evidence_ref"

	AttributeKeyCount = "count"
)
