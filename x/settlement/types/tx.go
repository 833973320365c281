package types

import (
	"context"

	"cosmossdk.io/math"
)

// MsgServer defines the message server interface
type MsgServer interface {
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	CreateSession(context.Context, *MsgCreateSession) (*MsgCreateSessionResponse, error)
	SubmitProof(context.Context, *MsgSubmitProof) (*MsgSubmitProofResponse, error)
	CompleteSession(context.Context, *MsgCompleteSession) (*MsgCompleteSessionResponse, error)
	TriggerTimeout(context.Context, *MsgTriggerTimeout) (*MsgTriggerTimeoutResponse, error)
	WithdrawEarnings(context.Context, *MsgWithdrawEarnings) (*MsgWithdrawEarningsResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

// Response types

// MsgDepositResponse defines the response for Deposit
type MsgDepositResponse struct {
	Withdrawable math.Int `json:"withdrawable"`
}

// MsgWithdrawResponse defines the response for Withdraw
type MsgWithdrawResponse struct {
	Withdrawable math.Int `json:"withdrawable"`
}

// MsgCreateSessionResponse defines the response for CreateSession
type MsgCreateSessionResponse struct {
	SessionId uint64 `json:"session_id"`
}

// MsgSubmitProofResponse defines the response for SubmitProof
type MsgSubmitProofResponse struct {
	Sequence     uint64 `json:"sequence"`
	TokensProven uint64 `json:"tokens_proven"`
}

// MsgCompleteSessionResponse defines the response for CompleteSession
type MsgCompleteSessionResponse struct {
	PaymentDue  math.Int `json:"payment_due"`
	HostShare   math.Int `json:"host_share"`
	ProtocolFee math.Int `json:"protocol_fee"`
	Refund      math.Int `json:"refund"`
}

// MsgTriggerTimeoutResponse defines the response for TriggerTimeout
type MsgTriggerTimeoutResponse struct {
	PaymentDue  math.Int `json:"payment_due"`
	HostShare   math.Int `json:"host_share"`
	ProtocolFee math.Int `json:"protocol_fee"`
	Refund      math.Int `json:"refund"`
}

// MsgWithdrawEarningsResponse defines the response for WithdrawEarnings
type MsgWithdrawEarningsResponse struct {
	Amount math.Int `json:"amount"`
}

// MsgUpdateParamsResponse defines the response for UpdateParams
type MsgUpdateParamsResponse struct{}

// Placeholder for protobuf service descriptor
var _Msg_serviceDesc = struct{}{}
