package types

import (
	"context"

	"cosmossdk.io/math"
)

// QueryServer defines the query server interface
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Session(context.Context, *QuerySessionRequest) (*QuerySessionResponse, error)
	Sessions(context.Context, *QuerySessionsRequest) (*QuerySessionsResponse, error)
	Balance(context.Context, *QueryBalanceRequest) (*QueryBalanceResponse, error)
	Earnings(context.Context, *QueryEarningsRequest) (*QueryEarningsResponse, error)
	SessionProofs(context.Context, *QuerySessionProofsRequest) (*QuerySessionProofsResponse, error)
}

// QueryParamsRequest requests the module parameters
type QueryParamsRequest struct{}

// QueryParamsResponse returns the module parameters
type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QuerySessionRequest requests a single session by id
type QuerySessionRequest struct {
	SessionId uint64 `json:"session_id"`
}

// QuerySessionResponse returns a single session
type QuerySessionResponse struct {
	Session Session `json:"session"`
}

// QuerySessionsRequest requests sessions, optionally filtered by
// participant address and/or status.
type QuerySessionsRequest struct {
	Depositor string `json:"depositor,omitempty"`
	Host      string `json:"host,omitempty"`
	Status    string `json:"status,omitempty"`
}

// QuerySessionsResponse returns the matching sessions
type QuerySessionsResponse struct {
	Sessions []Session `json:"sessions"`
}

// QueryBalanceRequest requests an account's ledger balances for a denom
type QueryBalanceRequest struct {
	Address string `json:"address"`
	Denom   string `json:"denom"`
}

// QueryBalanceResponse returns the withdrawable and locked balances plus
// their sum
type QueryBalanceResponse struct {
	Withdrawable math.Int `json:"withdrawable"`
	Locked       math.Int `json:"locked"`
	Total        math.Int `json:"total"`
}

// QueryEarningsRequest requests a host's accrued earnings for a denom
type QueryEarningsRequest struct {
	Host  string `json:"host"`
	Denom string `json:"denom"`
}

// QueryEarningsResponse returns the accrued, not yet withdrawn earnings
type QueryEarningsResponse struct {
	Amount math.Int `json:"amount"`
}

// QuerySessionProofsRequest requests the proof audit trail of a session
type QuerySessionProofsRequest struct {
	SessionId uint64 `json:"session_id"`
}

// QuerySessionProofsResponse returns the session's proof records in
// sequence order
type QuerySessionProofsResponse struct {
	Proofs []ProofRecord `json:"proofs"`
}
