package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgCreateSession{}

// MsgCreateSession opens a metered session, locking the deposit for its
// entire Active lifetime.
type MsgCreateSession struct {
	Depositor            string   `json:"depositor"`
	Host                 string   `json:"host"`
	ModelId              string   `json:"model_id"`
	Deposit              sdk.Coin `json:"deposit"`
	PricePerToken        math.Int `json:"price_per_token"` // scaled by PriceScale
	MaxDurationSeconds   uint64   `json:"max_duration_seconds"`
	ProofIntervalSeconds uint64   `json:"proof_interval_seconds"`
	FundingSource        string   `json:"funding_source"`
}

// NewMsgCreateSession creates a new MsgCreateSession instance
func NewMsgCreateSession(depositor, host, modelID string, deposit sdk.Coin, pricePerToken math.Int, maxDuration, proofInterval uint64, fundingSource string) *MsgCreateSession {
	return &MsgCreateSession{
		Depositor:            depositor,
		Host:                 host,
		ModelId:              modelID,
		Deposit:              deposit,
		PricePerToken:        pricePerToken,
		MaxDurationSeconds:   maxDuration,
		ProofIntervalSeconds: proofInterval,
		FundingSource:        fundingSource,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgCreateSession) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgCreateSession) Type() string { return "create_session" }

// GetSigners implements the sdk.Msg interface
func (msg MsgCreateSession) GetSigners() []sdk.AccAddress {
	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{depositor}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCreateSession) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCreateSession) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Depositor); err != nil {
		return ErrInvalidAddress.Wrapf("invalid depositor address: %v", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.Host); err != nil {
		return ErrInvalidAddress.Wrapf("invalid host address: %v", err)
	}
	if msg.Depositor == msg.Host {
		return ErrInvalidSession.Wrap("depositor and host must differ")
	}
	if msg.ModelId == "" {
		return ErrInvalidSession.Wrap("model id is required")
	}
	if err := msg.Deposit.Validate(); err != nil {
		return ErrInvalidSession.Wrapf("invalid deposit: %v", err)
	}
	if msg.Deposit.IsZero() {
		return ErrInvalidSession.Wrap("deposit must be positive")
	}
	if msg.PricePerToken.IsNil() || !msg.PricePerToken.IsPositive() {
		return ErrInvalidSession.Wrap("price per token must be positive")
	}
	if msg.MaxDurationSeconds == 0 {
		return ErrInvalidSession.Wrap("max duration must be positive")
	}
	if msg.ProofIntervalSeconds == 0 {
		return ErrInvalidSession.Wrap("proof interval must be positive")
	}
	if msg.FundingSource != FundingSourceInline && msg.FundingSource != FundingSourceBalance {
		return ErrInvalidFunding.Wrapf("funding source must be %q or %q", FundingSourceInline, FundingSourceBalance)
	}
	return nil
}
