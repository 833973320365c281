package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	_ sdk.Msg = &MsgDeposit{}
	_ sdk.Msg = &MsgWithdraw{}
	_ sdk.Msg = &MsgWithdrawEarnings{}
)

// MsgDeposit credits an account's withdrawable balance with funds
// supplied by the call.
type MsgDeposit struct {
	Account string   `json:"account"`
	Amount  sdk.Coin `json:"amount"`
}

// NewMsgDeposit creates a new MsgDeposit instance
func NewMsgDeposit(account string, amount sdk.Coin) *MsgDeposit {
	return &MsgDeposit{Account: account, Amount: amount}
}

// Route implements the sdk.Msg interface
func (msg MsgDeposit) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgDeposit) Type() string { return "deposit" }

// GetSigners implements the sdk.Msg interface
func (msg MsgDeposit) GetSigners() []sdk.AccAddress {
	account, err := sdk.AccAddressFromBech32(msg.Account)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{account}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgDeposit) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Account); err != nil {
		return ErrInvalidAddress.Wrapf("invalid account address: %v", err)
	}
	if err := msg.Amount.Validate(); err != nil {
		return ErrValidationFailed.Wrapf("invalid amount: %v", err)
	}
	if msg.Amount.IsZero() {
		return ErrValidationFailed.Wrap("amount must be positive")
	}
	return nil
}

// MsgWithdraw removes funds from an account's withdrawable balance.
// Locked funds are categorically unreachable by this path.
type MsgWithdraw struct {
	Account string   `json:"account"`
	Amount  sdk.Coin `json:"amount"`
}

// NewMsgWithdraw creates a new MsgWithdraw instance
func NewMsgWithdraw(account string, amount sdk.Coin) *MsgWithdraw {
	return &MsgWithdraw{Account: account, Amount: amount}
}

// Route implements the sdk.Msg interface
func (msg MsgWithdraw) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgWithdraw) Type() string { return "withdraw" }

// GetSigners implements the sdk.Msg interface
func (msg MsgWithdraw) GetSigners() []sdk.AccAddress {
	account, err := sdk.AccAddressFromBech32(msg.Account)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{account}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgWithdraw) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Account); err != nil {
		return ErrInvalidAddress.Wrapf("invalid account address: %v", err)
	}
	if err := msg.Amount.Validate(); err != nil {
		return ErrValidationFailed.Wrapf("invalid amount: %v", err)
	}
	if msg.Amount.IsZero() {
		return ErrValidationFailed.Wrap("amount must be positive")
	}
	return nil
}

// MsgWithdrawEarnings pays out a host's accrued settlement earnings in a
// single batched transfer.
type MsgWithdrawEarnings struct {
	Host  string `json:"host"`
	Denom string `json:"denom"`
}

// NewMsgWithdrawEarnings creates a new MsgWithdrawEarnings instance
func NewMsgWithdrawEarnings(host, denom string) *MsgWithdrawEarnings {
	return &MsgWithdrawEarnings{Host: host, Denom: denom}
}

// Route implements the sdk.Msg interface
func (msg MsgWithdrawEarnings) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgWithdrawEarnings) Type() string { return "withdraw_earnings" }

// GetSigners implements the sdk.Msg interface
func (msg MsgWithdrawEarnings) GetSigners() []sdk.AccAddress {
	host, err := sdk.AccAddressFromBech32(msg.Host)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{host}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgWithdrawEarnings) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgWithdrawEarnings) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Host); err != nil {
		return ErrInvalidAddress.Wrapf("invalid host address: %v", err)
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return ErrValidationFailed.Wrapf("invalid denom: %v", err)
	}
	return nil
}
