package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	_ sdk.Msg = &MsgCompleteSession{}
	_ sdk.Msg = &MsgTriggerTimeout{}
)

// MsgCompleteSession settles an active session cooperatively. The
// depositor may complete at any time; the host only after the dispute
// window has elapsed.
type MsgCompleteSession struct {
	SessionId   uint64 `json:"session_id"`
	Caller      string `json:"caller"`
	EvidenceRef string `json:"evidence_ref,omitempty"`
}

// NewMsgCompleteSession creates a new MsgCompleteSession instance
func NewMsgCompleteSession(sessionID uint64, caller, evidenceRef string) *MsgCompleteSession {
	return &MsgCompleteSession{SessionId: sessionID, Caller: caller, EvidenceRef: evidenceRef}
}

// Route implements the sdk.Msg interface
func (msg MsgCompleteSession) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgCompleteSession) Type() string { return "complete_session" }

// GetSigners implements the sdk.Msg interface
func (msg MsgCompleteSession) GetSigners() []sdk.AccAddress {
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{caller}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCompleteSession) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCompleteSession) ValidateBasic() error {
	if msg.SessionId == 0 {
		return ErrInvalidSession.Wrap("session id is required")
	}
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return ErrInvalidAddress.Wrapf("invalid caller address: %v", err)
	}
	return nil
}

// MsgTriggerTimeout settles an expired or stalled session. Anyone may
// call it once the timeout condition holds; the settlement outcome is
// identical regardless of caller.
type MsgTriggerTimeout struct {
	SessionId uint64 `json:"session_id"`
	Caller    string `json:"caller"`
}

// NewMsgTriggerTimeout creates a new MsgTriggerTimeout instance
func NewMsgTriggerTimeout(sessionID uint64, caller string) *MsgTriggerTimeout {
	return &MsgTriggerTimeout{SessionId: sessionID, Caller: caller}
}

// Route implements the sdk.Msg interface
func (msg MsgTriggerTimeout) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgTriggerTimeout) Type() string { return "trigger_timeout" }

// GetSigners implements the sdk.Msg interface
func (msg MsgTriggerTimeout) GetSigners() []sdk.AccAddress {
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{caller}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgTriggerTimeout) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgTriggerTimeout) ValidateBasic() error {
	if msg.SessionId == 0 {
		return ErrInvalidSession.Wrap("session id is required")
	}
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return ErrInvalidAddress.Wrapf("invalid caller address: %v", err)
	}
	return nil
}
