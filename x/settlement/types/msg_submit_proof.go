package types

import (
	"crypto/ed25519"
	"crypto/sha256"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgSubmitProof{}

// MsgSubmitProof records a signed work attestation against an active
// session. ClaimedTokens is cumulative-per-proof: each accepted proof adds
// its claim to the session's proven total.
type MsgSubmitProof struct {
	SessionId     uint64   `json:"session_id"`
	Host          string   `json:"host"`
	ClaimedTokens uint64   `json:"claimed_tokens"`
	ProofHash     []byte   `json:"proof_hash"`
	Signature     []byte   `json:"signature"`
	EvidenceRefs  []string `json:"evidence_refs,omitempty"`
}

// NewMsgSubmitProof creates a new MsgSubmitProof instance
func NewMsgSubmitProof(sessionID uint64, host string, claimedTokens uint64, proofHash, signature []byte, evidenceRefs []string) *MsgSubmitProof {
	return &MsgSubmitProof{
		SessionId:     sessionID,
		Host:          host,
		ClaimedTokens: claimedTokens,
		ProofHash:     proofHash,
		Signature:     signature,
		EvidenceRefs:  evidenceRefs,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgSubmitProof) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSubmitProof) Type() string { return "submit_proof" }

// GetSigners implements the sdk.Msg interface
func (msg MsgSubmitProof) GetSigners() []sdk.AccAddress {
	host, err := sdk.AccAddressFromBech32(msg.Host)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{host}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSubmitProof) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSubmitProof) ValidateBasic() error {
	if msg.SessionId == 0 {
		return ErrInvalidSession.Wrap("session id is required")
	}
	if _, err := sdk.AccAddressFromBech32(msg.Host); err != nil {
		return ErrInvalidAddress.Wrapf("invalid host address: %v", err)
	}
	if msg.ClaimedTokens == 0 {
		return ErrInvalidProof.Wrap("claimed tokens must be positive")
	}
	if len(msg.ProofHash) != sha256.Size {
		return ErrInvalidProof.Wrapf("proof hash must be %d bytes, got %d", sha256.Size, len(msg.ProofHash))
	}
	if len(msg.Signature) != ed25519.SignatureSize {
		return ErrInvalidSignature.Wrapf("signature must be %d bytes, got %d", ed25519.SignatureSize, len(msg.Signature))
	}
	return nil
}
