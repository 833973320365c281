package types_test

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

func testBech32(seed byte) string {
	return sdk.AccAddress(bytes.Repeat([]byte{seed}, 20)).String()
}

func validCreateSession() *types.MsgCreateSession {
	return types.NewMsgCreateSession(
		testBech32(0x01), testBech32(0x02), "llama-70b",
		sdk.NewCoin("umtr", math.NewInt(100000)),
		math.NewInt(types.PriceScale), 86400, 60,
		types.FundingSourceInline,
	)
}

func TestMsgCreateSession_ValidateBasic(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.MsgCreateSession)
		wantErr bool
	}{
		{"valid inline", func(m *types.MsgCreateSession) {}, false},
		{"valid balance", func(m *types.MsgCreateSession) { m.FundingSource = types.FundingSourceBalance }, false},
		{"bad depositor", func(m *types.MsgCreateSession) { m.Depositor = "garbage" }, true},
		{"bad host", func(m *types.MsgCreateSession) { m.Host = "garbage" }, true},
		{"self dealing", func(m *types.MsgCreateSession) { m.Host = m.Depositor }, true},
		{"empty model", func(m *types.MsgCreateSession) { m.ModelId = "" }, true},
		{"zero deposit", func(m *types.MsgCreateSession) { m.Deposit.Amount = math.ZeroInt() }, true},
		{"zero price", func(m *types.MsgCreateSession) { m.PricePerToken = math.ZeroInt() }, true},
		{"negative price", func(m *types.MsgCreateSession) { m.PricePerToken = math.NewInt(-1) }, true},
		{"zero duration", func(m *types.MsgCreateSession) { m.MaxDurationSeconds = 0 }, true},
		{"zero interval", func(m *types.MsgCreateSession) { m.ProofIntervalSeconds = 0 }, true},
		{"unknown funding source", func(m *types.MsgCreateSession) { m.FundingSource = "credit" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := validCreateSession()
			tc.mutate(msg)
			err := msg.ValidateBasic()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMsgSubmitProof_ValidateBasic(t *testing.T) {
	hash := sha256.Sum256([]byte("proof"))
	valid := func() *types.MsgSubmitProof {
		return types.NewMsgSubmitProof(1, testBech32(0x02), 100, hash[:], make([]byte, ed25519.SignatureSize), nil)
	}

	tests := []struct {
		name    string
		mutate  func(*types.MsgSubmitProof)
		wantErr bool
	}{
		{"valid", func(m *types.MsgSubmitProof) {}, false},
		{"zero session", func(m *types.MsgSubmitProof) { m.SessionId = 0 }, true},
		{"bad host", func(m *types.MsgSubmitProof) { m.Host = "garbage" }, true},
		{"zero claim", func(m *types.MsgSubmitProof) { m.ClaimedTokens = 0 }, true},
		{"short hash", func(m *types.MsgSubmitProof) { m.ProofHash = []byte{0x01} }, true},
		{"short signature", func(m *types.MsgSubmitProof) { m.Signature = []byte{0x01} }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := valid()
			tc.mutate(msg)
			err := msg.ValidateBasic()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMsgDeposit_ValidateBasic(t *testing.T) {
	valid := types.NewMsgDeposit(testBech32(0x01), sdk.NewCoin("umtr", math.NewInt(1000)))
	require.NoError(t, valid.ValidateBasic())

	bad := types.NewMsgDeposit("garbage", sdk.NewCoin("umtr", math.NewInt(1000)))
	require.Error(t, bad.ValidateBasic())

	zero := types.NewMsgDeposit(testBech32(0x01), sdk.NewCoin("umtr", math.ZeroInt()))
	require.Error(t, zero.ValidateBasic())
}

func TestMsgWithdraw_ValidateBasic(t *testing.T) {
	valid := types.NewMsgWithdraw(testBech32(0x01), sdk.NewCoin("umtr", math.NewInt(1000)))
	require.NoError(t, valid.ValidateBasic())

	zero := types.NewMsgWithdraw(testBech32(0x01), sdk.NewCoin("umtr", math.ZeroInt()))
	require.Error(t, zero.ValidateBasic())
}

func TestMsgCompleteSession_ValidateBasic(t *testing.T) {
	valid := types.NewMsgCompleteSession(1, testBech32(0x01), "")
	require.NoError(t, valid.ValidateBasic())

	zeroSession := types.NewMsgCompleteSession(0, testBech32(0x01), "")
	require.Error(t, zeroSession.ValidateBasic())

	badCaller := types.NewMsgCompleteSession(1, "garbage", "")
	require.Error(t, badCaller.ValidateBasic())
}

func TestMsgTriggerTimeout_ValidateBasic(t *testing.T) {
	valid := types.NewMsgTriggerTimeout(1, testBech32(0x01))
	require.NoError(t, valid.ValidateBasic())

	zeroSession := types.NewMsgTriggerTimeout(0, testBech32(0x01))
	require.Error(t, zeroSession.ValidateBasic())
}

func TestMsgWithdrawEarnings_ValidateBasic(t *testing.T) {
	valid := types.NewMsgWithdrawEarnings(testBech32(0x02), "umtr")
	require.NoError(t, valid.ValidateBasic())

	badDenom := types.NewMsgWithdrawEarnings(testBech32(0x02), "!")
	require.Error(t, badDenom.ValidateBasic())
}

func TestMsgUpdateParams_ValidateBasic(t *testing.T) {
	valid := types.NewMsgUpdateParams(testBech32(0x01), types.DefaultParams())
	require.NoError(t, valid.ValidateBasic())

	badParams := types.DefaultParams()
	badParams.FeeRate = math.LegacyNewDec(2)
	require.Error(t, types.NewMsgUpdateParams(testBech32(0x01), badParams).ValidateBasic())
}

func TestMsg_GetSigners(t *testing.T) {
	depositor := testBech32(0x01)
	signers := validCreateSession().GetSigners()
	require.Len(t, signers, 1)
	require.Equal(t, depositor, signers[0].String())
}
