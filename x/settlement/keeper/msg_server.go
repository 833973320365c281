package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the settlement MsgServer
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (m msgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	account, err := sdk.AccAddressFromBech32(msg.Account)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid account: %v", err)
	}

	updated, err := m.Keeper.Deposit(ctx, account, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgDepositResponse{Withdrawable: updated}, nil
}

func (m msgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	account, err := sdk.AccAddressFromBech32(msg.Account)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid account: %v", err)
	}

	updated, err := m.Keeper.Withdraw(ctx, account, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawResponse{Withdrawable: updated}, nil
}

func (m msgServer) CreateSession(ctx context.Context, msg *types.MsgCreateSession) (*types.MsgCreateSessionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	sessionID, err := m.Keeper.CreateSession(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateSessionResponse{SessionId: sessionID}, nil
}

func (m msgServer) SubmitProof(ctx context.Context, msg *types.MsgSubmitProof) (*types.MsgSubmitProofResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	return m.Keeper.SubmitProof(ctx, msg)
}

func (m msgServer) CompleteSession(ctx context.Context, msg *types.MsgCompleteSession) (*types.MsgCompleteSessionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	return m.Keeper.CompleteSession(ctx, msg)
}

func (m msgServer) TriggerTimeout(ctx context.Context, msg *types.MsgTriggerTimeout) (*types.MsgTriggerTimeoutResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	return m.Keeper.TriggerTimeout(ctx, msg)
}

func (m msgServer) WithdrawEarnings(ctx context.Context, msg *types.MsgWithdrawEarnings) (*types.MsgWithdrawEarningsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	host, err := sdk.AccAddressFromBech32(msg.Host)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid host: %v", err)
	}

	amount, err := m.Keeper.WithdrawEarnings(ctx, host, msg.Denom)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawEarningsResponse{Amount: amount}, nil
}

func (m msgServer) UpdateParams(ctx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if msg.Authority != m.GetAuthority() {
		return nil, types.ErrUnauthorized.Wrapf("expected authority %s, got %s", m.GetAuthority(), msg.Authority)
	}

	if err := m.SetParams(ctx, msg.Params); err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, nil
}
