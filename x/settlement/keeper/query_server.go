package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the settlement QueryServer
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func (q queryServer) Params(ctx context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	params, err := q.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

func (q queryServer) Session(ctx context.Context, req *types.QuerySessionRequest) (*types.QuerySessionResponse, error) {
	session, err := q.GetSession(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}
	return &types.QuerySessionResponse{Session: *session}, nil
}

func (q queryServer) Sessions(ctx context.Context, req *types.QuerySessionsRequest) (*types.QuerySessionsResponse, error) {
	var sessions []types.Session
	var err error

	switch {
	case req.Depositor != "":
		depositor, addrErr := sdk.AccAddressFromBech32(req.Depositor)
		if addrErr != nil {
			return nil, types.ErrInvalidAddress.Wrapf("invalid depositor: %v", addrErr)
		}
		sessions, err = q.GetSessionsByDepositor(ctx, depositor)
	case req.Host != "":
		host, addrErr := sdk.AccAddressFromBech32(req.Host)
		if addrErr != nil {
			return nil, types.ErrInvalidAddress.Wrapf("invalid host: %v", addrErr)
		}
		sessions, err = q.GetSessionsByHost(ctx, host)
	default:
		err = q.IterateSessions(ctx, func(session types.Session) bool {
			sessions = append(sessions, session)
			return false
		})
	}
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		filtered := sessions[:0]
		for _, session := range sessions {
			if session.Status.String() == req.Status {
				filtered = append(filtered, session)
			}
		}
		sessions = filtered
	}

	return &types.QuerySessionsResponse{Sessions: sessions}, nil
}

func (q queryServer) Balance(ctx context.Context, req *types.QueryBalanceRequest) (*types.QueryBalanceResponse, error) {
	addr, err := sdk.AccAddressFromBech32(req.Address)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid address: %v", err)
	}

	withdrawable, err := q.GetWithdrawable(ctx, addr, req.Denom)
	if err != nil {
		return nil, err
	}
	locked, err := q.GetLocked(ctx, addr, req.Denom)
	if err != nil {
		return nil, err
	}

	return &types.QueryBalanceResponse{
		Withdrawable: withdrawable,
		Locked:       locked,
		Total:        withdrawable.Add(locked),
	}, nil
}

func (q queryServer) Earnings(ctx context.Context, req *types.QueryEarningsRequest) (*types.QueryEarningsResponse, error) {
	host, err := sdk.AccAddressFromBech32(req.Host)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid host: %v", err)
	}

	amount, err := q.GetEarnings(ctx, host, req.Denom)
	if err != nil {
		return nil, err
	}
	return &types.QueryEarningsResponse{Amount: amount}, nil
}

func (q queryServer) SessionProofs(ctx context.Context, req *types.QuerySessionProofsRequest) (*types.QuerySessionProofsResponse, error) {
	if _, err := q.GetSession(ctx, req.SessionId); err != nil {
		return nil, err
	}

	proofs, err := q.GetSessionProofs(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}
	return &types.QuerySessionProofsResponse{Proofs: proofs}, nil
}
