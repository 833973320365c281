package keeper

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

// InitGenesis initializes the settlement module state from genesis.
// Secondary indexes are rebuilt from the primary records rather than
// carried in the genesis file.
func (k Keeper) InitGenesis(ctx context.Context, state *types.GenesisState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}

	if err := k.SetParams(ctx, state.Params); err != nil {
		return err
	}

	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, state.NextSessionId)
	k.getStore(ctx).Set(NextSessionIDKey, bz)

	for i := range state.Sessions {
		session := state.Sessions[i]
		if err := k.SetSession(ctx, &session); err != nil {
			return err
		}
		if err := k.setSessionIndexes(ctx, &session); err != nil {
			return err
		}
		if session.Status == types.SESSION_STATUS_ACTIVE {
			expiry := session.StartTime.Add(time.Duration(session.MaxDurationSeconds) * time.Second)
			k.setTimeoutIndex(ctx, session.Id, expiry)
		}
	}

	for i := range state.ProofRecords {
		record := state.ProofRecords[i]
		if err := k.SetProofRecord(ctx, &record); err != nil {
			return err
		}
	}

	for _, balance := range state.Balances {
		addr, err := sdk.AccAddressFromBech32(balance.Address)
		if err != nil {
			return err
		}
		if err := k.setIntCell(ctx, WithdrawableKey(addr, balance.Denom), balance.Withdrawable); err != nil {
			return err
		}
		if err := k.setIntCell(ctx, LockedKey(addr, balance.Denom), balance.Locked); err != nil {
			return err
		}
	}

	for _, earnings := range state.Earnings {
		host, err := sdk.AccAddressFromBech32(earnings.Host)
		if err != nil {
			return err
		}
		if err := k.setIntCell(ctx, EarningsKey(host, earnings.Denom), earnings.Amount); err != nil {
			return err
		}
	}

	for _, fee := range state.ProtocolFees {
		if err := k.setIntCell(ctx, ProtocolFeeKey(fee.Denom), fee.Amount); err != nil {
			return err
		}
	}

	for _, hash := range state.ProofHashes {
		raw, err := hex.DecodeString(hash)
		if err != nil {
			return fmt.Errorf("invalid proof hash %s: %w", hash, err)
		}
		k.markProofHash(ctx, raw)
	}

	return nil
}

// ExportGenesis exports the settlement module state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	state := &types.GenesisState{
		Params:        params,
		NextSessionId: 1,
	}

	if bz := k.getStore(ctx).Get(NextSessionIDKey); bz != nil {
		state.NextSessionId = binary.BigEndian.Uint64(bz)
	}

	if err := k.IterateSessions(ctx, func(session types.Session) bool {
		state.Sessions = append(state.Sessions, session)
		return false
	}); err != nil {
		return nil, err
	}

	if err := k.IterateProofRecords(ctx, func(record types.ProofRecord) bool {
		state.ProofRecords = append(state.ProofRecords, record)
		return false
	}); err != nil {
		return nil, err
	}

	// Merge the two balance prefixes into per-(account, denom) records.
	cells := make(map[string]*types.BalanceRecord)
	order := make([]string, 0)
	collect := func(addr sdk.AccAddress, denom string, amount math.Int, locked bool) {
		key := addr.String() + "/" + denom
		record, ok := cells[key]
		if !ok {
			record = &types.BalanceRecord{
				Address:      addr.String(),
				Denom:        denom,
				Withdrawable: math.ZeroInt(),
				Locked:       math.ZeroInt(),
			}
			cells[key] = record
			order = append(order, key)
		}
		if locked {
			record.Locked = amount
		} else {
			record.Withdrawable = amount
		}
	}
	if err := k.IterateBalanceCells(ctx, WithdrawableKeyPrefix, func(addr sdk.AccAddress, denom string, amount math.Int) bool {
		collect(addr, denom, amount, false)
		return false
	}); err != nil {
		return nil, err
	}
	if err := k.IterateBalanceCells(ctx, LockedKeyPrefix, func(addr sdk.AccAddress, denom string, amount math.Int) bool {
		collect(addr, denom, amount, true)
		return false
	}); err != nil {
		return nil, err
	}
	for _, key := range order {
		state.Balances = append(state.Balances, *cells[key])
	}

	if err := k.IterateBalanceCells(ctx, EarningsKeyPrefix, func(addr sdk.AccAddress, denom string, amount math.Int) bool {
		state.Earnings = append(state.Earnings, types.EarningsRecord{
			Host:   addr.String(),
			Denom:  denom,
			Amount: amount,
		})
		return false
	}); err != nil {
		return nil, err
	}

	for _, denom := range collectFeeDenoms(sdk.UnwrapSDKContext(ctx), k) {
		amount, err := k.GetProtocolFees(ctx, denom)
		if err != nil {
			return nil, err
		}
		state.ProtocolFees = append(state.ProtocolFees, types.FeeRecord{Denom: denom, Amount: amount})
	}

	k.IterateProofHashes(ctx, func(hash []byte) bool {
		state.ProofHashes = append(state.ProofHashes, hex.EncodeToString(hash))
		return false
	})

	return state, nil
}
