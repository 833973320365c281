package types_test

import (
	"encoding/hex"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

func TestGenesisState_Default(t *testing.T) {
	state := types.DefaultGenesis()
	require.NoError(t, state.Validate())
	require.Equal(t, uint64(1), state.NextSessionId)
	require.Empty(t, state.Sessions)
}

func TestGenesisState_Validate(t *testing.T) {
	session := testSession()
	settledAt := time.Unix(1700003600, 0).UTC()

	tests := []struct {
		name    string
		mutate  func(*types.GenesisState)
		wantErr bool
	}{
		{"default", func(gs *types.GenesisState) {}, false},
		{
			"with session",
			func(gs *types.GenesisState) {
				gs.Sessions = []types.Session{session}
				gs.NextSessionId = 2
			},
			false,
		},
		{"zero next id", func(gs *types.GenesisState) { gs.NextSessionId = 0 }, true},
		{
			"session id beyond counter",
			func(gs *types.GenesisState) {
				gs.Sessions = []types.Session{session}
				gs.NextSessionId = 1
			},
			true,
		},
		{
			"duplicate session ids",
			func(gs *types.GenesisState) {
				gs.Sessions = []types.Session{session, session}
				gs.NextSessionId = 2
			},
			true,
		},
		{
			"terminal session without settlement time",
			func(gs *types.GenesisState) {
				broken := session
				broken.Status = types.SESSION_STATUS_COMPLETED
				gs.Sessions = []types.Session{broken}
				gs.NextSessionId = 2
			},
			true,
		},
		{
			"terminal session with settlement time",
			func(gs *types.GenesisState) {
				settled := session
				settled.Status = types.SESSION_STATUS_TIMED_OUT
				settled.SettledAt = settledAt
				gs.Sessions = []types.Session{settled}
				gs.NextSessionId = 2
			},
			false,
		},
		{
			"proof record for unknown session",
			func(gs *types.GenesisState) {
				gs.ProofRecords = []types.ProofRecord{{SessionId: 7, Sequence: 1}}
			},
			true,
		},
		{
			"negative balance",
			func(gs *types.GenesisState) {
				gs.Balances = []types.BalanceRecord{{
					Address:      testBech32(0x01),
					Denom:        "umtr",
					Withdrawable: math.NewInt(-1),
					Locked:       math.ZeroInt(),
				}}
			},
			true,
		},
		{
			"duplicate balance cell",
			func(gs *types.GenesisState) {
				cell := types.BalanceRecord{
					Address:      testBech32(0x01),
					Denom:        "umtr",
					Withdrawable: math.NewInt(10),
					Locked:       math.ZeroInt(),
				}
				gs.Balances = []types.BalanceRecord{cell, cell}
			},
			true,
		},
		{
			"non-positive earnings",
			func(gs *types.GenesisState) {
				gs.Earnings = []types.EarningsRecord{{Host: testBech32(0x02), Denom: "umtr", Amount: math.ZeroInt()}}
			},
			true,
		},
		{
			"invalid proof hash encoding",
			func(gs *types.GenesisState) { gs.ProofHashes = []string{"not-hex"} },
			true,
		},
		{
			"valid proof hash",
			func(gs *types.GenesisState) {
				gs.ProofHashes = []string{hex.EncodeToString([]byte("any-digest-bytes"))}
			},
			false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := types.DefaultGenesis()
			tc.mutate(state)
			err := state.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
