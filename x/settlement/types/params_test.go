package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

func TestParams_Default(t *testing.T) {
	params := types.DefaultParams()
	require.NoError(t, params.Validate())
	require.True(t, params.DenomAllowed("umtr"))
	require.False(t, params.DenomAllowed("uatom"))
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.Params)
		wantErr bool
	}{
		{"default", func(p *types.Params) {}, false},
		{"zero fee rate", func(p *types.Params) { p.FeeRate = math.LegacyZeroDec() }, false},
		{"negative min deposit", func(p *types.Params) { p.MinDeposit = math.NewInt(-1) }, true},
		{"fee rate one", func(p *types.Params) { p.FeeRate = math.LegacyOneDec() }, true},
		{"negative fee rate", func(p *types.Params) { p.FeeRate = math.LegacyNewDec(-1) }, true},
		{"zero min proof tokens", func(p *types.Params) { p.MinProofTokens = 0 }, true},
		{"zero max tokens per second", func(p *types.Params) { p.MaxTokensPerSecond = 0 }, true},
		{"zero missed windows", func(p *types.Params) { p.MissedProofWindows = 0 }, true},
		{"zero max duration", func(p *types.Params) { p.MaxSessionDurationSeconds = 0 }, true},
		{"zero min interval", func(p *types.Params) { p.MinProofIntervalSeconds = 0 }, true},
		{"no denoms", func(p *types.Params) { p.AllowedDenoms = nil }, true},
		{"empty denom", func(p *types.Params) { p.AllowedDenoms = []string{""} }, true},
		{"duplicate denom", func(p *types.Params) { p.AllowedDenoms = []string{"umtr", "umtr"} }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := types.DefaultParams()
			tc.mutate(&params)
			err := params.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
