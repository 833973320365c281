package keeper

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"github.com/stretchr/testify/require"

	settlementkeeper "github.com/meterd-ai/meterd/x/settlement/keeper"
	"github.com/meterd-ai/meterd/x/settlement/types"
)

// StubStakeRegistry is a configurable in-memory stake registry for tests
type StubStakeRegistry struct {
	Active          map[string]bool
	MinPrices       map[string]sdkmath.Int
	AttestationKeys map[string][]byte
	DefaultMinPrice sdkmath.Int
}

// NewStubStakeRegistry creates an empty stub registry with a minimum
// price of one scaled unit per token.
func NewStubStakeRegistry() *StubStakeRegistry {
	return &StubStakeRegistry{
		Active:          make(map[string]bool),
		MinPrices:       make(map[string]sdkmath.Int),
		AttestationKeys: make(map[string][]byte),
		DefaultMinPrice: sdkmath.NewInt(1),
	}
}

func (s *StubStakeRegistry) IsHostActive(_ context.Context, host sdk.AccAddress) bool {
	return s.Active[host.String()]
}

func (s *StubStakeRegistry) MinimumPrice(_ context.Context, host sdk.AccAddress, _, _ string) (sdkmath.Int, error) {
	if price, ok := s.MinPrices[host.String()]; ok {
		return price, nil
	}
	return s.DefaultMinPrice, nil
}

func (s *StubStakeRegistry) HostAttestationKey(_ context.Context, host sdk.AccAddress) ([]byte, bool) {
	key, ok := s.AttestationKeys[host.String()]
	return key, ok
}

// StubModelRegistry is a configurable in-memory model registry for tests
type StubModelRegistry struct {
	Approved map[string]bool
}

// NewStubModelRegistry creates an empty stub model registry
func NewStubModelRegistry() *StubModelRegistry {
	return &StubModelRegistry{Approved: make(map[string]bool)}
}

func (s *StubModelRegistry) IsModelApproved(_ context.Context, modelID string) bool {
	return s.Approved[modelID]
}

// Fixture bundles a settlement keeper with the real auth and bank keepers
// backing it plus the stub registries it consults.
type Fixture struct {
	Keeper        *settlementkeeper.Keeper
	Ctx           sdk.Context
	BankKeeper    bankkeeper.Keeper
	AccountKeeper authkeeper.AccountKeeper
	StakeRegistry *StubStakeRegistry
	ModelRegistry *StubModelRegistry
	Authority     string
}

// SettlementKeeper creates a test keeper for the settlement module backed
// by an in-memory multistore and real auth/bank keepers.
func SettlementKeeper(t testing.TB) *Fixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		authtypes.FeeCollectorName: nil,
		minttypes.ModuleName:       {authtypes.Minter},
		types.ModuleName:           nil,
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	stakeRegistry := NewStubStakeRegistry()
	modelRegistry := NewStubModelRegistry()

	k := settlementkeeper.NewKeeper(
		codec.NewLegacyAmino(),
		storeKey,
		bankKeeper,
		accountKeeper,
		stakeRegistry,
		modelRegistry,
		authority.String(),
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()).
		WithBlockTime(time.Unix(1700000000, 0).UTC())

	require.NoError(t, k.SetParams(ctx, types.DefaultParams()))

	return &Fixture{
		Keeper:        k,
		Ctx:           ctx,
		BankKeeper:    bankKeeper,
		AccountKeeper: accountKeeper,
		StakeRegistry: stakeRegistry,
		ModelRegistry: modelRegistry,
		Authority:     authority.String(),
	}
}

// FundAccount mints coins and delivers them to addr
func (f *Fixture) FundAccount(t testing.TB, addr sdk.AccAddress, coins sdk.Coins) {
	require.NoError(t, f.BankKeeper.MintCoins(f.Ctx, minttypes.ModuleName, coins))
	require.NoError(t, f.BankKeeper.SendCoinsFromModuleToAccount(f.Ctx, minttypes.ModuleName, addr, coins))
}
