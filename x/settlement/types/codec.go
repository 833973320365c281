package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterCodec registers the necessary interfaces and concrete types
func RegisterCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgDeposit{}, "settlement/MsgDeposit", nil)
	cdc.RegisterConcrete(&MsgWithdraw{}, "settlement/MsgWithdraw", nil)
	cdc.RegisterConcrete(&MsgCreateSession{}, "settlement/MsgCreateSession", nil)
	cdc.RegisterConcrete(&MsgSubmitProof{}, "settlement/MsgSubmitProof", nil)
	cdc.RegisterConcrete(&MsgCompleteSession{}, "settlement/MsgCompleteSession", nil)
	cdc.RegisterConcrete(&MsgTriggerTimeout{}, "settlement/MsgTriggerTimeout", nil)
	cdc.RegisterConcrete(&MsgWithdrawEarnings{}, "settlement/MsgWithdrawEarnings", nil)
	cdc.RegisterConcrete(&MsgUpdateParams{}, "settlement/MsgUpdateParams", nil)
}

// RegisterInterfaces registers the module's interfaces with the interface registry
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgDeposit{},
		&MsgWithdraw{},
		&MsgCreateSession{},
		&MsgSubmitProof{},
		&MsgCompleteSession{},
		&MsgTriggerTimeout{},
		&MsgWithdrawEarnings{},
		&MsgUpdateParams{},
	)
}

var (
	amino     = codec.NewLegacyAmino()
	ModuleCdc = codec.NewAminoCodec(amino)
)

func init() {
	RegisterCodec(amino)
	amino.Seal()
}
