package types

import (
	"encoding/hex"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BalanceRecord is the genesis form of one (account, denom) ledger cell.
type BalanceRecord struct {
	Address      string   `json:"address"`
	Denom        string   `json:"denom"`
	Withdrawable math.Int `json:"withdrawable"`
	Locked       math.Int `json:"locked"`
}

// EarningsRecord is the genesis form of one host earnings cell.
type EarningsRecord struct {
	Host   string   `json:"host"`
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

// FeeRecord is the genesis form of one accrued protocol fee cell.
type FeeRecord struct {
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

// GenesisState defines the settlement module's genesis state
type GenesisState struct {
	Params        Params           `json:"params"`
	NextSessionId uint64           `json:"next_session_id"`
	Sessions      []Session        `json:"sessions"`
	ProofRecords  []ProofRecord    `json:"proof_records"`
	Balances      []BalanceRecord  `json:"balances"`
	Earnings      []EarningsRecord `json:"earnings"`
	ProtocolFees  []FeeRecord      `json:"protocol_fees"`
	// ProofHashes is the hex-encoded global replay set.
	ProofHashes []string `json:"proof_hashes"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:        DefaultParams(),
		NextSessionId: 1,
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	if gs.NextSessionId == 0 {
		return fmt.Errorf("next session id must be positive")
	}

	sessionIDs := make(map[uint64]struct{}, len(gs.Sessions))
	for _, session := range gs.Sessions {
		if session.Id == 0 {
			return fmt.Errorf("session id must be positive")
		}
		if session.Id >= gs.NextSessionId {
			return fmt.Errorf("session %d exceeds next session id %d", session.Id, gs.NextSessionId)
		}
		if _, ok := sessionIDs[session.Id]; ok {
			return fmt.Errorf("duplicate session id %d", session.Id)
		}
		sessionIDs[session.Id] = struct{}{}
		if err := session.Validate(); err != nil {
			return fmt.Errorf("invalid session %d: %w", session.Id, err)
		}
	}

	for _, record := range gs.ProofRecords {
		if _, ok := sessionIDs[record.SessionId]; !ok {
			return fmt.Errorf("proof record references unknown session %d", record.SessionId)
		}
		if record.Sequence == 0 {
			return fmt.Errorf("proof record sequence must be positive")
		}
	}

	balanceKeys := make(map[string]struct{}, len(gs.Balances))
	for _, balance := range gs.Balances {
		if _, err := sdk.AccAddressFromBech32(balance.Address); err != nil {
			return fmt.Errorf("invalid balance address %s: %w", balance.Address, err)
		}
		if err := sdk.ValidateDenom(balance.Denom); err != nil {
			return fmt.Errorf("invalid balance denom %s: %w", balance.Denom, err)
		}
		if balance.Withdrawable.IsNil() || balance.Withdrawable.IsNegative() {
			return fmt.Errorf("negative withdrawable balance for %s", balance.Address)
		}
		if balance.Locked.IsNil() || balance.Locked.IsNegative() {
			return fmt.Errorf("negative locked balance for %s", balance.Address)
		}
		key := balance.Address + "/" + balance.Denom
		if _, ok := balanceKeys[key]; ok {
			return fmt.Errorf("duplicate balance record for %s", key)
		}
		balanceKeys[key] = struct{}{}
	}

	for _, earnings := range gs.Earnings {
		if _, err := sdk.AccAddressFromBech32(earnings.Host); err != nil {
			return fmt.Errorf("invalid earnings host %s: %w", earnings.Host, err)
		}
		if earnings.Amount.IsNil() || !earnings.Amount.IsPositive() {
			return fmt.Errorf("earnings for %s must be positive", earnings.Host)
		}
	}

	for _, fee := range gs.ProtocolFees {
		if err := sdk.ValidateDenom(fee.Denom); err != nil {
			return fmt.Errorf("invalid fee denom %s: %w", fee.Denom, err)
		}
		if fee.Amount.IsNil() || !fee.Amount.IsPositive() {
			return fmt.Errorf("protocol fee for %s must be positive", fee.Denom)
		}
	}

	for _, hash := range gs.ProofHashes {
		if _, err := hex.DecodeString(hash); err != nil {
			return fmt.Errorf("invalid proof hash %s: %w", hash, err)
		}
	}

	return nil
}
