package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

// RegisterInvariants registers all settlement invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "module-accounting", ModuleAccountingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "session-deposit-bound", SessionDepositBoundInvariant(k))
	ir.RegisterRoute(types.ModuleName, "locked-consistency", LockedConsistencyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "nonnegative-cells", NonNegativeCellsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "replay-set", ReplaySetInvariant(k))
}

// AllInvariants runs all invariants of the settlement module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		for _, inv := range []sdk.Invariant{
			ModuleAccountingInvariant(k),
			SessionDepositBoundInvariant(k),
			LockedConsistencyInvariant(k),
			NonNegativeCellsInvariant(k),
			ReplaySetInvariant(k),
		} {
			if msg, broken := inv(ctx); broken {
				return msg, broken
			}
		}
		return "", false
	}
}

// ModuleAccountingInvariant checks that the module account holds at least
// the sum of every ledger cell: withdrawable + locked + earnings + fees.
// Coins must never be promised twice.
func ModuleAccountingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		promised := make(map[string]math.Int)
		accumulate := func(denom string, amount math.Int) {
			current, ok := promised[denom]
			if !ok {
				current = math.ZeroInt()
			}
			promised[denom] = current.Add(amount)
		}

		if err := k.IterateBalanceCells(ctx, WithdrawableKeyPrefix, func(_ sdk.AccAddress, denom string, amount math.Int) bool {
			accumulate(denom, amount)
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "module-accounting", err.Error()), true
		}
		if err := k.IterateBalanceCells(ctx, LockedKeyPrefix, func(_ sdk.AccAddress, denom string, amount math.Int) bool {
			accumulate(denom, amount)
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "module-accounting", err.Error()), true
		}
		if err := k.IterateBalanceCells(ctx, EarningsKeyPrefix, func(_ sdk.AccAddress, denom string, amount math.Int) bool {
			accumulate(denom, amount)
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "module-accounting", err.Error()), true
		}
		for _, denom := range collectFeeDenoms(ctx, k) {
			amount, err := k.GetProtocolFees(ctx, denom)
			if err != nil {
				return sdk.FormatInvariant(types.ModuleName, "module-accounting", err.Error()), true
			}
			accumulate(denom, amount)
		}

		moduleAddr := k.ModuleAddress()
		for denom, total := range promised {
			held := k.bankKeeper.GetBalance(ctx, moduleAddr, denom)
			if held.Amount.LT(total) {
				return sdk.FormatInvariant(types.ModuleName, "module-accounting",
					fmt.Sprintf("module holds %s%s but ledger promises %s%s", held.Amount, denom, total, denom)), true
			}
		}
		return "", false
	}
}

func collectFeeDenoms(ctx sdk.Context, k Keeper) []string {
	store := k.getStore(ctx)
	iterator := store.Iterator(ProtocolFeeKeyPrefix, append(ProtocolFeeKeyPrefix, 0xFF))
	defer iterator.Close()

	var denoms []string
	for ; iterator.Valid(); iterator.Next() {
		denoms = append(denoms, string(iterator.Key()[len(ProtocolFeeKeyPrefix):]))
	}
	return denoms
}

// SessionDepositBoundInvariant checks that no session's proven total can
// ever exceed what its deposit covers, in both the scaled-integer form
// and the truncated payment it settles to.
func SessionDepositBoundInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		broken := false
		var msg string
		if err := k.IterateSessions(ctx, func(session types.Session) bool {
			if !session.WithinDepositBound(session.TokensProven) {
				broken = true
				msg = fmt.Sprintf("session %d: proven tokens %d exceed deposit bound", session.Id, session.TokensProven)
				return true
			}
			if session.PaymentDue().GT(session.Deposit) {
				broken = true
				msg = fmt.Sprintf("session %d: payment due %s exceeds deposit %s", session.Id, session.PaymentDue(), session.Deposit)
				return true
			}
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "session-deposit-bound", err.Error()), true
		}
		if broken {
			return sdk.FormatInvariant(types.ModuleName, "session-deposit-bound", msg), true
		}
		return "", false
	}
}

// LockedConsistencyInvariant checks that every (account, denom) locked
// cell equals the sum of deposits of that account's active sessions.
func LockedConsistencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		expected := make(map[string]math.Int)
		if err := k.IterateSessions(ctx, func(session types.Session) bool {
			if session.Status != types.SESSION_STATUS_ACTIVE {
				return false
			}
			key := session.Depositor + "/" + session.Denom
			current, ok := expected[key]
			if !ok {
				current = math.ZeroInt()
			}
			expected[key] = current.Add(session.Deposit)
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "locked-consistency", err.Error()), true
		}

		stored := make(map[string]math.Int)
		if err := k.IterateBalanceCells(ctx, LockedKeyPrefix, func(addr sdk.AccAddress, denom string, amount math.Int) bool {
			stored[addr.String()+"/"+denom] = amount
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "locked-consistency", err.Error()), true
		}

		for key, amount := range expected {
			got, ok := stored[key]
			if !ok {
				got = math.ZeroInt()
			}
			if !got.Equal(amount) {
				return sdk.FormatInvariant(types.ModuleName, "locked-consistency",
					fmt.Sprintf("locked cell %s: expected %s from active sessions, found %s", key, amount, got)), true
			}
		}
		for key := range stored {
			if _, ok := expected[key]; !ok {
				return sdk.FormatInvariant(types.ModuleName, "locked-consistency",
					fmt.Sprintf("locked cell %s has no backing active session", key)), true
			}
		}
		return "", false
	}
}

// NonNegativeCellsInvariant checks that no ledger cell has gone negative.
// Zero cells are deleted on write, so any surviving cell must be positive.
func NonNegativeCellsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		for _, prefix := range [][]byte{WithdrawableKeyPrefix, LockedKeyPrefix, EarningsKeyPrefix} {
			broken := false
			var msg string
			if err := k.IterateBalanceCells(ctx, prefix, func(addr sdk.AccAddress, denom string, amount math.Int) bool {
				if !amount.IsPositive() {
					broken = true
					msg = fmt.Sprintf("cell %s/%s holds non-positive amount %s", addr, denom, amount)
					return true
				}
				return false
			}); err != nil {
				return sdk.FormatInvariant(types.ModuleName, "nonnegative-cells", err.Error()), true
			}
			if broken {
				return sdk.FormatInvariant(types.ModuleName, "nonnegative-cells", msg), true
			}
		}
		return "", false
	}
}

// ReplaySetInvariant checks that every verified proof record's digest is
// present in the global replay set.
func ReplaySetInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		broken := false
		var msg string
		if err := k.IterateProofRecords(ctx, func(record types.ProofRecord) bool {
			if record.Verified && !k.HasProofHash(ctx, record.ProofHash) {
				broken = true
				msg = fmt.Sprintf("session %d proof %d missing from replay set", record.SessionId, record.Sequence)
				return true
			}
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "replay-set", err.Error()), true
		}
		if broken {
			return sdk.FormatInvariant(types.ModuleName, "replay-set", msg), true
		}
		return "", false
	}
}
