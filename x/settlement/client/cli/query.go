package cli

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/kv"

	"github.com/meterd-ai/meterd/x/settlement/keeper"
	"github.com/meterd-ai/meterd/x/settlement/types"
)

const flagStatus = "status"

// GetQueryCmd returns the cli query commands for the settlement module
func GetQueryCmd() *cobra.Command {
	settlementQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the settlement module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	settlementQueryCmd.AddCommand(
		GetCmdQueryParams(),
		GetCmdQuerySession(),
		GetCmdQuerySessions(),
		GetCmdQueryBalance(),
		GetCmdQueryEarnings(),
		GetCmdQuerySessionProofs(),
	)

	return settlementQueryCmd
}

// GetCmdQueryParams returns the command to query module parameters
func GetCmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the current settlement module parameters",
		Long: `Query the current parameters of the settlement module including
the fee rate, deposit minimums, and proof timing bounds.

Example:
  $ meterd query settlement params`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			bz, _, err := clientCtx.QueryStore(keeper.ParamsKey, types.StoreKey)
			if err != nil {
				return err
			}

			params := types.DefaultParams()
			if bz != nil {
				if err := clientCtx.LegacyAmino.Unmarshal(bz, &params); err != nil {
					return err
				}
			}

			return clientCtx.PrintObjectLegacy(&types.QueryParamsResponse{Params: params})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQuerySession returns the command to query a session by ID
func GetCmdQuerySession() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session [session-id]",
		Short: "Query a session by ID",
		Long: `Query the full record of a session, including its proven token
counter, lifecycle status, and settlement evidence.

Example:
  $ meterd query settlement session 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			sessionID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session ID: %w", err)
			}

			bz, _, err := clientCtx.QueryStore(keeper.SessionKey(sessionID), types.StoreKey)
			if err != nil {
				return err
			}
			if bz == nil {
				return fmt.Errorf("session %d not found", sessionID)
			}

			var session types.Session
			if err := clientCtx.LegacyAmino.Unmarshal(bz, &session); err != nil {
				return err
			}

			return clientCtx.PrintObjectLegacy(&types.QuerySessionResponse{Session: session})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQuerySessions returns the command to list sessions
func GetCmdQuerySessions() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List sessions, optionally filtered by status",
		Long: `List all sessions in ID order. The --status flag filters by
lifecycle state: active, completed, or timed_out.

Example:
  $ meterd query settlement sessions
  $ meterd query settlement sessions --status active`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			statusFilter, err := cmd.Flags().GetString(flagStatus)
			if err != nil {
				return err
			}

			var wantStatus types.SessionStatus
			if statusFilter != "" {
				wantStatus, err = parseStatus(statusFilter)
				if err != nil {
					return err
				}
			}

			pairs, err := querySubspace(clientCtx, keeper.SessionKeyPrefix, types.StoreKey)
			if err != nil {
				return err
			}

			sessions := []types.Session{}
			for _, pair := range pairs {
				var session types.Session
				if err := clientCtx.LegacyAmino.Unmarshal(pair.Value, &session); err != nil {
					return err
				}
				if statusFilter != "" && session.Status != wantStatus {
					continue
				}
				sessions = append(sessions, session)
			}

			return clientCtx.PrintObjectLegacy(&types.QuerySessionsResponse{Sessions: sessions})
		},
	}

	cmd.Flags().String(flagStatus, "", "Filter by lifecycle status: active, completed, or timed_out")
	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryBalance returns the command to query an account's ledger balances
func GetCmdQueryBalance() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance [address] [denom]",
		Short: "Query an account's withdrawable and locked balances",
		Long: `Query the two ledger counters for an account and denom: the
withdrawable balance and the sum locked by active sessions.

Example:
  $ meterd query settlement balance meterd1... umtr`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			addr, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			denom := args[1]

			withdrawable, err := queryIntCell(clientCtx, keeper.WithdrawableKey(addr, denom))
			if err != nil {
				return err
			}

			locked, err := queryIntCell(clientCtx, keeper.LockedKey(addr, denom))
			if err != nil {
				return err
			}

			return clientCtx.PrintObjectLegacy(&types.QueryBalanceResponse{
				Withdrawable: withdrawable,
				Locked:       locked,
				Total:        withdrawable.Add(locked),
			})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryEarnings returns the command to query a host's accrued earnings
func GetCmdQueryEarnings() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "earnings [host] [denom]",
		Short: "Query a host's accrued, not yet withdrawn earnings",
		Long: `Query the earnings a host has accrued across settled sessions
and not yet withdrawn.

Example:
  $ meterd query settlement earnings meterd1host... umtr`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			host, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid host address: %w", err)
			}

			amount, err := queryIntCell(clientCtx, keeper.EarningsKey(host, args[1]))
			if err != nil {
				return err
			}

			return clientCtx.PrintObjectLegacy(&types.QueryEarningsResponse{Amount: amount})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQuerySessionProofs returns the command to query a session's proof trail
func GetCmdQuerySessionProofs() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session-proofs [session-id]",
		Short: "Query the proof audit trail of a session",
		Long: `Query the proof records of a session in sequence order. Records
are retained after settlement as slashing evidence.

Example:
  $ meterd query settlement session-proofs 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			sessionID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session ID: %w", err)
			}

			pairs, err := querySubspace(clientCtx, keeper.ProofRecordSessionPrefix(sessionID), types.StoreKey)
			if err != nil {
				return err
			}

			proofs := []types.ProofRecord{}
			for _, pair := range pairs {
				var record types.ProofRecord
				if err := clientCtx.LegacyAmino.Unmarshal(pair.Value, &record); err != nil {
					return err
				}
				proofs = append(proofs, record)
			}

			return clientCtx.PrintObjectLegacy(&types.QuerySessionProofsResponse{Proofs: proofs})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// querySubspace performs a prefix scan over the store via the ABCI
// /store/<name>/subspace path, standing in for the QuerySubspace helper
// that client.Context no longer provides
func querySubspace(clientCtx client.Context, subspace []byte, storeName string) ([]kv.Pair, error) {
	resp, err := clientCtx.QueryABCI(abci.RequestQuery{
		Path:   fmt.Sprintf("/store/%s/subspace", storeName),
		Data:   subspace,
		Height: clientCtx.Height,
	})
	if err != nil {
		return nil, err
	}

	var pairs []kv.Pair
	if err := clientCtx.LegacyAmino.Unmarshal(resp.Value, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// queryIntCell reads a bare integer balance cell; a missing cell is zero
func queryIntCell(clientCtx client.Context, key []byte) (math.Int, error) {
	bz, _, err := clientCtx.QueryStore(key, types.StoreKey)
	if err != nil {
		return math.Int{}, err
	}
	if bz == nil {
		return math.ZeroInt(), nil
	}

	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		return math.Int{}, err
	}
	return amount, nil
}

func parseStatus(s string) (types.SessionStatus, error) {
	switch s {
	case "active":
		return types.SESSION_STATUS_ACTIVE, nil
	case "completed":
		return types.SESSION_STATUS_COMPLETED, nil
	case "timed_out":
		return types.SESSION_STATUS_TIMED_OUT, nil
	default:
		return types.SESSION_STATUS_UNSPECIFIED, fmt.Errorf("unknown status %q (want active, completed, or timed_out)", s)
	}
}
