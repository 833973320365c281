package cli

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/meterd-ai/meterd/x/settlement/types"
)

const (
	flagFundingSource = "funding-source"
	flagEvidence      = "evidence"
)

// GetTxCmd returns the transaction commands for the settlement module
func GetTxCmd() *cobra.Command {
	settlementTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Settlement transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	settlementTxCmd.AddCommand(
		CmdDeposit(),
		CmdWithdraw(),
		CmdCreateSession(),
		CmdSubmitProof(),
		CmdCompleteSession(),
		CmdTriggerTimeout(),
		CmdWithdrawEarnings(),
	)

	return settlementTxCmd
}

// CmdDeposit returns a CLI command handler for funding a withdrawable balance
func CmdDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [amount]",
		Short: "Move funds into your withdrawable settlement balance",
		Long: `Move funds from your bank account into the settlement ledger.
Deposited funds stay withdrawable until a session locks them.

Example:
  $ meterd tx settlement deposit 1000000umtr --from mykey`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			amount, err := sdk.ParseCoinNormalized(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}

			msg := types.NewMsgDeposit(clientCtx.GetFromAddress().String(), amount)
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdraw returns a CLI command handler for withdrawing free balance
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [amount]",
		Short: "Withdraw funds from your withdrawable settlement balance",
		Long: `Withdraw funds from the settlement ledger back to your bank account.
Funds locked by active sessions cannot be withdrawn.

Example:
  $ meterd tx settlement withdraw 500000umtr --from mykey`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			amount, err := sdk.ParseCoinNormalized(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}

			msg := types.NewMsgWithdraw(clientCtx.GetFromAddress().String(), amount)
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCreateSession returns a CLI command handler for opening a metered session
func CmdCreateSession() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-session [host] [model-id] [deposit] [price-per-token] [max-duration] [proof-interval]",
		Short: "Open a metered inference session with a host",
		Long: `Open a metered inference session. The deposit is locked for the
session's lifetime and settled against proven work. The price is in scaled
units: 1000 pays one base unit per proven token.

Example:
  $ meterd tx settlement create-session meterd1host... llama-70b 100000umtr 1000 86400 60 --from mykey
  $ meterd tx settlement create-session meterd1host... llama-70b 100000umtr 1000 86400 60 --funding-source balance --from mykey`,
		Args: cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			deposit, err := sdk.ParseCoinNormalized(args[2])
			if err != nil {
				return fmt.Errorf("invalid deposit: %w", err)
			}

			price, ok := math.NewIntFromString(args[3])
			if !ok {
				return fmt.Errorf("invalid price-per-token: %s (must be integer)", args[3])
			}

			maxDuration, err := strconv.ParseUint(args[4], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid max-duration: %w", err)
			}

			proofInterval, err := strconv.ParseUint(args[5], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid proof-interval: %w", err)
			}

			fundingSource, err := cmd.Flags().GetString(flagFundingSource)
			if err != nil {
				return err
			}

			msg := types.NewMsgCreateSession(
				clientCtx.GetFromAddress().String(),
				args[0],
				args[1],
				deposit,
				price,
				maxDuration,
				proofInterval,
				fundingSource,
			)
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagFundingSource, types.FundingSourceInline, "Deposit funding: inline (with the tx) or balance (from withdrawable)")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSubmitProof returns a CLI command handler for attesting metered work
func CmdSubmitProof() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-proof [session-id] [claimed-tokens] [proof-hash-hex] [signature-hex]",
		Short: "Submit a signed proof of metered work for a session",
		Long: `Submit a signed proof of incremental work. The proof hash is the
sha256 of the off-chain proof artifact; the signature covers the hash, the
host address, and the claimed token count.

Example:
  $ meterd tx settlement submit-proof 1 40000 9f2b...c1 a477...0e --from hostkey`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			sessionID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session ID: %w", err)
			}

			claimedTokens, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid claimed-tokens: %w", err)
			}

			proofHash, err := hex.DecodeString(args[2])
			if err != nil {
				return fmt.Errorf("invalid proof-hash-hex: %w", err)
			}

			signature, err := hex.DecodeString(args[3])
			if err != nil {
				return fmt.Errorf("invalid signature-hex: %w", err)
			}

			evidenceRefs, err := cmd.Flags().GetStringSlice(flagEvidence)
			if err != nil {
				return err
			}

			msg := types.NewMsgSubmitProof(
				sessionID,
				clientCtx.GetFromAddress().String(),
				claimedTokens,
				proofHash,
				signature,
				evidenceRefs,
			)
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().StringSlice(flagEvidence, nil, "Content-addressed references to off-chain proof artifacts")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCompleteSession returns a CLI command handler for settling a session
func CmdCompleteSession() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete-session [session-id]",
		Short: "Complete an active session and settle its deposit",
		Long: `Complete an active session. The depositor may complete at any
time; the host may complete only after the dispute window has passed.

Example:
  $ meterd tx settlement complete-session 1 --from mykey
  $ meterd tx settlement complete-session 1 --evidence bafy...q2 --from mykey`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			sessionID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session ID: %w", err)
			}

			evidenceRef, err := cmd.Flags().GetString(flagEvidence)
			if err != nil {
				return err
			}

			msg := types.NewMsgCompleteSession(sessionID, clientCtx.GetFromAddress().String(), evidenceRef)
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagEvidence, "", "Content-addressed reference to the conversation record")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdTriggerTimeout returns a CLI command handler for timing out a session
func CmdTriggerTimeout() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger-timeout [session-id]",
		Short: "Settle a session whose deadline has passed or whose host went silent",
		Long: `Settle an abandoned session. Anyone may call this once the
session's hard deadline has passed or the host has missed enough proof
windows. The host is paid only for tokens proven before going dark.

Example:
  $ meterd tx settlement trigger-timeout 1 --from anykey`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			sessionID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session ID: %w", err)
			}

			msg := types.NewMsgTriggerTimeout(sessionID, clientCtx.GetFromAddress().String())
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdrawEarnings returns a CLI command handler for host payout withdrawal
func CmdWithdrawEarnings() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-earnings [denom]",
		Short: "Withdraw your accrued host earnings for a denom",
		Long: `Withdraw all earnings accrued across settled sessions in one
transfer. Earnings accumulate per denom until withdrawn.

Example:
  $ meterd tx settlement withdraw-earnings umtr --from hostkey`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := types.NewMsgWithdrawEarnings(clientCtx.GetFromAddress().String(), args[0])
			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
