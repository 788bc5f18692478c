// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/cfmm/pool"
)

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Add liquidity for the configured key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := getClient(cmd)
		if err != nil {
			return err
		}
		desiredA, err := getAmount(cmd, "desired-a")
		if err != nil {
			return err
		}
		desiredB, err := getAmount(cmd, "desired-b")
		if err != nil {
			return err
		}
		quote, err := cmd.Flags().GetBool("quote")
		if err != nil {
			return err
		}
		if quote {
			result, err := client.QuoteDeposit(cmd.Context(), desiredA, desiredB)
			if err != nil {
				return err
			}
			return printValue(cmd, depositCmdResponse{result})
		}

		factory, err := getFactory(cmd)
		if err != nil {
			return err
		}
		minA, err := getAmount(cmd, "min-a")
		if err != nil {
			return err
		}
		minB, err := getAmount(cmd, "min-b")
		if err != nil {
			return err
		}
		result, err := client.Deposit(cmd.Context(), factory, desiredA, minA, desiredB, minB)
		if err != nil {
			return fmt.Errorf("deposit failed: %w", err)
		}
		return printValue(cmd, depositCmdResponse{result})
	},
}

type depositCmdResponse struct {
	*pool.DepositResult
}

func (r depositCmdResponse) String() string {
	return fmt.Sprintf("deposited %s a and %s b for %s shares", r.AmountA, r.AmountB, r.Shares)
}

var swapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Buy an exact amount of one token with the other",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := getClient(cmd)
		if err != nil {
			return err
		}
		buyA, err := cmd.Flags().GetBool("buy-a")
		if err != nil {
			return err
		}
		out, err := getAmount(cmd, "out")
		if err != nil {
			return err
		}
		quote, err := cmd.Flags().GetBool("quote")
		if err != nil {
			return err
		}
		if quote {
			result, err := client.QuoteSwap(cmd.Context(), buyA, out)
			if err != nil {
				return err
			}
			return printValue(cmd, swapCmdResponse{result})
		}

		factory, err := getFactory(cmd)
		if err != nil {
			return err
		}
		inMax, err := getAmount(cmd, "in-max")
		if err != nil {
			return err
		}
		result, err := client.Swap(cmd.Context(), factory, buyA, out, inMax)
		if err != nil {
			return fmt.Errorf("swap failed: %w", err)
		}
		return printValue(cmd, swapCmdResponse{result})
	},
}

type swapCmdResponse struct {
	*pool.SwapResult
}

func (r swapCmdResponse) String() string {
	return fmt.Sprintf("paid %s for %s", r.AmountIn, r.AmountOut)
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Redeem shares of the configured key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := getClient(cmd)
		if err != nil {
			return err
		}
		shares, err := getAmount(cmd, "shares")
		if err != nil {
			return err
		}
		quote, err := cmd.Flags().GetBool("quote")
		if err != nil {
			return err
		}
		if quote {
			result, err := client.QuoteWithdraw(cmd.Context(), shares)
			if err != nil {
				return err
			}
			return printValue(cmd, withdrawCmdResponse{result})
		}

		factory, err := getFactory(cmd)
		if err != nil {
			return err
		}
		minA, err := getAmount(cmd, "min-a")
		if err != nil {
			return err
		}
		minB, err := getAmount(cmd, "min-b")
		if err != nil {
			return err
		}
		result, err := client.Withdraw(cmd.Context(), factory, shares, minA, minB)
		if err != nil {
			return fmt.Errorf("withdraw failed: %w", err)
		}
		return printValue(cmd, withdrawCmdResponse{result})
	},
}

type withdrawCmdResponse struct {
	*pool.WithdrawResult
}

func (r withdrawCmdResponse) String() string {
	return fmt.Sprintf("withdrew %s a and %s b", r.AmountA, r.AmountB)
}

func init() {
	rootCmd.AddCommand(depositCmd, swapCmd, withdrawCmd)

	depositCmd.Flags().String("desired-a", "", "Most token a to deposit")
	depositCmd.Flags().String("desired-b", "", "Most token b to deposit")
	depositCmd.Flags().String("min-a", "0", "Least token a to deposit")
	depositCmd.Flags().String("min-b", "0", "Least token b to deposit")

	swapCmd.Flags().Bool("buy-a", false, "Buy token a with token b instead of b with a")
	swapCmd.Flags().String("out", "", "Exact amount to buy")
	swapCmd.Flags().String("in-max", "", "Most to pay")

	withdrawCmd.Flags().String("shares", "", "Shares to redeem")
	withdrawCmd.Flags().String("min-a", "0", "Least token a to receive")
	withdrawCmd.Flags().String("min-b", "0", "Least token b to receive")

	for _, cmd := range []*cobra.Command{depositCmd, swapCmd, withdrawCmd} {
		cmd.Flags().Bool("quote", false, "Only price the operation")
	}
}
