// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/cfmm/api/jsonrpc"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/utils"
)

func getClient(cmd *cobra.Command) (*jsonrpc.JSONRPCClient, error) {
	endpoint, err := getConfigValue(cmd, "endpoint", true)
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}
	return jsonrpc.NewJSONRPCClient(endpoint), nil
}

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Show the pool tokens and reserves",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := getClient(cmd)
		if err != nil {
			return err
		}
		info, err := client.Pool(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get pool: %w", err)
		}
		reserveA, reserveB, totalShares, err := client.Reserves(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get reserves: %w", err)
		}
		return printValue(cmd, poolCmdResponse{
			PoolReply:   *info,
			ReserveA:    reserveA,
			ReserveB:    reserveB,
			TotalShares: totalShares,
		})
	},
}

type poolCmdResponse struct {
	jsonrpc.PoolReply
	ReserveA    int128.Int `json:"reserveA"`
	ReserveB    int128.Int `json:"reserveB"`
	TotalShares int128.Int `json:"totalShares"`
}

func (r poolCmdResponse) String() string {
	return fmt.Sprintf(
		"pool: %s\ntoken a: %s (reserve %s)\ntoken b: %s (reserve %s)\nshares: %s (supply %s)",
		r.Address, r.TokenA, r.ReserveA, r.TokenB, r.ReserveB, r.ShareToken, r.TotalShares,
	)
}

var balanceCmd = &cobra.Command{
	Use:       "balance [a|b|share]",
	Short:     "Show the balance of an account in one of the pool tokens",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"a", "b", "share"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := getClient(cmd)
		if err != nil {
			return err
		}
		account, err := getAccount(cmd)
		if err != nil {
			return err
		}
		info, err := client.Pool(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get pool: %w", err)
		}
		var token codec.Address
		switch args[0] {
		case "a":
			token = info.TokenA
		case "b":
			token = info.TokenB
		case "share":
			token = info.ShareToken
		default:
			return fmt.Errorf("unknown token %q", args[0])
		}
		balance, err := client.Balance(cmd.Context(), token, account)
		if err != nil {
			return fmt.Errorf("failed to get balance: %w", err)
		}
		return printValue(cmd, balanceCmdResponse{
			Token:    token,
			Balance:  balance,
			decimals: getDecimals(cmd),
		})
	},
}

// getAccount returns the --account flag or the address of the configured
// key.
func getAccount(cmd *cobra.Command) (codec.Address, error) {
	s, err := cmd.Flags().GetString("account")
	if err != nil {
		return codec.EmptyAddress, err
	}
	if len(s) > 0 {
		return codec.ParseAddressBech32(consts.HRP, s)
	}
	factory, err := getFactory(cmd)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return factory.Address(), nil
}

type balanceCmdResponse struct {
	Token   codec.Address `json:"token"`
	Balance int128.Int    `json:"balance"`

	decimals uint8
}

func (r balanceCmdResponse) String() string {
	return utils.FormatAmount(r.Balance, r.decimals)
}

func init() {
	rootCmd.AddCommand(poolCmd, balanceCmd)
	balanceCmd.Flags().String("account", "", "Bech32 account, defaults to the configured key")
}
