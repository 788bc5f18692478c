// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print current key address",
	RunE: func(cmd *cobra.Command, _ []string) error {
		factory, err := getFactory(cmd)
		if err != nil {
			return err
		}
		addr, err := codec.AddressBech32(consts.HRP, factory.Address())
		if err != nil {
			return err
		}
		return printValue(cmd, keyAddressCmdResponse{
			Address: addr,
			Hex:     factory.Address().String(),
		})
	},
}

type keyAddressCmdResponse struct {
	Address string `json:"address"`
	Hex     string `json:"hex"`
}

func (r keyAddressCmdResponse) String() string {
	return r.Address
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
