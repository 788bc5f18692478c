// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/cfmm/auth"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/crypto/ed25519"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage keys",
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new ED25519 key and store it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		priv, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return fmt.Errorf("failed to generate key: %w", err)
		}
		if path, _ := cmd.Flags().GetString("save"); len(path) > 0 {
			if err := priv.Save(path); err != nil {
				return fmt.Errorf("failed to save key: %w", err)
			}
		}
		key, err := auth.NewED25519PrivateKeyFactory().LoadPrivateKey(priv[:])
		if err != nil {
			return err
		}
		return storeKey(cmd, key)
	},
}

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store an existing ED25519 key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if path, _ := cmd.Flags().GetString("file"); len(path) > 0 {
			priv, err := ed25519.LoadKey(path)
			if err != nil {
				return fmt.Errorf("failed to load key: %w", err)
			}
			key, err := auth.NewED25519PrivateKeyFactory().LoadPrivateKey(priv[:])
			if err != nil {
				return err
			}
			return storeKey(cmd, key)
		}
		keyString, err := cmd.Flags().GetString("key")
		if err != nil {
			return fmt.Errorf("failed to get key flag: %w", err)
		}
		if keyString == "" {
			return errors.New("key or file is required")
		}
		key, err := privateKeyFromString(keyString)
		if err != nil {
			return fmt.Errorf("failed to decode key: %w", err)
		}
		return storeKey(cmd, key)
	},
}

func storeKey(cmd *cobra.Command, key *auth.PrivateKey) error {
	if err := setConfigValue("key", codec.ToHex(key.Bytes)); err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}
	addr, err := codec.AddressBech32(consts.HRP, key.Address)
	if err != nil {
		return err
	}
	return printValue(cmd, keyCmdResponse{Type: auth.ED25519Key, Address: addr})
}

type keyCmdResponse struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

func (r keyCmdResponse) String() string {
	return fmt.Sprintf("%s key stored for %s", r.Type, r.Address)
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyGenerateCmd, keySetCmd)
	keyGenerateCmd.Flags().String("save", "", "Also write the raw key to this file")
	keySetCmd.Flags().String("file", "", "Read the raw key from this file")
}
