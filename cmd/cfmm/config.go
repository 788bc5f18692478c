// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava-labs/cfmm/auth"
	"github.com/ava-labs/cfmm/crypto/ed25519"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/utils"
)

const (
	configDirName   = ".cfmm-cli"
	envPrefix       = "cfmm"
	defaultEndpoint = "http://127.0.0.1:9650/ext/cfmm"
)

var errMissingKey = errors.New("no key configured, run key generate")

// initConfig loads the CLI settings kept under the home directory. The
// file is created on first use.
func initConfig() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error getting home directory:", err)
		os.Exit(1)
	}

	configDir := filepath.Join(homeDir, configDirName)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "Error creating config directory:", err)
		os.Exit(1)
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error creating config file:", err)
			os.Exit(1)
		}
		_ = f.Close()
	}

	viper.SetConfigFile(configFile)
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("endpoint", defaultEndpoint)

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Error reading config:", err)
		os.Exit(1)
	}
}

func isJSONOutputRequested(cmd *cobra.Command) (bool, error) {
	output, err := getConfigValue(cmd, "output", false)
	if err != nil {
		return false, fmt.Errorf("failed to get output format: %w", err)
	}
	return strings.ToLower(output) == "json", nil
}

func printValue(cmd *cobra.Command, v fmt.Stringer) error {
	isJSON, err := isJSONOutputRequested(cmd)
	if err != nil {
		return err
	}

	if isJSON {
		jsonBytes, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.String())
	return nil
}

func getConfigValue(cmd *cobra.Command, key string, required bool) (string, error) {
	// Check flags first
	if value, err := cmd.Flags().GetString(key); err == nil && value != "" {
		return value, nil
	}

	// Then check viper
	if value := viper.GetString(key); value != "" {
		return value, nil
	}

	if required {
		return "", fmt.Errorf("required value for %s not found", key)
	}

	return "", nil
}

func setConfigValue(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

func privateKeyFromString(s string) (*auth.PrivateKey, error) {
	key, err := ed25519.HexToKey(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, err
	}
	return auth.NewED25519PrivateKeyFactory().LoadPrivateKey(key[:])
}

func getFactory(cmd *cobra.Command) (auth.Factory, error) {
	keyString, err := getConfigValue(cmd, "key", false)
	if err != nil {
		return nil, err
	}
	if len(keyString) == 0 {
		return nil, errMissingKey
	}
	key, err := privateKeyFromString(keyString)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key: %w", err)
	}
	return auth.GetFactory(key)
}

// getDecimals returns the --decimals flag, zero when the command does not
// carry it.
func getDecimals(cmd *cobra.Command) uint8 {
	d, err := cmd.Flags().GetUint8("decimals")
	if err != nil {
		return 0
	}
	return d
}

func getAmount(cmd *cobra.Command, name string) (int128.Int, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return int128.Zero, err
	}
	if len(s) == 0 {
		return int128.Zero, nil
	}
	v, err := utils.ParseAmount(s, getDecimals(cmd))
	if err != nil {
		return int128.Zero, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
