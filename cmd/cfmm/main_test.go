// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/simulator"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func setup(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
}

func TestKeyGenerateThenAddress(t *testing.T) {
	require := require.New(t)
	setup(t)

	out, err := execute(t, "key", "generate", "-o", "json")
	require.NoError(err)
	var stored keyCmdResponse
	require.NoError(json.Unmarshal([]byte(out), &stored))
	require.True(strings.HasPrefix(stored.Address, "cfmm1"))

	out, err = execute(t, "address", "-o", "json")
	require.NoError(err)
	var addr keyAddressCmdResponse
	require.NoError(json.Unmarshal([]byte(out), &addr))
	require.Equal(stored.Address, addr.Address)

	b, err := os.ReadFile(filepath.Join(os.Getenv("HOME"), configDirName, "config.yaml"))
	require.NoError(err)
	require.Contains(string(b), "key:")
}

func TestKeyFileRoundTrip(t *testing.T) {
	require := require.New(t)
	setup(t)
	t.Cleanup(func() {
		_ = keyGenerateCmd.Flags().Set("save", "")
		_ = keySetCmd.Flags().Set("file", "")
	})

	path := filepath.Join(t.TempDir(), "key.pk")
	out, err := execute(t, "key", "generate", "--save", path, "-o", "json")
	require.NoError(err)
	var generated keyCmdResponse
	require.NoError(json.Unmarshal([]byte(out), &generated))
	require.FileExists(path)

	setup(t)
	out, err = execute(t, "key", "set", "--file", path, "-o", "json")
	require.NoError(err)
	var loaded keyCmdResponse
	require.NoError(json.Unmarshal([]byte(out), &loaded))
	require.Equal(generated, loaded)
}

func TestRunPlans(t *testing.T) {
	require := require.New(t)
	setup(t)

	path := filepath.Join("..", "..", "simulator", "testdata", "round_trip.yaml")
	out, err := execute(t, "run", path)
	require.NoError(err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(lines, 10)
	var last struct {
		ID    int    `json:"id"`
		Error string `json:"error"`
	}
	require.NoError(json.Unmarshal([]byte(lines[len(lines)-1]), &last))
	require.Equal(9, last.ID)
	require.Empty(last.Error)

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(os.WriteFile(broken, []byte(`{
		"name": "broken",
		"steps": [{"op": "initialize", "expectError": "already_initialized"}]
	}`), 0o600))
	_, err = execute(t, "run", broken)
	require.ErrorIs(err, simulator.ErrMissingError)
}

func TestGetAmount(t *testing.T) {
	tests := []struct {
		value    string
		decimals uint8
		want     int128.Int
		wantErr  bool
	}{
		{value: "", want: int128.Zero},
		{value: "1500", want: int128.NewInt(1500)},
		{value: "12x", wantErr: true},
		{value: "1.5", decimals: 2, want: int128.NewInt(150)},
		{value: "1.555", decimals: 2, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			require := require.New(t)

			cmd := &cobra.Command{}
			cmd.Flags().String("amount", "", "")
			cmd.Flags().Uint8("decimals", tt.decimals, "")
			require.NoError(cmd.Flags().Set("amount", tt.value))
			v, err := getAmount(cmd, "amount")
			if tt.wantErr {
				require.Error(err)
				return
			}
			require.NoError(err)
			require.Equal(tt.want, v)
		})
	}
}
