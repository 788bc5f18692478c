// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cfmm/int128"
)

func TestNewDefaults(t *testing.T) {
	require := require.New(t)

	c, err := New(nil)
	require.NoError(err)
	require.Equal(logging.Info, c.GetLogLevel())
	require.Equal("127.0.0.1:9650", c.GetHTTPAddress())
	require.True(c.GetPoolConfig().MinimumLiquidity.IsZero())
	require.Equal(filepath.Join(defaultDataDir, "logs"), c.GetLogDir())
	require.False(c.GetTraceConfig().Enabled)
}

func TestNewOverrides(t *testing.T) {
	require := require.New(t)

	c, err := New([]byte(`{
		"logLevel": "debug",
		"httpPort": 9000,
		"logDir": "/tmp/cfmm",
		"traceEnabled": true,
		"pool": {"minimumLiquidity": "1000"},
		"database": {"sync": false}
	}`))
	require.NoError(err)
	require.Equal(logging.Debug, c.GetLogLevel())
	require.Equal("127.0.0.1:9000", c.GetHTTPAddress())
	require.Equal("/tmp/cfmm", c.GetLogConfig().Directory)
	require.True(c.GetTraceConfig().Enabled)
	require.Equal(int128.NewInt(1000), c.GetPoolConfig().MinimumLiquidity)
	require.False(c.GetDatabaseConfig().Sync)
	// untouched fields keep their defaults
	require.Equal(NewDefaultConfig().Database.CacheSize, c.GetDatabaseConfig().CacheSize)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"negative minimum liquidity", `{"pool": {"minimumLiquidity": "-1"}}`},
		{"sample rate above one", `{"traceSampleRate": 1.5}`},
		{"no pending messages", `{"streaming": {"maxPendingMessages": 0}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]byte(tt.json))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(os.WriteFile(path, []byte(`{"httpHost": "0.0.0.0"}`), 0o600))
	c, err := Load(path)
	require.NoError(err)
	require.Equal("0.0.0.0:9650", c.GetHTTPAddress())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(err, os.ErrNotExist)

	require.NoError(os.WriteFile(path, []byte(`{`), 0o600))
	_, err = Load(path)
	require.Error(err)
}
