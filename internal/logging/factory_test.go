// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

func TestFactory(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	f := NewFactory(logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   1,
			MaxFiles:  1,
			MaxAge:    1,
			Directory: dir,
		},
		DisableWriterDisplaying: true,
		LogLevel:                logging.Info,
		DisplayLevel:            logging.Off,
		LogFormat:               logging.Plain,
	})
	l, err := f.Make("pool")
	require.NoError(err)
	_, err = f.Make("pool")
	require.ErrorContains(err, "already exists")

	l.Info("hello")
	require.NoError(f.SetLogLevel("pool", logging.Debug))
	require.Error(f.SetDisplayLevel("missing", logging.Debug))
	f.Close()

	b, err := os.ReadFile(filepath.Join(dir, "pool.log"))
	require.NoError(err)
	require.Contains(string(b), "hello")
}
