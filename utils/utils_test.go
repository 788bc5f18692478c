// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cfmm/int128"
)

func TestLoadBytes(t *testing.T) {
	dir := t.TempDir()
	id := ids.GenerateTestID()
	saved := filepath.Join(dir, "id")
	require.NoError(t, SaveBytes(saved, id[:]))

	tests := []struct {
		name     string
		filename string
		size     int
		want     []byte
		wantErr  error
	}{
		{
			name:     "exact size",
			filename: saved,
			size:     ids.IDLen,
			want:     id[:],
		},
		{
			name:     "any size",
			filename: saved,
			want:     id[:],
		},
		{
			name:     "wrong size",
			filename: saved,
			size:     ids.IDLen + 1,
			wantErr:  ErrInvalidSize,
		},
		{
			name:     "missing file",
			filename: filepath.Join(dir, "missing"),
			size:     ids.IDLen,
			wantErr:  os.ErrNotExist,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			b, err := LoadBytes(tt.filename, tt.size)
			require.ErrorIs(err, tt.wantErr)
			require.Equal(tt.want, b)
		})
	}
}

func TestSaveBytesPermissions(t *testing.T) {
	require := require.New(t)

	filename := filepath.Join(t.TempDir(), "key")
	require.NoError(SaveBytes(filename, []byte{1, 2, 3}))
	info, err := os.Stat(filename)
	require.NoError(err)
	require.Equal(os.FileMode(0o600), info.Mode().Perm())
}

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	p, err := InitSubDirectory(root, "db")
	require.NoError(err)
	require.Equal(filepath.Join(root, "db"), p)
	require.DirExists(p)

	// existing directories are reused
	_, err = InitSubDirectory(root, "db")
	require.NoError(err)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   int64
		decimals uint8
		want     string
	}{
		{1_000_000_000, 9, "1.000000000"},
		{123_456_789, 9, "0.123456789"},
		{0, 9, "0.000000000"},
		{15_000_000, 7, "1.5000000"},
		{-25, 2, "-0.25"},
		{42, 0, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require := require.New(t)

			require.Equal(tt.want, FormatAmount(int128.NewInt(tt.amount), tt.decimals))
			v, err := ParseAmount(tt.want, tt.decimals)
			require.NoError(err)
			require.Equal(int128.NewInt(tt.amount), v)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		decimals uint8
		want     int64
		wantErr  error
	}{
		{input: "1.5", decimals: 7, want: 15_000_000},
		{input: ".5", decimals: 1, want: 5},
		{input: "7", decimals: 2, want: 700},
		{input: "1.123", decimals: 2, wantErr: ErrInvalidAmount},
		{input: "invalid", decimals: 2, wantErr: ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require := require.New(t)

			v, err := ParseAmount(tt.input, tt.decimals)
			require.ErrorIs(err, tt.wantErr)
			if tt.wantErr == nil {
				require.Equal(int128.NewInt(tt.want), v)
			}
		})
	}
}
