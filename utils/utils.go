// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/onsi/ginkgo/v2/formatter"

	"github.com/ava-labs/cfmm/int128"
)

var (
	ErrInvalidSize   = errors.New("invalid size")
	ErrInvalidAmount = errors.New("invalid amount")
)

// ToID hashes [bytes] into an ID.
func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

// InitSubDirectory creates [name] under [root] if missing and returns its
// path.
func InitSubDirectory(root string, name string) (string, error) {
	p := filepath.Join(root, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// Outf prints a ginkgo formatted string, such as "{{green}}ok{{/}}", to
// stdout.
func Outf(format string, args ...any) {
	fmt.Fprint(formatter.ColorableStdOut, formatter.F(format, args...))
}

// SaveBytes writes [b] to [filename] readable only by the current user.
func SaveBytes(filename string, b []byte) error {
	return os.WriteFile(filename, b, perms.ReadWrite)
}

// LoadBytes returns bytes stored at a file [filename]. If [expectedSize] is
// positive, the file must hold exactly that many bytes.
func LoadBytes(filename string, expectedSize int) ([]byte, error) {
	b, err := os.ReadFile(filename)
	switch {
	case err != nil:
		return nil, err
	case expectedSize > 0 && len(b) != expectedSize:
		return nil, fmt.Errorf("%w: %s holds %d bytes, wanted %d", ErrInvalidSize, filename, len(b), expectedSize)
	default:
		return b, nil
	}
}

// FormatAmount renders [amount] with [decimals] fractional digits.
func FormatAmount(amount int128.Int, decimals uint8) string {
	b := amount.ToBig()
	neg := b.Sign() < 0
	b.Abs(b)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	q, r := new(big.Int).QuoRem(b, scale, new(big.Int))
	s := q.String()
	if decimals > 0 {
		frac := r.String()
		s += "." + strings.Repeat("0", int(decimals)-len(frac)) + frac
	}
	if neg {
		s = "-" + s
	}
	return s
}

// ParseAmount is the inverse of [FormatAmount]. Extra fractional digits are
// rejected rather than rounded.
func ParseAmount(s string, decimals uint8) (int128.Int, error) {
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > int(decimals) {
		return int128.Zero, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	if whole == "" || whole == "-" {
		whole += "0"
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	v, err := int128.Parse(digits)
	if err != nil {
		return int128.Zero, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	return v, nil
}
