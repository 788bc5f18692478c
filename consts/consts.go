// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	ByteLen     = 1
	BoolLen     = 1
	IDLen       = 32
	IntLen      = 4
	Uint16Len   = 2
	Uint64Len   = 8
	Int128Len   = 16
	MaxUint16   = ^uint16(0)
	MaxUint64   = ^uint64(0)
	MaxUint8    = ^uint8(0)
	MaxStrLen   = 256
	NetworkName = "cfmm"
	Version     = "v0.1.0"
	HRP         = "cfmm"
)

// Address type IDs
const (
	ED25519ID    uint8 = 0
	TokenID      uint8 = 1
	PoolID       uint8 = 2
	ShareTokenID uint8 = 3
)

// Swap fee, expressed as the fraction of input retained by the pool.
const (
	FeeNumerator   = 997
	FeeDenominator = 1000
)

// Share token configuration
const (
	ShareTokenDecimals uint8 = 7
	ShareTokenName           = "Pool Share Token" // #nosec G101
	ShareTokenSymbol         = "POOL"
)
