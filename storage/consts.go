// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Key prefixes
const (
	poolSlotPrefix byte = iota
	tokenInfoPrefix
	tokenBalancePrefix
)

// Chunks
const (
	PoolSlotChunks     uint16 = 1
	TokenInfoChunks    uint16 = 2
	TokenBalanceChunks uint16 = 1
)

// Related to token invariants
const (
	MaxTokenNameSize   = 64
	MaxTokenSymbolSize = 8
	MaxTokenDecimals   = 18
)
