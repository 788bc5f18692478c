// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrSlotNotSet         = errors.New("slot not set")
	ErrInvalidDataKey     = errors.New("invalid data key")
	ErrTokenNotFound      = errors.New("token not found")
	ErrInvalidTokenInfo   = errors.New("invalid token info")
	ErrCorruptValue       = errors.New("corrupt value")
	ErrIdenticalAddresses = errors.New("identical addresses")
)
