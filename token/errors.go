// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import "errors"

var (
	ErrAlreadyInitialized  = errors.New("token already initialized")
	ErrUnauthorized        = errors.New("invoker is not the token admin")
	ErrNegativeAmount      = errors.New("negative amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSupplyOverflow      = errors.New("supply overflow")
)
