// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import "errors"

var (
	ErrMissingToken    = errors.New("missing token")
	ErrDuplicateToken  = errors.New("duplicate token symbol")
	ErrNegativeBalance = errors.New("negative balance")
)
