// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package auth authenticates the caller of a pool operation.
package auth

import (
	"context"
	"errors"

	"github.com/ava-labs/cfmm/codec"
)

var (
	ErrInvalidKeyType        = errors.New("invalid key type")
	ErrInvalidPrivateKeySize = errors.New("invalid private key size")
	ErrInvalidAuthSize       = errors.New("invalid auth size")
	ErrUnexpectedTypeID      = errors.New("unexpected type id")
)

// Auth is a credential over a single message.
type Auth interface {
	GetTypeID() uint8

	// Verify returns nil if the credential signs [msg].
	Verify(ctx context.Context, msg []byte) error

	// Actor is the account the credential speaks for.
	Actor() codec.Address

	Bytes() []byte
}

// Factory produces credentials for a single account.
type Factory interface {
	Sign(msg []byte) (Auth, error)
	Address() codec.Address
}

type PrivateKey struct {
	Address codec.Address
	Bytes   []byte
}
