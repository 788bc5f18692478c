// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import "github.com/ava-labs/cfmm/crypto/ed25519"

// GetFactory returns the [Factory] for a given private key.
func GetFactory(pk *PrivateKey) (Factory, error) {
	switch pk.Address[0] {
	case ED25519ID:
		if len(pk.Bytes) != ed25519.PrivateKeyLen {
			return nil, ErrInvalidPrivateKeySize
		}
		return NewED25519Factory(ed25519.PrivateKey(pk.Bytes)), nil
	default:
		return nil, ErrInvalidKeyType
	}
}

// Unmarshal decodes a credential produced by [Auth.Bytes].
func Unmarshal(b []byte) (Auth, error) {
	if len(b) == 0 {
		return nil, ErrInvalidAuthSize
	}
	switch b[0] {
	case ED25519ID:
		return UnmarshalED25519(b)
	default:
		return nil, ErrInvalidKeyType
	}
}
