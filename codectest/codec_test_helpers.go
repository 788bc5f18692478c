// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codectest

import (
	"crypto/rand"

	"github.com/ava-labs/cfmm/codec"
)

// NewRandomAddress returns a random address
// for use during testing
func NewRandomAddress() codec.Address {
	b := make([]byte, codec.AddressLen)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return codec.Address(b)
}

// NewOrderedAddresses returns two random addresses with a < b.
func NewOrderedAddresses() (codec.Address, codec.Address) {
	for {
		a, b := NewRandomAddress(), NewRandomAddress()
		switch a.Compare(b) {
		case -1:
			return a, b
		case 1:
			return b, a
		}
	}
}
