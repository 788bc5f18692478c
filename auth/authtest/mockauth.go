// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package authtest

import (
	"context"

	"github.com/ava-labs/cfmm/auth"
	"github.com/ava-labs/cfmm/codec"
)

var (
	_ auth.Auth    = (*MockAuth)(nil)
	_ auth.Factory = (*DirectFactory)(nil)
)

// MockAuth speaks for [ActorAddr] and fails verification with [VerifyError].
type MockAuth struct {
	ActorAddr   codec.Address
	VerifyError error
}

// Direct returns a credential that always verifies for [actor].
func Direct(actor codec.Address) *MockAuth {
	return &MockAuth{ActorAddr: actor}
}

func (m *MockAuth) Actor() codec.Address {
	return m.ActorAddr
}

func (*MockAuth) GetTypeID() uint8 {
	panic("unimplemented")
}

func (*MockAuth) Bytes() []byte {
	panic("unimplemented")
}

func (m *MockAuth) Verify(context.Context, []byte) error {
	return m.VerifyError
}

// DirectFactory signs every message as [Actor].
type DirectFactory struct {
	Actor codec.Address
}

func (d DirectFactory) Sign([]byte) (auth.Auth, error) {
	return Direct(d.Actor), nil
}

func (d DirectFactory) Address() codec.Address {
	return d.Actor
}
