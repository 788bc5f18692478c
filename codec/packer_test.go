// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestPackerRoundTrip(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(3, ids.GenerateTestID())

	wp := NewWriter(64, 1024)
	wp.PackByte(9)
	wp.PackBool(true)
	wp.PackUint64(42)
	wp.PackAddress(addr)
	wp.PackString("POOL")
	wp.PackBytes([]byte{1, 2, 3})
	wp.PackFixedBytes([]byte{4, 5})
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), 1024)
	require.Equal(byte(9), rp.UnpackByte())
	require.True(rp.UnpackBool())
	require.Equal(uint64(42), rp.UnpackUint64(true))
	var parsed Address
	rp.UnpackAddress(true, &parsed)
	require.Equal(addr, parsed)
	require.Equal("POOL", rp.UnpackString(true))
	var b []byte
	rp.UnpackBytes(8, true, &b)
	require.Equal([]byte{1, 2, 3}, b)
	rp.UnpackFixedBytes(2, &b)
	require.Equal([]byte{4, 5}, b)
	require.NoError(rp.Err())
	require.True(rp.Empty())
}

func TestPackerRequiredUnpack(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(AddressLen, AddressLen)
	wp.PackAddress(EmptyAddress)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), AddressLen)
	var addr Address
	rp.UnpackAddress(true, &addr)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)

	rp = NewReader(wp.Bytes(), AddressLen)
	rp.UnpackAddress(false, &addr)
	require.NoError(rp.Err())
}

func TestPackerBytesLimit(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(16, 64)
	wp.PackBytes([]byte{1, 2, 3, 4})
	rp := NewReader(wp.Bytes(), 64)
	var b []byte
	rp.UnpackBytes(2, false, &b)
	require.ErrorIs(rp.Err(), ErrTooLarge)
}

func TestPackerShortRead(t *testing.T) {
	require := require.New(t)

	rp := NewReader([]byte{1, 2}, 64)
	rp.UnpackUint64(false)
	require.Error(rp.Err())
}
