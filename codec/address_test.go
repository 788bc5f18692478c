// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	require := require.New(t)
	typeID := byte(0)
	addrID := ids.GenerateTestID()

	addr := CreateAddress(typeID, addrID)
	require.Equal(typeID, addr.TypeID())
	addrStr, err := addr.MarshalText()
	require.NoError(err)

	var parsedAddr Address
	require.NoError(parsedAddr.UnmarshalText(addrStr))
	require.Equal(addr, parsedAddr)
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(1, ids.GenerateTestID())

	addrJSONBytes, err := json.Marshal(addr)
	require.NoError(err)

	var parsedAddr Address
	require.NoError(json.Unmarshal(addrJSONBytes, &parsedAddr))
	require.Equal(addr, parsedAddr)
}

func TestStringToAddress(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(2, ids.GenerateTestID())

	parsed, err := StringToAddress(addr.String())
	require.NoError(err)
	require.Equal(addr, parsed)

	_, err = StringToAddress("0x0102")
	require.ErrorIs(err, ErrInvalidSize)
}

func TestToAddress(t *testing.T) {
	require := require.New(t)

	_, err := ToAddress(make([]byte, AddressLen-1))
	require.ErrorIs(err, ErrInvalidSize)

	b := make([]byte, AddressLen)
	b[0] = 7
	addr, err := ToAddress(b)
	require.NoError(err)
	require.Equal(uint8(7), addr.TypeID())
}

func TestAddressCompare(t *testing.T) {
	require := require.New(t)
	a := Address{0x01}
	b := Address{0x02}

	require.Equal(-1, a.Compare(b))
	require.Equal(1, b.Compare(a))
	require.Zero(a.Compare(a))
	require.True(a.Less(b))
	require.False(b.Less(a))
	require.False(a.Less(a))

	// ordering is decided by the first differing byte
	c := Address{0x01, 0xFF}
	require.True(a.Less(c))
	require.True(c.Less(b))
}

func TestAddressBech32(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(0, ids.GenerateTestID())

	s, err := AddressBech32("cfmm", addr)
	require.NoError(err)

	parsed, err := ParseAddressBech32("cfmm", s)
	require.NoError(err)
	require.Equal(addr, parsed)

	_, err = ParseAddressBech32("other", s)
	require.ErrorIs(err, ErrIncorrectHRP)
}
