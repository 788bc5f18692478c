// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/keys"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/utils"
)

// DataKey enumerates the persisted slots of a pool. The values are part of
// the storage layout and must not be reordered.
type DataKey uint8

const (
	TokenA DataKey = iota
	TokenB
	TokenShare
	TotalShares
	ReserveA
	ReserveB
)

var dataKeyNames = [...]string{"TokenA", "TokenB", "TokenShare", "TotalShares", "ReserveA", "ReserveB"}

func (d DataKey) Valid() bool {
	return d <= ReserveB
}

func (d DataKey) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DataKey(%d)", uint8(d))
	}
	return dataKeyNames[d]
}

// PoolSlotKey returns the state key of slot [d] for [pool].
func PoolSlotKey(pool codec.Address, d DataKey) []byte {
	k := make([]byte, 1+codec.AddressLen+1, 1+codec.AddressLen+1+consts.Uint16Len)
	k[0] = poolSlotPrefix
	copy(k[1:], pool[:])
	k[1+codec.AddressLen] = byte(d)
	return keys.EncodeChunks(k, PoolSlotChunks)
}

// PoolAddress derives the address of the pool trading [tokenA] against
// [tokenB]. The pair must already be in canonical order.
func PoolAddress(tokenA codec.Address, tokenB codec.Address) (codec.Address, error) {
	if tokenA == tokenB {
		return codec.EmptyAddress, ErrIdenticalAddresses
	}
	v := make([]byte, codec.AddressLen+codec.AddressLen)
	copy(v, tokenA[:])
	copy(v[codec.AddressLen:], tokenB[:])
	return codec.CreateAddress(consts.PoolID, utils.ToID(v)), nil
}

// ShareTokenAddress derives the share token address of [pool].
func ShareTokenAddress(pool codec.Address) codec.Address {
	return codec.CreateAddress(consts.ShareTokenID, utils.ToID(pool[:]))
}

func getSlot(ctx context.Context, im state.Immutable, pool codec.Address, d DataKey) ([]byte, error) {
	if !d.Valid() {
		return nil, ErrInvalidDataKey
	}
	v, err := im.GetValue(ctx, PoolSlotKey(pool, d))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotSet, d)
	}
	return v, err
}

func setSlot(ctx context.Context, mu state.Mutable, pool codec.Address, d DataKey, v []byte) error {
	if !d.Valid() {
		return ErrInvalidDataKey
	}
	return mu.Insert(ctx, PoolSlotKey(pool, d), v)
}

func getAddressSlot(ctx context.Context, im state.Immutable, pool codec.Address, d DataKey) (codec.Address, error) {
	v, err := getSlot(ctx, im, pool, d)
	if err != nil {
		return codec.EmptyAddress, err
	}
	addr, err := codec.ToAddress(v)
	if err != nil {
		return codec.EmptyAddress, fmt.Errorf("%w: %s: %w", ErrCorruptValue, d, err)
	}
	return addr, nil
}

func getAmountSlot(ctx context.Context, im state.Immutable, pool codec.Address, d DataKey) (int128.Int, error) {
	v, err := getSlot(ctx, im, pool, d)
	if err != nil {
		return int128.Zero, err
	}
	amount, err := int128.FromBytes(v)
	if err != nil {
		return int128.Zero, fmt.Errorf("%w: %s: %w", ErrCorruptValue, d, err)
	}
	return amount, nil
}

func GetTokenA(ctx context.Context, im state.Immutable, pool codec.Address) (codec.Address, error) {
	return getAddressSlot(ctx, im, pool, TokenA)
}

func SetTokenA(ctx context.Context, mu state.Mutable, pool codec.Address, token codec.Address) error {
	return setSlot(ctx, mu, pool, TokenA, token[:])
}

func GetTokenB(ctx context.Context, im state.Immutable, pool codec.Address) (codec.Address, error) {
	return getAddressSlot(ctx, im, pool, TokenB)
}

func SetTokenB(ctx context.Context, mu state.Mutable, pool codec.Address, token codec.Address) error {
	return setSlot(ctx, mu, pool, TokenB, token[:])
}

func GetTokenShare(ctx context.Context, im state.Immutable, pool codec.Address) (codec.Address, error) {
	return getAddressSlot(ctx, im, pool, TokenShare)
}

func SetTokenShare(ctx context.Context, mu state.Mutable, pool codec.Address, token codec.Address) error {
	return setSlot(ctx, mu, pool, TokenShare, token[:])
}

func GetTotalShares(ctx context.Context, im state.Immutable, pool codec.Address) (int128.Int, error) {
	return getAmountSlot(ctx, im, pool, TotalShares)
}

func SetTotalShares(ctx context.Context, mu state.Mutable, pool codec.Address, v int128.Int) error {
	return setSlot(ctx, mu, pool, TotalShares, v.Bytes())
}

func GetReserveA(ctx context.Context, im state.Immutable, pool codec.Address) (int128.Int, error) {
	return getAmountSlot(ctx, im, pool, ReserveA)
}

func SetReserveA(ctx context.Context, mu state.Mutable, pool codec.Address, v int128.Int) error {
	return setSlot(ctx, mu, pool, ReserveA, v.Bytes())
}

func GetReserveB(ctx context.Context, im state.Immutable, pool codec.Address) (int128.Int, error) {
	return getAmountSlot(ctx, im, pool, ReserveB)
}

func SetReserveB(ctx context.Context, mu state.Mutable, pool codec.Address, v int128.Int) error {
	return setSlot(ctx, mu, pool, ReserveB, v.Bytes())
}

// IsInitialized reports whether [pool] has its configuration written.
func IsInitialized(ctx context.Context, im state.Immutable, pool codec.Address) (bool, error) {
	_, err := getSlot(ctx, im, pool, TokenA)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrSlotNotSet):
		return false, nil
	default:
		return false, err
	}
}

// PoolKeys returns every slot key of [pool] with [perm].
func PoolKeys(pool codec.Address, perm state.Permissions) state.Keys {
	ks := make(state.Keys, ReserveB+1)
	for d := TokenA; d <= ReserveB; d++ {
		ks.Add(string(PoolSlotKey(pool, d)), perm)
	}
	return ks
}
