// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/int128"
)

// Action type IDs prefix the signed form of each mutating operation.
const (
	DepositActionID uint8 = iota
	SwapActionID
	WithdrawActionID
)

const maxActionSize = consts.ByteLen + 2*codec.AddressLen + consts.BoolLen + 4*consts.Int128Len

// DepositAction is the message a depositor signs.
type DepositAction struct {
	Pool     codec.Address `json:"pool"`
	To       codec.Address `json:"to"`
	DesiredA int128.Int    `json:"desiredA"`
	MinA     int128.Int    `json:"minA"`
	DesiredB int128.Int    `json:"desiredB"`
	MinB     int128.Int    `json:"minB"`
}

func (d *DepositAction) Bytes() []byte {
	p := codec.NewWriter(maxActionSize, maxActionSize)
	p.PackByte(DepositActionID)
	p.PackAddress(d.Pool)
	p.PackAddress(d.To)
	p.PackFixedBytes(d.DesiredA.Bytes())
	p.PackFixedBytes(d.MinA.Bytes())
	p.PackFixedBytes(d.DesiredB.Bytes())
	p.PackFixedBytes(d.MinB.Bytes())
	return p.Bytes()
}

// SwapAction is the message a trader signs.
type SwapAction struct {
	Pool  codec.Address `json:"pool"`
	To    codec.Address `json:"to"`
	BuyA  bool          `json:"buyA"`
	Out   int128.Int    `json:"out"`
	InMax int128.Int    `json:"inMax"`
}

func (s *SwapAction) Bytes() []byte {
	p := codec.NewWriter(maxActionSize, maxActionSize)
	p.PackByte(SwapActionID)
	p.PackAddress(s.Pool)
	p.PackAddress(s.To)
	p.PackBool(s.BuyA)
	p.PackFixedBytes(s.Out.Bytes())
	p.PackFixedBytes(s.InMax.Bytes())
	return p.Bytes()
}

// WithdrawAction is the message a liquidity provider signs.
type WithdrawAction struct {
	Pool   codec.Address `json:"pool"`
	To     codec.Address `json:"to"`
	Shares int128.Int    `json:"shares"`
	MinA   int128.Int    `json:"minA"`
	MinB   int128.Int    `json:"minB"`
}

func (w *WithdrawAction) Bytes() []byte {
	p := codec.NewWriter(maxActionSize, maxActionSize)
	p.PackByte(WithdrawActionID)
	p.PackAddress(w.Pool)
	p.PackAddress(w.To)
	p.PackFixedBytes(w.Shares.Bytes())
	p.PackFixedBytes(w.MinA.Bytes())
	p.PackFixedBytes(w.MinB.Bytes())
	return p.Bytes()
}
