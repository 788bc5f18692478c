// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"errors"
	"fmt"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/int128"
)

var (
	ErrUnknownEvent = errors.New("unknown event type")
	ErrCorruptEvent = errors.New("corrupt event")
)

type EventType uint8

const (
	DepositEventType EventType = iota
	SwapEventType
	WithdrawEventType
)

func (e EventType) Valid() bool {
	return e <= WithdrawEventType
}

func (e EventType) String() string {
	switch e {
	case DepositEventType:
		return "deposit"
	case SwapEventType:
		return "swap"
	case WithdrawEventType:
		return "withdraw"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(e))
	}
}

const maxEventSize = consts.ByteLen + 2*codec.AddressLen + consts.BoolLen + 3*consts.Int128Len

type DepositEvent struct {
	Caller  codec.Address `json:"caller"`
	AmountA int128.Int    `json:"amountA"`
	AmountB int128.Int    `json:"amountB"`
}

type SwapEvent struct {
	Caller    codec.Address `json:"caller"`
	BuyA      bool          `json:"buyA"`
	AmountIn  int128.Int    `json:"amountIn"`
	AmountOut int128.Int    `json:"amountOut"`
}

type WithdrawEvent struct {
	Caller  codec.Address `json:"caller"`
	Shares  int128.Int    `json:"shares"`
	AmountA int128.Int    `json:"amountA"`
	AmountB int128.Int    `json:"amountB"`
}

// Event is a committed pool operation. Exactly one of Deposit, Swap and
// Withdraw is set, matching Type.
type Event struct {
	Type EventType     `json:"type"`
	Pool codec.Address `json:"pool"`

	Deposit  *DepositEvent  `json:"deposit,omitempty"`
	Swap     *SwapEvent     `json:"swap,omitempty"`
	Withdraw *WithdrawEvent `json:"withdraw,omitempty"`
}

func (e *Event) Caller() codec.Address {
	switch e.Type {
	case DepositEventType:
		return e.Deposit.Caller
	case SwapEventType:
		return e.Swap.Caller
	case WithdrawEventType:
		return e.Withdraw.Caller
	default:
		return codec.EmptyAddress
	}
}

func (e *Event) Marshal() ([]byte, error) {
	p := codec.NewWriter(maxEventSize, maxEventSize)
	p.PackByte(byte(e.Type))
	p.PackAddress(e.Pool)
	switch e.Type {
	case DepositEventType:
		p.PackAddress(e.Deposit.Caller)
		p.PackFixedBytes(e.Deposit.AmountA.Bytes())
		p.PackFixedBytes(e.Deposit.AmountB.Bytes())
	case SwapEventType:
		p.PackAddress(e.Swap.Caller)
		p.PackBool(e.Swap.BuyA)
		p.PackFixedBytes(e.Swap.AmountIn.Bytes())
		p.PackFixedBytes(e.Swap.AmountOut.Bytes())
	case WithdrawEventType:
		p.PackAddress(e.Withdraw.Caller)
		p.PackFixedBytes(e.Withdraw.Shares.Bytes())
		p.PackFixedBytes(e.Withdraw.AmountA.Bytes())
		p.PackFixedBytes(e.Withdraw.AmountB.Bytes())
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownEvent, e.Type)
	}
	return p.Bytes(), p.Err()
}

func UnmarshalEvent(b []byte) (*Event, error) {
	var (
		e       Event
		caller  codec.Address
		amounts [3][]byte
		buyA    bool
		n       int
	)
	p := codec.NewReader(b, maxEventSize)
	e.Type = EventType(p.UnpackByte())
	p.UnpackAddress(false, &e.Pool)
	p.UnpackAddress(true, &caller)
	switch e.Type {
	case DepositEventType:
		n = 2
	case SwapEventType:
		buyA = p.UnpackBool()
		n = 2
	case WithdrawEventType:
		n = 3
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownEvent, e.Type)
	}
	for i := 0; i < n; i++ {
		p.UnpackFixedBytes(consts.Int128Len, &amounts[i])
	}
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptEvent, err)
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: trailing bytes", ErrCorruptEvent)
	}
	values := make([]int128.Int, n)
	for i := 0; i < n; i++ {
		v, err := int128.FromBytes(amounts[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptEvent, err)
		}
		values[i] = v
	}
	switch e.Type {
	case DepositEventType:
		e.Deposit = &DepositEvent{Caller: caller, AmountA: values[0], AmountB: values[1]}
	case SwapEventType:
		e.Swap = &SwapEvent{Caller: caller, BuyA: buyA, AmountIn: values[0], AmountOut: values[1]}
	case WithdrawEventType:
		e.Withdraw = &WithdrawEvent{Caller: caller, Shares: values[0], AmountA: values[1], AmountB: values[2]}
	}
	return &e, nil
}
