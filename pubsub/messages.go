// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"fmt"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
)

// CreateBatchMessage packs [msgs] as a count followed by each length-prefixed
// message.
func CreateBatchMessage(maxSize int, msgs [][]byte) ([]byte, error) {
	size := consts.Uint64Len
	for _, msg := range msgs {
		size += consts.IntLen + len(msg)
	}
	p := codec.NewWriter(size, maxSize)
	p.PackUint64(uint64(len(msgs)))
	for _, msg := range msgs {
		p.PackBytes(msg)
	}
	return p.Bytes(), p.Err()
}

func ParseBatchMessage(maxSize int, msg []byte) ([][]byte, error) {
	if len(msg) > maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(msg), maxSize)
	}
	p := codec.NewReader(msg, maxSize)
	count := p.UnpackUint64(false)
	// each message carries at least a length prefix
	if count > uint64(len(msg)/consts.IntLen) {
		return nil, fmt.Errorf("%w: %d", ErrTooManyMessages, count)
	}
	msgs := make([][]byte, 0, count)
	for i := uint64(0); i < count; i++ {
		var m []byte
		p.UnpackBytes(-1, false, &m)
		msgs = append(msgs, m)
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %d trailing bytes", codec.ErrTooLarge, len(msg)-p.Offset())
	}
	return msgs, nil
}
