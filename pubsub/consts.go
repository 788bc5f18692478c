// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/units"
)

const (
	readBufferSize         = units.KiB
	writeBufferSize        = units.KiB
	writeWait              = 10 * time.Second
	pongWait               = 60 * time.Second
	pingPeriod             = (pongWait * 9) / 10
	maxPendingMessages     = 1024
	maxReadMessageSize     = 4 * units.KiB
	maxWriteMessageSize    = 256 * units.KiB
	targetWriteMessageSize = 16 * units.KiB
	maxMessageWait         = 10 * time.Millisecond
)

type ServerConfig struct {
	// Size of the ws read buffer
	ReadBufferSize int `json:"readBufferSize"`
	// Size of the ws write buffer
	WriteBufferSize int `json:"writeBufferSize"`

	// Time allowed to write a message to the peer.
	WriteWait time.Duration `json:"writeWait"`
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration `json:"pongWait"`
	// Send pings to peer with this period. Must be less than pongWait.
	PingPeriod time.Duration `json:"pingPeriod"`

	// Maximum number of batches queued for a peer before new ones are dropped.
	MaxPendingMessages int `json:"maxPendingMessages"`
	// Maximum message size in bytes allowed from peer.
	MaxReadMessageSize int `json:"maxReadMessageSize"`
	// Maximum size of a single published message.
	MaxWriteMessageSize int `json:"maxWriteMessageSize"`
	// Pending messages are flushed as a batch once they reach this size...
	TargetWriteMessageSize int `json:"targetWriteMessageSize"`
	// ...or once the first of them has waited this long.
	MaxMessageWait time.Duration `json:"maxMessageWait"`
}

func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadBufferSize:         readBufferSize,
		WriteBufferSize:        writeBufferSize,
		WriteWait:              writeWait,
		PongWait:               pongWait,
		PingPeriod:             pingPeriod,
		MaxPendingMessages:     maxPendingMessages,
		MaxReadMessageSize:     maxReadMessageSize,
		MaxWriteMessageSize:    maxWriteMessageSize,
		TargetWriteMessageSize: targetWriteMessageSize,
		MaxMessageWait:         maxMessageWait,
	}
}
