// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ava-labs/cfmm/consts"
)

// MessageBuffer coalesces messages into batches. A batch is queued once it
// would grow past the target size or once its first message has waited
// [timeout]. Batches that find [Queue] full are dropped and counted.
type MessageBuffer struct {
	Queue chan []byte

	log        logging.Logger
	targetSize int
	maxSize    int
	timeout    time.Duration
	flushTimer *timer.Timer
	dropped    atomic.Uint64

	l      sync.Mutex
	batch  [][]byte
	size   int
	closed bool
}

func NewMessageBuffer(log logging.Logger, pending int, targetSize int, maxSize int, timeout time.Duration) *MessageBuffer {
	m := &MessageBuffer{
		Queue:      make(chan []byte, pending),
		log:        log,
		targetSize: targetSize,
		maxSize:    maxSize,
		timeout:    timeout,
	}
	m.flushTimer = timer.NewTimer(m.onTimeout)
	go m.flushTimer.Dispatch()
	return m
}

func (m *MessageBuffer) onTimeout() {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return
	}
	m.flush("timeout")
}

// Send adds [msg] to the current batch.
func (m *MessageBuffer) Send(msg []byte) error {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return ErrClosed
	}
	// each message carries a length prefix inside a batch
	n := consts.IntLen + len(msg)
	if n > m.targetSize {
		return ErrMessageTooLarge
	}
	if m.size+n > m.targetSize {
		m.flushTimer.Cancel()
		m.flush("size")
	}
	m.batch = append(m.batch, msg)
	m.size += n
	if len(m.batch) == 1 {
		m.flushTimer.SetTimeoutIn(m.timeout)
	}
	return nil
}

// Dropped returns how many batches were discarded because the peer fell
// behind.
func (m *MessageBuffer) Dropped() uint64 {
	return m.dropped.Load()
}

// Close queues whatever is pending and closes [Queue]. The caller must
// drain [Queue] to deliver the final batch.
func (m *MessageBuffer) Close() error {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.flush("close")
	m.flushTimer.Stop()
	m.closed = true
	close(m.Queue)
	return nil
}

// flush assumes [m.l] is held.
func (m *MessageBuffer) flush(reason string) {
	if len(m.batch) == 0 {
		return
	}
	count := len(m.batch)
	defer func() {
		m.batch = nil
		m.size = 0
	}()

	b, err := CreateBatchMessage(m.maxSize, m.batch)
	if err != nil {
		m.log.Warn("unable to create batch message", zap.Error(err))
		return
	}
	select {
	case m.Queue <- b:
		m.log.Debug("queued batch",
			zap.String("reason", reason),
			zap.Int("count", count),
		)
	default:
		m.dropped.Inc()
		m.log.Debug("dropped batch",
			zap.String("reason", reason),
			zap.Int("count", count),
		)
	}
}
