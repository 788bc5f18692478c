// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"io"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Callback handles one message read from [Connection].
type Callback func([]byte, *Connection)

// Topic labels a published message. A connection receives the topics it
// subscribed to, or every topic until it subscribes to any.
type Topic uint8

// MaxTopic is the largest [Topic] a connection can subscribe to.
const MaxTopic Topic = 63

type Connection struct {
	s    *Server
	conn *websocket.Conn

	// outbound batches, drained by writePump
	mb *MessageBuffer

	active atomic.Bool
	// bit i set when subscribed to Topic(i)
	topics atomic.Uint64
}

// Subscribe adds [topics] to the set [c] receives. Topics above [MaxTopic]
// are rejected.
func (c *Connection) Subscribe(topics ...Topic) error {
	var mask uint64
	for _, t := range topics {
		if t > MaxTopic {
			return ErrUnknownTopic
		}
		mask |= 1 << t
	}
	for {
		old := c.topics.Load()
		if c.topics.CompareAndSwap(old, old|mask) {
			return nil
		}
	}
}

// Receives reports whether messages published on [topic] reach [c].
func (c *Connection) Receives(topic Topic) bool {
	mask := c.topics.Load()
	return mask == 0 || (topic <= MaxTopic && mask&(1<<topic) != 0)
}

func (c *Connection) deactivate() {
	if c.active.CompareAndSwap(true, false) {
		_ = c.mb.Close()
		if dropped := c.mb.Dropped(); dropped > 0 {
			c.s.log.Debug("connection fell behind",
				zap.Uint64("droppedBatches", dropped),
			)
		}
	}
}

// Send queues [msg] and reports whether it was accepted.
func (c *Connection) Send(msg []byte) bool {
	if !c.active.Load() {
		return false
	}
	if err := c.mb.Send(msg); err != nil {
		c.s.log.Debug("unable to send message", zap.Error(err))
		return false
	}
	return true
}

// close is run by both pumps when they exit, so one of the Close calls
// always errors.
func (c *Connection) close() {
	c.s.removeConnection(c)
	c.deactivate()
	_ = c.conn.Close()
}

func (c *Connection) extendReadDeadline() error {
	return c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait))
}

// readPump is the only reader of the connection.
func (c *Connection) readPump() {
	defer c.close()

	c.conn.SetReadLimit(int64(c.s.config.MaxReadMessageSize))
	if err := c.extendReadDeadline(); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error { return c.extendReadDeadline() })
	for {
		msgs, err := c.read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.s.log.Debug("unexpected close in websockets", zap.Error(err))
			}
			return
		}
		for _, msg := range msgs {
			c.s.callback(msg, c)
		}
	}
}

// read returns the next batch, or nothing when the server has no callback.
func (c *Connection) read() ([][]byte, error) {
	_, reader, err := c.conn.NextReader()
	if err != nil {
		return nil, err
	}
	if c.s.callback == nil {
		return nil, nil
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		c.s.log.Debug("unable to read websockets message", zap.Error(err))
		return nil, err
	}
	msgs, err := ParseBatchMessage(c.s.config.MaxReadMessageSize, b)
	if err != nil {
		c.s.log.Debug("unable to parse websockets message", zap.Error(err))
		return nil, err
	}
	return msgs, nil
}

// writePump is the only writer of the connection. It exits once the
// message buffer is closed.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.s.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		var (
			kind = websocket.PingMessage
			msg  []byte
		)
		select {
		case batch, ok := <-c.mb.Queue:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			kind, msg = websocket.BinaryMessage, batch
		case <-ticker.C:
		}
		if err := c.write(kind, msg); err != nil {
			c.s.log.Debug("closing the connection", zap.Int("kind", kind), zap.Error(err))
			return
		}
	}
}

func (c *Connection) write(kind int, msg []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(kind, msg)
}
