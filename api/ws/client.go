// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/pubsub"
)

type WebSocketClient struct {
	conn *websocket.Conn

	maxMessageSize int

	l       sync.Mutex
	pending [][]byte
	wl      sync.Mutex
	cl      sync.Once
}

// NewWebSocketClient dials the event stream served under [uri].
func NewWebSocketClient(uri string, maxMessageSize int) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri = strings.Replace(uri, "http://", "ws://", 1)
	uri = strings.Replace(uri, "https://", "wss://", 1)
	if !strings.HasPrefix(uri, "ws") {
		uri = "ws://" + uri
	}
	uri += Endpoint

	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	// not using resp for now
	resp.Body.Close()
	conn.SetReadLimit(int64(maxMessageSize))
	return &WebSocketClient{conn: conn, maxMessageSize: maxMessageSize}, nil
}

// Subscribe limits the stream to [types]. Events of other types already in
// flight may still arrive.
func (c *WebSocketClient) Subscribe(types ...pool.EventType) error {
	msg := make([]byte, len(types))
	for i, t := range types {
		msg[i] = byte(t)
	}
	batch, err := pubsub.CreateBatchMessage(c.maxMessageSize, [][]byte{msg})
	if err != nil {
		return err
	}
	c.wl.Lock()
	defer c.wl.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, batch)
}

// ListenEvent returns the next pool event, in commit order.
func (c *WebSocketClient) ListenEvent(ctx context.Context) (*pool.Event, error) {
	c.l.Lock()
	defer c.l.Unlock()

	for len(c.pending) == 0 {
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Time{}
		}
		if err := c.conn.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		msgs, err := pubsub.ParseBatchMessage(c.maxMessageSize, msg)
		if err != nil {
			return nil, err
		}
		c.pending = msgs
	}
	msg := c.pending[0]
	c.pending = c.pending[1:]
	return pool.UnmarshalEvent(msg)
}

// Close closes the connection to the server.
func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		err = c.conn.Close()
	})
	return err
}
