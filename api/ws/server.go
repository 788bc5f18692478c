// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/cfmm/api"
	"github.com/ava-labs/cfmm/event"
	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/pubsub"
)

const Endpoint = "/poolws"

var (
	_ api.HandlerFactory[api.Backend]        = (*WebSocketServerFactory)(nil)
	_ event.SubscriptionFactory[*pool.Event] = (*WebSocketServer)(nil)
	_ event.Subscription[*pool.Event]        = (*WebSocketServer)(nil)
)

func NewWebSocketServerFactory(server *pubsub.Server) *WebSocketServerFactory {
	return &WebSocketServerFactory{
		handler: server,
	}
}

type WebSocketServerFactory struct {
	handler *pubsub.Server
}

func (w WebSocketServerFactory) New(api.Backend) (api.Handler, error) {
	return api.Handler{
		Path:    Endpoint,
		Handler: w.handler,
	}, nil
}

// WebSocketServer streams committed pool events to connected clients. A
// client that sends a list of [pool.EventType] bytes only receives those
// types from then on.
type WebSocketServer struct {
	log logging.Logger
	s   *pubsub.Server
}

func NewWebSocketServer(log logging.Logger, config pubsub.ServerConfig) (*WebSocketServer, *pubsub.Server) {
	w := &WebSocketServer{log: log}
	w.s = pubsub.New(log, config, w.subscribe)
	return w, w.s
}

func (w *WebSocketServer) subscribe(msg []byte, c *pubsub.Connection) {
	topics := make([]pubsub.Topic, 0, len(msg))
	for _, b := range msg {
		if t := pool.EventType(b); !t.Valid() {
			w.log.Debug("ignoring subscription", zap.Stringer("type", t))
			return
		}
		topics = append(topics, pubsub.Topic(b))
	}
	if err := c.Subscribe(topics...); err != nil {
		w.log.Debug("failed to subscribe", zap.Error(err))
	}
}

func (w *WebSocketServer) New() (event.Subscription[*pool.Event], error) {
	return w, nil
}

func (w *WebSocketServer) Accept(_ context.Context, e *pool.Event) error {
	b, err := e.Marshal()
	if err != nil {
		return err
	}
	w.log.Debug("broadcasting pool event",
		zap.Stringer("type", e.Type),
		zap.Int("connections", w.s.Connections().Len()),
	)
	w.s.Publish(pubsub.Topic(e.Type), b)
	return nil
}

func (w *WebSocketServer) Close() error {
	w.s.Close()
	return nil
}
