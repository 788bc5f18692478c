// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var _ http.Handler = (*Server)(nil)

// Server maintains the set of active clients and sends messages to the clients.
//
// Mount the server on an HTTP route and connect with websocket.DefaultDialer.Dial().
type Server struct {
	log      logging.Logger
	config   ServerConfig
	upgrader websocket.Upgrader
	// conns a set of all our connections
	conns *Connections
	// Callback function when server receives a message
	callback Callback
}

// New returns a new Server instance. The callback function [f] is called
// by the server in response to messages if not nil.
func New(log logging.Logger, config ServerConfig, f Callback) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns:    NewConnections(),
		callback: f,
	}
}

// ServeHTTP adds a connection to the server, and starts go routines for
// reading and writing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// No need to set any headers so we pass nil as the last argument.
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	s.addConnection(&Connection{
		s:    s,
		conn: wsConn,
		mb: NewMessageBuffer(
			s.log,
			s.config.MaxPendingMessages,
			s.config.TargetWriteMessageSize,
			s.config.MaxWriteMessageSize,
			s.config.MaxMessageWait,
		),
	})
}

// Publish sends [msg] to every connection that receives [topic].
func (s *Server) Publish(topic Topic, msg []byte) {
	s.send(msg, s.conns.Subscribed(topic))
}

// Broadcast sends [msg] to every connection regardless of subscriptions.
func (s *Server) Broadcast(msg []byte) {
	s.send(msg, s.conns.All())
}

func (s *Server) send(msg []byte, conns []*Connection) {
	for _, conn := range conns {
		if !conn.Send(msg) {
			s.log.Verbo("dropping message to subscribed connection due to too many pending messages")
		}
	}
}

// Connections returns the live connection set.
func (s *Server) Connections() *Connections {
	return s.conns
}

// Close flushes and closes every connection.
func (s *Server) Close() {
	for _, conn := range s.conns.All() {
		s.removeConnection(conn)
		conn.deactivate()
	}
}

// addConnection adds [conn] to the servers connection set and starts go
// routines for reading and writing messages for the connection.
func (s *Server) addConnection(conn *Connection) {
	conn.active.Store(true)
	s.conns.Add(conn)

	go conn.writePump()
	go conn.readPump()
}

// removeConnection removes [conn] from the servers connection set.
func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
}
