// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
)

// Connections is the set of live clients of a [Server].
type Connections struct {
	lock  sync.RWMutex
	conns set.Set[*Connection]
}

func NewConnections() *Connections {
	return &Connections{}
}

// Add returns false if [conn] was already present.
func (c *Connections) Add(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.conns.Contains(conn) {
		return false
	}
	c.conns.Add(conn)
	return true
}

// Remove returns false if [conn] was not present.
func (c *Connections) Remove(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.conns.Contains(conn) {
		return false
	}
	c.conns.Remove(conn)
	return true
}

func (c *Connections) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Len()
}

// All returns a snapshot of every connection.
func (c *Connections) All() []*Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.List()
}

// Subscribed returns a snapshot of the connections that receive [topic].
func (c *Connections) Subscribed(topic Topic) []*Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()

	conns := make([]*Connection, 0, c.conns.Len())
	for conn := range c.conns {
		if conn.Receives(topic) {
			conns = append(conns, conn)
		}
	}
	return conns
}
