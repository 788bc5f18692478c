// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node serves a single pool over HTTP.
package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ava-labs/cfmm/api"
	"github.com/ava-labs/cfmm/api/jsonrpc"
	"github.com/ava-labs/cfmm/api/ws"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/config"
	"github.com/ava-labs/cfmm/event"
	"github.com/ava-labs/cfmm/genesis"
	"github.com/ava-labs/cfmm/pebble"
	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/pubsub"
	"github.com/ava-labs/cfmm/server"
	"github.com/ava-labs/cfmm/storage"
	"github.com/ava-labs/cfmm/token"
)

const (
	baseURL         = "/ext"
	dbNamespace     = "db"
	MetricsEndpoint = "/metrics"
)

var _ api.Backend = (*Node)(nil)

type Node struct {
	config *config.Config
	log    logging.Logger
	tracer trace.Tracer

	db      *pebble.Database
	pool    *pool.Pool
	streams *pubsub.Server
	server  server.Server
}

// New opens the database under the configured data directory, applies
// [g] the first time it is opened and registers every API route. The
// node does not accept requests until [Node.Dispatch] is called.
func New(
	ctx context.Context,
	log logging.Logger,
	tracer trace.Tracer,
	cfg *config.Config,
	g *genesis.Genesis,
) (*Node, error) {
	poolAddr, err := g.PoolAddress()
	if err != nil {
		return nil, err
	}
	db, dbRegistry, err := storage.New(cfg.GetDatabaseConfig(), cfg.DataDir, dbNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	n := &Node{
		config: cfg,
		log:    log,
		tracer: tracer,
		db:     db,
	}
	if err := n.init(ctx, g, poolAddr, dbRegistry); err != nil {
		_ = n.close()
		return nil, err
	}
	return n, nil
}

func (n *Node) init(ctx context.Context, g *genesis.Genesis, poolAddr codec.Address, dbRegistry *prometheus.Registry) error {
	if err := n.loadGenesis(ctx, g, poolAddr); err != nil {
		return err
	}

	var (
		registry  = prometheus.NewRegistry()
		factories []event.SubscriptionFactory[*pool.Event]
		handlers  = []api.HandlerFactory[api.Backend]{jsonrpc.JSONRPCServerFactory{}}
	)
	if n.config.StreamingEnabled {
		wsServer, pubsubServer := ws.NewWebSocketServer(n.log, n.config.GetStreamingConfig())
		n.streams = pubsubServer
		factories = append(factories, wsServer)
		handlers = append(handlers, ws.NewWebSocketServerFactory(pubsubServer))
	}
	p, err := pool.New(n.log, n.tracer, registry, n.db, token.NewLedger, poolAddr, n.config.GetPoolConfig(), factories...)
	if err != nil {
		return err
	}
	n.pool = p

	listener, err := net.Listen("tcp", n.config.GetHTTPAddress())
	if err != nil {
		return fmt.Errorf("cannot create listener: %w", err)
	}
	n.server, err = server.New(
		baseURL,
		n.log,
		listener,
		n.config.GetHTTPConfig(),
		n.config.AllowedOrigins,
		n.config.AllowedHosts,
		n.config.ShutdownTimeout,
	)
	if err != nil {
		_ = listener.Close()
		return err
	}
	for _, factory := range handlers {
		h, err := factory.New(n)
		if err != nil {
			return err
		}
		if err := n.server.AddRoute(h.Handler, api.Name, h.Path); err != nil {
			return err
		}
	}
	gatherer := prometheus.Gatherers{registry, dbRegistry}
	if err := n.server.AddRoute(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), api.Name, MetricsEndpoint); err != nil {
		return err
	}
	n.log.Info("node ready",
		zap.Stringer("pool", poolAddr),
		zap.Strings("routes", n.server.Routes()),
	)
	return nil
}

// loadGenesis writes the genesis tokens and the empty pool in one batch
// unless the database already holds the pool.
func (n *Node) loadGenesis(ctx context.Context, g *genesis.Genesis, poolAddr codec.Address) error {
	initialized, err := storage.IsInitialized(ctx, n.db, poolAddr)
	if err != nil {
		return err
	}
	if initialized {
		n.log.Info("loaded pool", zap.Stringer("pool", poolAddr))
		return nil
	}

	tokenA, tokenB := g.Pair()

	batch := n.db.NewBatch()
	if err := g.InitializeState(ctx, n.tracer, batch); err != nil {
		return fmt.Errorf("failed to apply genesis: %w", err)
	}
	genesisPool, err := pool.New(n.log, n.tracer, prometheus.NewRegistry(), batch, token.NewLedger, poolAddr, n.config.GetPoolConfig())
	if err != nil {
		return err
	}
	if err := genesisPool.Initialize(ctx, tokenA, tokenB); err != nil {
		return fmt.Errorf("failed to initialize pool: %w", err)
	}
	if err := batch.Write(); err != nil {
		return err
	}
	n.log.Info("initialized pool",
		zap.Stringer("pool", poolAddr),
		zap.Stringer("tokenA", tokenA),
		zap.Stringer("tokenB", tokenB),
	)
	return nil
}

func (n *Node) Tracer() trace.Tracer {
	return n.tracer
}

func (n *Node) Logger() logging.Logger {
	return n.log
}

func (n *Node) Pool() api.Pool {
	return n.pool
}

func (n *Node) Addr() net.Addr {
	return n.server.Addr()
}

// URI is the base every API endpoint of this node is served under.
func (n *Node) URI() string {
	return fmt.Sprintf("http://%s%s/%s", n.server.Addr(), baseURL, api.Name)
}

// Dispatch serves requests until [Node.Shutdown] is called.
func (n *Node) Dispatch() error {
	n.log.Info("serving pool", zap.String("uri", n.URI()))
	err := n.server.Dispatch()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server, then closes every stream and the database.
func (n *Node) Shutdown() error {
	var errs []error
	if n.server != nil {
		errs = append(errs, n.server.Shutdown())
	}
	errs = append(errs, n.close())
	return errors.Join(errs...)
}

func (n *Node) close() error {
	var errs []error
	if n.pool != nil {
		errs = append(errs, n.pool.Close())
	}
	errs = append(errs, n.db.Close())
	return errors.Join(errs...)
}
