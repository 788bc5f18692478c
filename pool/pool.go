// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pool implements a two token constant product liquidity pool.
//
// Every mutating operation runs against a fresh [tstate.TStateView] over the
// pool's store, scoped to the keys the operation declares. The view is committed and flushed only when the operation
// succeeds, so a failure at any step leaves reserves, shares, balances and
// the event log untouched.
package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/cfmm/auth"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/event"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/storage"
	"github.com/ava-labs/cfmm/token"
	"github.com/ava-labs/cfmm/tstate"

	oteltrace "go.opentelemetry.io/otel/trace"
)

const changedKeysHint = 16

type Config struct {
	// MinimumLiquidity shares are minted to [codec.EmptyAddress] by the
	// first deposit and can never be withdrawn. Zero disables the lock.
	MinimumLiquidity int128.Int `json:"minimumLiquidity" yaml:"minimum_liquidity"`
}

func NewDefaultConfig() Config {
	return Config{MinimumLiquidity: int128.Zero}
}

type Pool struct {
	addr   codec.Address
	config Config

	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics

	// serializes operations and keeps reads consistent with flushes
	l      sync.RWMutex
	db     state.Mutable
	tokens token.Factory
	shares *ShareController

	subs []event.Subscription[*Event]
}

// New returns the pool at [addr] over [db]. Committed events are delivered
// to one subscription per factory.
func New(
	log logging.Logger,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
	db state.Mutable,
	tokens token.Factory,
	addr codec.Address,
	config Config,
	factories ...event.SubscriptionFactory[*Event],
) (*Pool, error) {
	if config.MinimumLiquidity.IsNegative() {
		return nil, fmt.Errorf("%w: negative minimum liquidity", ErrZeroAmount)
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	subs, err := event.NewAll(factories...)
	if err != nil {
		return nil, err
	}
	return &Pool{
		addr:    addr,
		config:  config,
		log:     log,
		tracer:  tracer,
		metrics: m,
		db:      db,
		tokens:  tokens,
		shares:  NewShareController(tokens, addr),
		subs:    subs,
	}, nil
}

func (p *Pool) Address() codec.Address {
	return p.addr
}

// Close releases every subscription.
func (p *Pool) Close() error {
	p.l.Lock()
	defer p.l.Unlock()

	return event.CloseAll(p.subs...)
}

type operation func(ctx context.Context, view *tstate.TStateView) (*Event, error)

// execute runs [f] as a single atomic unit on behalf of [accounts]. The view
// handed to [f] is scoped to the keys returned by [Pool.scope].
func (p *Pool) execute(ctx context.Context, name string, accounts []codec.Address, f operation, attrs ...attribute.KeyValue) error {
	p.l.Lock()
	defer p.l.Unlock()

	ctx, span := p.tracer.Start(ctx, "Pool."+name, oteltrace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	defer func() {
		p.metrics.latency.Observe(float64(time.Since(start)))
	}()

	ts := tstate.New(p.db, changedKeysHint)
	view := ts.NewView(p.scope(ctx, accounts...))
	e, err := f(ctx, view)
	if err != nil {
		view.Rollback(ctx, 0)
		span.RecordError(err)
		p.metrics.operations.WithLabelValues(name, failed).Inc()
		p.log.Debug("pool operation failed",
			zap.String("op", name),
			zap.Stringer("pool", p.addr),
			zap.Error(err),
		)
		return err
	}
	view.Commit()
	if err := p.flush(ctx, ts); err != nil {
		p.log.Error("unable to persist pool operation",
			zap.String("op", name),
			zap.Error(err),
		)
		return err
	}
	p.metrics.operations.WithLabelValues(name, succeeded).Inc()
	p.observe(ctx)
	p.log.Debug("pool operation committed",
		zap.String("op", name),
		zap.Stringer("pool", p.addr),
	)

	if e == nil {
		return nil
	}
	e.Pool = p.addr
	if err := event.NotifyAll(ctx, e, p.subs...); err != nil {
		// The operation is already durable.
		p.log.Warn("unable to deliver pool event",
			zap.Stringer("type", e.Type),
			zap.Error(err),
		)
	}
	return nil
}

// scope returns every key an operation on behalf of [accounts] may touch:
// the pool slots, the share token and, once the pool is initialized, the
// records of both traded tokens. Balances are declared for [accounts], the
// pool itself and [codec.EmptyAddress], which holds locked shares.
func (p *Pool) scope(ctx context.Context, accounts ...codec.Address) state.Keys {
	ks := storage.PoolKeys(p.addr, state.All)
	share := p.shares.Address()
	ks.Add(string(storage.TokenInfoKey(share)), state.All)

	tokens := []codec.Address{share}
	if tokenA, err := storage.GetTokenA(ctx, p.db, p.addr); err == nil {
		ks.Add(string(storage.TokenInfoKey(tokenA)), state.Read)
		tokens = append(tokens, tokenA)
	}
	if tokenB, err := storage.GetTokenB(ctx, p.db, p.addr); err == nil {
		ks.Add(string(storage.TokenInfoKey(tokenB)), state.Read)
		tokens = append(tokens, tokenB)
	}
	holders := append([]codec.Address{p.addr, codec.EmptyAddress}, accounts...)
	for _, tok := range tokens {
		for _, holder := range holders {
			ks.Add(string(storage.TokenBalanceKey(tok, holder)), state.All)
		}
	}
	return ks
}

func (p *Pool) flush(ctx context.Context, ts *tstate.TState) error {
	batcher, ok := p.db.(state.Batcher)
	if !ok {
		return ts.Flush(ctx, p.db)
	}
	batch := batcher.NewBatch()
	if err := ts.Flush(ctx, batch); err != nil {
		return err
	}
	return batch.Write()
}

func (p *Pool) observe(ctx context.Context) {
	s, err := p.load(ctx, p.db)
	if err != nil {
		return
	}
	p.metrics.reserveA.Set(s.reserveA.Float64())
	p.metrics.reserveB.Set(s.reserveB.Float64())
	p.metrics.totalShares.Set(s.totalShares.Float64())
}

// authorize checks that [actor] speaks for [to] and signed [msg].
func authorize(ctx context.Context, actor auth.Auth, to codec.Address, msg []byte) error {
	if actor == nil {
		return fmt.Errorf("%w: missing credential", ErrUnauthorized)
	}
	if actor.Actor() != to {
		return fmt.Errorf("%w: %s cannot act for %s", ErrUnauthorized, actor.Actor(), to)
	}
	if err := actor.Verify(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}

// Initialize configures the pool to trade [tokenA] against [tokenB] and
// creates its share token.
func (p *Pool) Initialize(ctx context.Context, tokenA codec.Address, tokenB codec.Address) error {
	return p.execute(ctx, "Initialize", nil, func(ctx context.Context, view *tstate.TStateView) (*Event, error) {
		if tokenA.Compare(tokenB) >= 0 {
			return nil, ErrTokenOrder
		}
		initialized, err := storage.IsInitialized(ctx, view, p.addr)
		if err != nil {
			return nil, err
		}
		if initialized {
			return nil, ErrAlreadyInitialized
		}
		if err := p.shares.Initialize(ctx, view); err != nil {
			return nil, fmt.Errorf("%w: share token: %w", ErrAlreadyInitialized, err)
		}
		if err := storage.SetTokenA(ctx, view, p.addr, tokenA); err != nil {
			return nil, err
		}
		if err := storage.SetTokenB(ctx, view, p.addr, tokenB); err != nil {
			return nil, err
		}
		if err := storage.SetTokenShare(ctx, view, p.addr, p.shares.Address()); err != nil {
			return nil, err
		}
		if err := storage.SetTotalShares(ctx, view, p.addr, int128.Zero); err != nil {
			return nil, err
		}
		if err := storage.SetReserveA(ctx, view, p.addr, int128.Zero); err != nil {
			return nil, err
		}
		return nil, storage.SetReserveB(ctx, view, p.addr, int128.Zero)
	},
		attribute.Stringer("tokenA", tokenA),
		attribute.Stringer("tokenB", tokenB),
	)
}
