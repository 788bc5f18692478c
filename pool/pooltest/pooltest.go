// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pooltest builds in-memory pools for tests.
package pooltest

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/event"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/storage"
	"github.com/ava-labs/cfmm/token"
	"github.com/ava-labs/cfmm/trace"
)

var (
	TokenA = codec.CreateAddress(consts.TokenID, ids.ID{0x01})
	TokenB = codec.CreateAddress(consts.TokenID, ids.ID{0x02})

	// Minter administers TokenA and TokenB.
	Minter = codec.CreateAddress(consts.ED25519ID, ids.ID{0xff})
)

type options struct {
	config        pool.Config
	wrap          func(token.Factory) token.Factory
	uninitialized bool
	subs          []event.SubscriptionFactory[*pool.Event]
}

type Option func(*options)

func WithConfig(config pool.Config) Option {
	return func(o *options) {
		o.config = config
	}
}

// WithTokens wraps the ledger factory, for example to inject faults.
func WithTokens(wrap func(token.Factory) token.Factory) Option {
	return func(o *options) {
		o.wrap = wrap
	}
}

// WithSubscriptions attaches extra event sinks after the recorder.
func WithSubscriptions(factories ...event.SubscriptionFactory[*pool.Event]) Option {
	return func(o *options) {
		o.subs = append(o.subs, factories...)
	}
}

// Uninitialized skips [pool.Pool.Initialize].
func Uninitialized() Option {
	return func(o *options) {
		o.uninitialized = true
	}
}

type TestPool struct {
	*pool.Pool

	DB     *state.Memory
	Events *event.Recorder[*pool.Event]
}

// NewTestPool returns a pool trading [TokenA] for [TokenB] over an empty
// in-memory store. Both tokens exist with zero supply.
func NewTestPool(t require.TestingT, opts ...Option) *TestPool {
	require := require.New(t)
	ctx := context.Background()

	o := &options{config: pool.NewDefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}

	db := state.NewMemory()
	require.NoError(token.NewLedger(db, TokenA, Minter).Initialize(ctx, Minter, 0, "Token A", "TKA"))
	require.NoError(token.NewLedger(db, TokenB, Minter).Initialize(ctx, Minter, 0, "Token B", "TKB"))

	var tokens token.Factory = token.NewLedger
	if o.wrap != nil {
		tokens = o.wrap(tokens)
	}
	addr, err := storage.PoolAddress(TokenA, TokenB)
	require.NoError(err)

	recorder := event.NewRecorder[*pool.Event]()
	p, err := pool.New(
		logging.NoLog{},
		trace.Noop(),
		prometheus.NewRegistry(),
		db,
		tokens,
		addr,
		o.config,
		append([]event.SubscriptionFactory[*pool.Event]{recorder}, o.subs...)...,
	)
	require.NoError(err)
	if !o.uninitialized {
		require.NoError(p.Initialize(ctx, TokenA, TokenB))
	}
	return &TestPool{Pool: p, DB: db, Events: recorder}
}

// Fund mints [a] of TokenA and [b] of TokenB to [account].
func (tp *TestPool) Fund(t require.TestingT, account codec.Address, a int128.Int, b int128.Int) {
	require := require.New(t)
	ctx := context.Background()

	if a.IsPositive() {
		require.NoError(token.NewLedger(tp.DB, TokenA, Minter).Mint(ctx, account, a))
	}
	if b.IsPositive() {
		require.NoError(token.NewLedger(tp.DB, TokenB, Minter).Mint(ctx, account, b))
	}
}

func (tp *TestPool) BalanceOf(t require.TestingT, tokenAddr codec.Address, account codec.Address) int128.Int {
	balance, err := tp.Balance(context.Background(), tokenAddr, account)
	require.NoError(t, err)
	return balance
}

func (tp *TestPool) Shares(t require.TestingT, account codec.Address) int128.Int {
	share, err := tp.ShareToken(context.Background())
	require.NoError(t, err)
	return tp.BalanceOf(t, share, account)
}

// RequireState checks reserves and total shares.
func (tp *TestPool) RequireState(t require.TestingT, reserveA int128.Int, reserveB int128.Int, totalShares int128.Int) {
	require := require.New(t)
	ctx := context.Background()

	a, b, err := tp.Reserves(ctx)
	require.NoError(err)
	require.Equal(reserveA.String(), a.String(), "reserve a")
	require.Equal(reserveB.String(), b.String(), "reserve b")
	total, err := tp.TotalShares(ctx)
	require.NoError(err)
	require.Equal(totalShares.String(), total.String(), "total shares")
}

// RequireInvariants checks that reserves mirror custody, that the share
// supply matches total shares and the balances of [holders] plus the
// locked minimum, and that the pool is empty exactly when no shares exist.
func (tp *TestPool) RequireInvariants(t require.TestingT, holders ...codec.Address) {
	require := require.New(t)
	ctx := context.Background()

	a, b, err := tp.Reserves(ctx)
	require.NoError(err)
	total, err := tp.TotalShares(ctx)
	require.NoError(err)

	require.False(a.IsNegative() || b.IsNegative() || total.IsNegative())
	require.Equal(a.String(), tp.BalanceOf(t, TokenA, tp.Address()).String(), "custody a")
	require.Equal(b.String(), tp.BalanceOf(t, TokenB, tp.Address()).String(), "custody b")
	require.Equal(total.IsZero(), a.IsZero() && b.IsZero(), "empty iff no shares")

	share, err := tp.ShareToken(ctx)
	require.NoError(err)
	supply, err := token.NewLedger(tp.DB, share, tp.Address()).TotalSupply(ctx)
	require.NoError(err)
	require.Equal(total.String(), supply.String(), "share supply")

	sum := tp.Shares(t, codec.EmptyAddress)
	for _, h := range holders {
		sum, err = int128.CheckedAdd(sum, tp.Shares(t, h))
		require.NoError(err)
	}
	require.Equal(total.String(), sum.String(), "sum of holder shares")
}
