// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pooltest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cfmm/auth/authtest"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pool"
)

// Operation is a single pool call. The output is the operation's result,
// or nil for operations without one.
type Operation func(ctx context.Context, p *pool.Pool) (any, error)

// Deposit deposits on behalf of [to] with a credential that always verifies.
func Deposit(to codec.Address, desiredA, minA, desiredB, minB int128.Int) Operation {
	return func(ctx context.Context, p *pool.Pool) (any, error) {
		return p.Deposit(ctx, authtest.Direct(to), to, desiredA, minA, desiredB, minB)
	}
}

func Swap(to codec.Address, buyA bool, out, inMax int128.Int) Operation {
	return func(ctx context.Context, p *pool.Pool) (any, error) {
		return p.Swap(ctx, authtest.Direct(to), to, buyA, out, inMax)
	}
}

func Withdraw(to codec.Address, shares, minA, minB int128.Int) Operation {
	return func(ctx context.Context, p *pool.Pool) (any, error) {
		return p.Withdraw(ctx, authtest.Direct(to), to, shares, minA, minB)
	}
}

func Initialize(tokenA, tokenB codec.Address) Operation {
	return func(ctx context.Context, p *pool.Pool) (any, error) {
		return nil, p.Initialize(ctx, tokenA, tokenB)
	}
}

// OperationTest is a single parameterized test. It runs Operation against
// Pool and checks the output, error and assertions.
type OperationTest struct {
	Name string

	Pool      *TestPool
	Operation Operation

	ExpectedOutput any
	ExpectedErr    error

	Assertion func(context.Context, *testing.T, *TestPool)
}

// Run executes the [OperationTest] and makes sure all assertions pass.
func (test *OperationTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		events := test.Pool.Events.Len()
		output, err := test.Operation(ctx, test.Pool.Pool)

		require.ErrorIs(err, test.ExpectedErr)
		if test.ExpectedErr != nil {
			require.Equal(events, test.Pool.Events.Len(), "failed operations emit no events")
		} else if test.ExpectedOutput != nil {
			require.Equal(test.ExpectedOutput, output)
		}

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.Pool)
		}
	})
}

// OperationBenchmark runs Operation against a fresh pool per iteration.
type OperationBenchmark struct {
	Name string

	CreatePool func(b *testing.B) *TestPool
	Operation  Operation

	ExpectedErr error
}

func (test *OperationBenchmark) Run(ctx context.Context, b *testing.B) {
	require := require.New(b)

	pools := make([]*TestPool, b.N)
	for i := 0; i < b.N; i++ {
		pools[i] = test.CreatePool(b)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := test.Operation(ctx, pools[i].Pool)
		require.ErrorIs(err, test.ExpectedErr)
	}
}
