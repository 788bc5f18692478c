// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledTracer(t *testing.T) {
	require := require.New(t)

	tracer, err := New(&Config{Enabled: false, AppName: "cfmm"})
	require.NoError(err)
	ctx, span := tracer.Start(context.Background(), "Pool.Swap")
	require.NotNil(ctx)
	require.False(span.IsRecording())
	span.End()
	require.NoError(tracer.Close())

	_, span = Noop().Start(context.Background(), "Pool.Deposit")
	require.False(span.IsRecording())
}

func TestEnabledTracer(t *testing.T) {
	require := require.New(t)

	_, err := New(&Config{Enabled: true, TraceSampleRate: 2})
	require.ErrorIs(err, ErrInvalidSampleRate)

	tracer, err := New(&Config{Enabled: true, TraceSampleRate: 1, AppName: "cfmm"})
	require.NoError(err)
	_, span := tracer.Start(context.Background(), "Pool.Withdraw")
	require.True(span.IsRecording())
	span.End()
	require.NoError(tracer.Close())
}
