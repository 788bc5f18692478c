// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"strings"
	"sync"

	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/cfmm/api"
	"github.com/ava-labs/cfmm/auth"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pool"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester

	l    sync.Mutex
	pool *PoolReply
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, params interface{}, reply interface{}) error {
	return cli.requester.SendRequest(ctx, api.Name+"."+method, params, reply)
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx,
		"ping",
		struct{}{},
		resp,
	)
	return resp.Success, err
}

// Pool returns the pool address and its tokens. The first successful
// response is cached.
func (cli *JSONRPCClient) Pool(ctx context.Context) (*PoolReply, error) {
	cli.l.Lock()
	defer cli.l.Unlock()

	if cli.pool != nil {
		return cli.pool, nil
	}
	resp := new(PoolReply)
	if err := cli.send(ctx, "pool", struct{}{}, resp); err != nil {
		return nil, err
	}
	cli.pool = resp
	return resp, nil
}

func (cli *JSONRPCClient) Reserves(ctx context.Context) (int128.Int, int128.Int, int128.Int, error) {
	resp := new(ReservesReply)
	if err := cli.send(ctx, "reserves", struct{}{}, resp); err != nil {
		return int128.Zero, int128.Zero, int128.Zero, err
	}
	return resp.ReserveA, resp.ReserveB, resp.TotalShares, nil
}

func (cli *JSONRPCClient) Balance(ctx context.Context, token codec.Address, account codec.Address) (int128.Int, error) {
	resp := new(BalanceReply)
	err := cli.send(
		ctx,
		"balance",
		&BalanceArgs{
			Token:   token,
			Account: account,
		},
		resp,
	)
	return resp.Amount, err
}

// Deposit signs and submits a deposit for the account behind [factory].
func (cli *JSONRPCClient) Deposit(
	ctx context.Context,
	factory auth.Factory,
	desiredA int128.Int,
	minA int128.Int,
	desiredB int128.Int,
	minB int128.Int,
) (*pool.DepositResult, error) {
	info, err := cli.Pool(ctx)
	if err != nil {
		return nil, err
	}
	action := &pool.DepositAction{
		Pool:     info.Address,
		To:       factory.Address(),
		DesiredA: desiredA,
		MinA:     minA,
		DesiredB: desiredB,
		MinB:     minB,
	}
	a, err := factory.Sign(action.Bytes())
	if err != nil {
		return nil, err
	}
	resp := new(DepositReply)
	err = cli.send(
		ctx,
		"deposit",
		&DepositArgs{
			Auth:     a.Bytes(),
			To:       action.To,
			DesiredA: desiredA,
			MinA:     minA,
			DesiredB: desiredB,
			MinB:     minB,
		},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return &pool.DepositResult{AmountA: resp.AmountA, AmountB: resp.AmountB, Shares: resp.Shares}, nil
}

// Swap signs and submits a swap for the account behind [factory].
func (cli *JSONRPCClient) Swap(
	ctx context.Context,
	factory auth.Factory,
	buyA bool,
	out int128.Int,
	inMax int128.Int,
) (*pool.SwapResult, error) {
	info, err := cli.Pool(ctx)
	if err != nil {
		return nil, err
	}
	action := &pool.SwapAction{
		Pool:  info.Address,
		To:    factory.Address(),
		BuyA:  buyA,
		Out:   out,
		InMax: inMax,
	}
	a, err := factory.Sign(action.Bytes())
	if err != nil {
		return nil, err
	}
	resp := new(SwapReply)
	err = cli.send(
		ctx,
		"swap",
		&SwapArgs{
			Auth:  a.Bytes(),
			To:    action.To,
			BuyA:  buyA,
			Out:   out,
			InMax: inMax,
		},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return &pool.SwapResult{AmountIn: resp.AmountIn, AmountOut: resp.AmountOut}, nil
}

// Withdraw signs and submits a withdrawal for the account behind [factory].
func (cli *JSONRPCClient) Withdraw(
	ctx context.Context,
	factory auth.Factory,
	shares int128.Int,
	minA int128.Int,
	minB int128.Int,
) (*pool.WithdrawResult, error) {
	info, err := cli.Pool(ctx)
	if err != nil {
		return nil, err
	}
	action := &pool.WithdrawAction{
		Pool:   info.Address,
		To:     factory.Address(),
		Shares: shares,
		MinA:   minA,
		MinB:   minB,
	}
	a, err := factory.Sign(action.Bytes())
	if err != nil {
		return nil, err
	}
	resp := new(WithdrawReply)
	err = cli.send(
		ctx,
		"withdraw",
		&WithdrawArgs{
			Auth:   a.Bytes(),
			To:     action.To,
			Shares: shares,
			MinA:   minA,
			MinB:   minB,
		},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return &pool.WithdrawResult{AmountA: resp.AmountA, AmountB: resp.AmountB}, nil
}

func (cli *JSONRPCClient) QuoteDeposit(ctx context.Context, desiredA int128.Int, desiredB int128.Int) (*pool.DepositResult, error) {
	resp := new(DepositReply)
	if err := cli.send(ctx, "quoteDeposit", &QuoteDepositArgs{DesiredA: desiredA, DesiredB: desiredB}, resp); err != nil {
		return nil, err
	}
	return &pool.DepositResult{AmountA: resp.AmountA, AmountB: resp.AmountB, Shares: resp.Shares}, nil
}

func (cli *JSONRPCClient) QuoteSwap(ctx context.Context, buyA bool, out int128.Int) (*pool.SwapResult, error) {
	resp := new(SwapReply)
	if err := cli.send(ctx, "quoteSwap", &QuoteSwapArgs{BuyA: buyA, Out: out}, resp); err != nil {
		return nil, err
	}
	return &pool.SwapResult{AmountIn: resp.AmountIn, AmountOut: resp.AmountOut}, nil
}

func (cli *JSONRPCClient) QuoteWithdraw(ctx context.Context, shares int128.Int) (*pool.WithdrawResult, error) {
	resp := new(WithdrawReply)
	if err := cli.send(ctx, "quoteWithdraw", &QuoteWithdrawArgs{Shares: shares}, resp); err != nil {
		return nil, err
	}
	return &pool.WithdrawResult{AmountA: resp.AmountA, AmountB: resp.AmountB}, nil
}
