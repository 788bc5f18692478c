// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ava-labs/cfmm/api"
	"github.com/ava-labs/cfmm/auth"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/int128"
)

const Endpoint = "/poolapi"

var _ api.HandlerFactory[api.Backend] = (*JSONRPCServerFactory)(nil)

type JSONRPCServerFactory struct{}

func (JSONRPCServerFactory) New(backend api.Backend) (api.Handler, error) {
	handler, err := api.NewJSONRPCHandler(api.Name, NewJSONRPCServer(backend))
	if err != nil {
		return api.Handler{}, err
	}

	return api.Handler{
		Path:    Endpoint,
		Handler: handler,
	}, nil
}

type JSONRPCServer struct {
	backend api.Backend
}

func NewJSONRPCServer(backend api.Backend) *JSONRPCServer {
	return &JSONRPCServer{backend}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.backend.Logger().Info("ping")
	reply.Success = true
	return nil
}

type PoolReply struct {
	Address    codec.Address `json:"address"`
	TokenA     codec.Address `json:"tokenA"`
	TokenB     codec.Address `json:"tokenB"`
	ShareToken codec.Address `json:"shareToken"`
}

func (j *JSONRPCServer) Pool(req *http.Request, _ *struct{}, reply *PoolReply) (err error) {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Pool")
	defer span.End()

	p := j.backend.Pool()
	reply.Address = p.Address()
	reply.TokenA, err = p.TokenA(ctx)
	if err != nil {
		return err
	}
	reply.TokenB, err = p.TokenB(ctx)
	if err != nil {
		return err
	}
	reply.ShareToken, err = p.ShareToken(ctx)
	return err
}

type ReservesReply struct {
	ReserveA    int128.Int `json:"reserveA"`
	ReserveB    int128.Int `json:"reserveB"`
	TotalShares int128.Int `json:"totalShares"`
}

func (j *JSONRPCServer) Reserves(req *http.Request, _ *struct{}, reply *ReservesReply) (err error) {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Reserves")
	defer span.End()

	p := j.backend.Pool()
	reply.ReserveA, reply.ReserveB, err = p.Reserves(ctx)
	if err != nil {
		return err
	}
	reply.TotalShares, err = p.TotalShares(ctx)
	return err
}

type BalanceArgs struct {
	Token   codec.Address `json:"token"`
	Account codec.Address `json:"account"`
}

type BalanceReply struct {
	Amount int128.Int `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) (err error) {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	reply.Amount, err = j.backend.Pool().Balance(ctx, args.Token, args.Account)
	return err
}

type DepositArgs struct {
	Auth     codec.Bytes   `json:"auth"`
	To       codec.Address `json:"to"`
	DesiredA int128.Int    `json:"desiredA"`
	MinA     int128.Int    `json:"minA"`
	DesiredB int128.Int    `json:"desiredB"`
	MinB     int128.Int    `json:"minB"`
}

type DepositReply struct {
	AmountA int128.Int `json:"amountA"`
	AmountB int128.Int `json:"amountB"`
	Shares  int128.Int `json:"shares"`
}

func (j *JSONRPCServer) Deposit(req *http.Request, args *DepositArgs, reply *DepositReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Deposit")
	defer span.End()

	actor, err := auth.Unmarshal(args.Auth)
	if err != nil {
		return err
	}
	result, err := j.backend.Pool().Deposit(ctx, actor, args.To, args.DesiredA, args.MinA, args.DesiredB, args.MinB)
	if err != nil {
		j.backend.Logger().Debug("deposit rejected", zap.Stringer("to", args.To), zap.Error(err))
		return err
	}
	reply.AmountA = result.AmountA
	reply.AmountB = result.AmountB
	reply.Shares = result.Shares
	return nil
}

type SwapArgs struct {
	Auth  codec.Bytes   `json:"auth"`
	To    codec.Address `json:"to"`
	BuyA  bool          `json:"buyA"`
	Out   int128.Int    `json:"out"`
	InMax int128.Int    `json:"inMax"`
}

type SwapReply struct {
	AmountIn  int128.Int `json:"amountIn"`
	AmountOut int128.Int `json:"amountOut"`
}

func (j *JSONRPCServer) Swap(req *http.Request, args *SwapArgs, reply *SwapReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Swap")
	defer span.End()

	actor, err := auth.Unmarshal(args.Auth)
	if err != nil {
		return err
	}
	result, err := j.backend.Pool().Swap(ctx, actor, args.To, args.BuyA, args.Out, args.InMax)
	if err != nil {
		j.backend.Logger().Debug("swap rejected", zap.Stringer("to", args.To), zap.Error(err))
		return err
	}
	reply.AmountIn = result.AmountIn
	reply.AmountOut = result.AmountOut
	return nil
}

type WithdrawArgs struct {
	Auth   codec.Bytes   `json:"auth"`
	To     codec.Address `json:"to"`
	Shares int128.Int    `json:"shares"`
	MinA   int128.Int    `json:"minA"`
	MinB   int128.Int    `json:"minB"`
}

type WithdrawReply struct {
	AmountA int128.Int `json:"amountA"`
	AmountB int128.Int `json:"amountB"`
}

func (j *JSONRPCServer) Withdraw(req *http.Request, args *WithdrawArgs, reply *WithdrawReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Withdraw")
	defer span.End()

	actor, err := auth.Unmarshal(args.Auth)
	if err != nil {
		return err
	}
	result, err := j.backend.Pool().Withdraw(ctx, actor, args.To, args.Shares, args.MinA, args.MinB)
	if err != nil {
		j.backend.Logger().Debug("withdraw rejected", zap.Stringer("to", args.To), zap.Error(err))
		return err
	}
	reply.AmountA = result.AmountA
	reply.AmountB = result.AmountB
	return nil
}

type QuoteDepositArgs struct {
	DesiredA int128.Int `json:"desiredA"`
	DesiredB int128.Int `json:"desiredB"`
}

func (j *JSONRPCServer) QuoteDeposit(req *http.Request, args *QuoteDepositArgs, reply *DepositReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.QuoteDeposit")
	defer span.End()

	result, err := j.backend.Pool().QuoteDeposit(ctx, args.DesiredA, args.DesiredB)
	if err != nil {
		return err
	}
	reply.AmountA = result.AmountA
	reply.AmountB = result.AmountB
	reply.Shares = result.Shares
	return nil
}

type QuoteSwapArgs struct {
	BuyA bool       `json:"buyA"`
	Out  int128.Int `json:"out"`
}

func (j *JSONRPCServer) QuoteSwap(req *http.Request, args *QuoteSwapArgs, reply *SwapReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.QuoteSwap")
	defer span.End()

	result, err := j.backend.Pool().QuoteSwap(ctx, args.BuyA, args.Out)
	if err != nil {
		return err
	}
	reply.AmountIn = result.AmountIn
	reply.AmountOut = result.AmountOut
	return nil
}

type QuoteWithdrawArgs struct {
	Shares int128.Int `json:"shares"`
}

func (j *JSONRPCServer) QuoteWithdraw(req *http.Request, args *QuoteWithdrawArgs, reply *WithdrawReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.QuoteWithdraw")
	defer span.End()

	result, err := j.backend.Pool().QuoteWithdraw(ctx, args.Shares)
	if err != nil {
		return err
	}
	reply.AmountA = result.AmountA
	reply.AmountB = result.AmountB
	return nil
}
