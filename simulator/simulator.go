// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package simulator replays scripted plans against a fresh in-memory pool.
package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/cfmm/auth"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/crypto/ed25519"
	"github.com/ava-labs/cfmm/event"
	"github.com/ava-labs/cfmm/genesis"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/storage"
	"github.com/ava-labs/cfmm/token"
)

type Simulator struct {
	log    logging.Logger
	tracer trace.Tracer
}

func New(log logging.Logger, tracer trace.Tracer) *Simulator {
	return &Simulator{log: log, tracer: tracer}
}

type PoolState struct {
	ReserveA    int128.Int `json:"reserveA"`
	ReserveB    int128.Int `json:"reserveB"`
	TotalShares int128.Int `json:"totalShares"`
}

type Response struct {
	// The index of the step that generated this response.
	ID          int    `json:"id"`
	Description string `json:"description,omitempty"`
	Op          Op     `json:"op"`

	Deposit  *pool.DepositResult  `json:"deposit,omitempty"`
	Swap     *pool.SwapResult     `json:"swap,omitempty"`
	Withdraw *pool.WithdrawResult `json:"withdraw,omitempty"`
	// Events committed by the step.
	Events []*pool.Event `json:"events,omitempty"`
	// Pool state after the step, absent until the pool is initialized.
	State *PoolState `json:"state,omitempty"`
	// The error message if available.
	Error string `json:"error,omitempty"`
}

func NewResponse(id int, step *Step) *Response {
	return &Response{
		ID:          id,
		Description: step.Description,
		Op:          step.Op,
	}
}

// Print writes the response as a single JSON line.
func (r *Response) Print(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

type run struct {
	s    *Simulator
	plan *Plan

	db       *state.Memory
	pool     *pool.Pool
	recorder *event.Recorder[*pool.Event]

	// token a, token b, share token
	tokens [3]codec.Address
	keys   map[string]*auth.ED25519Factory
}

// Run executes every step of [plan] in order on its own store. It stops
// at the first step that breaks an expectation and returns the responses
// gathered so far, including the failing one.
func (s *Simulator) Run(ctx context.Context, plan *Plan) ([]*Response, error) {
	if err := plan.Verify(); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "Simulator.Run")
	defer span.End()

	s.log.Info("simulation",
		zap.String("plan", plan.Name),
		zap.String("description", plan.Description),
	)
	r, err := s.newRun(ctx, plan)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := r.pool.Close(); err != nil {
			s.log.Warn("failed to close pool", zap.Error(err))
		}
	}()

	responses := make([]*Response, 0, len(plan.Steps))
	for i := range plan.Steps {
		step := &plan.Steps[i]
		s.log.Debug("simulation",
			zap.String("plan", plan.Name),
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("op", string(step.Op)),
		)
		resp, err := r.step(ctx, i, step)
		responses = append(responses, resp)
		if err != nil {
			return responses, fmt.Errorf("%s step %d: %w", plan.Name, i, err)
		}
	}
	return responses, nil
}

// RunAll runs [plans] concurrently, each against its own pool, with at
// most [limit] in flight. Responses are returned in plan order.
func (s *Simulator) RunAll(ctx context.Context, plans []*Plan, limit int) ([][]*Response, error) {
	responses := make([][]*Response, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			resp, err := s.Run(gctx, plan)
			responses[i] = resp
			return err
		})
	}
	return responses, g.Wait()
}

func (s *Simulator) newRun(ctx context.Context, plan *Plan) (*run, error) {
	r := &run{
		s:        s,
		plan:     plan,
		db:       state.NewMemory(),
		recorder: event.NewRecorder[*pool.Event](),
		keys:     make(map[string]*auth.ED25519Factory, len(plan.Accounts)),
	}

	g := genesis.NewDefaultGenesis(nil)
	tokenA, tokenB := g.Pair()
	for _, a := range plan.Accounts {
		priv, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		factory := auth.NewED25519Factory(priv)
		r.keys[a.Name] = factory
		addr, err := codec.AddressBech32(consts.HRP, factory.Address())
		if err != nil {
			return nil, err
		}
		for _, t := range g.Tokens {
			balance := a.BalanceB
			if t.Address() == tokenA {
				balance = a.BalanceA
			}
			t.CustomAllocation = append(t.CustomAllocation, &genesis.CustomAllocation{
				Address: addr,
				Balance: balance,
			})
		}
	}
	if err := g.InitializeState(ctx, s.tracer, r.db); err != nil {
		return nil, err
	}

	poolAddr, err := g.PoolAddress()
	if err != nil {
		return nil, err
	}
	config := pool.NewDefaultConfig()
	if plan.Pool != nil {
		config = *plan.Pool
	}
	r.pool, err = pool.New(
		s.log,
		s.tracer,
		prometheus.NewRegistry(),
		r.db,
		token.NewLedger,
		poolAddr,
		config,
		r.recorder,
	)
	if err != nil {
		return nil, err
	}
	r.tokens = [3]codec.Address{tokenA, tokenB, storage.ShareTokenAddress(poolAddr)}
	return r, nil
}

func (r *run) step(ctx context.Context, i int, step *Step) (*Response, error) {
	resp := NewResponse(i, step)
	before := r.recorder.Len()
	err := r.execute(ctx, step, resp)
	if err != nil {
		resp.Error = err.Error()
	}
	resp.Events = r.recorder.Events()[before:]
	if reserveA, reserveB, rerr := r.pool.Reserves(ctx); rerr == nil {
		totalShares, serr := r.pool.TotalShares(ctx)
		if serr != nil {
			return resp, serr
		}
		resp.State = &PoolState{ReserveA: reserveA, ReserveB: reserveB, TotalShares: totalShares}
	}

	if err := expectError(step.ExpectError, err); err != nil {
		return resp, err
	}
	if step.Require != nil {
		if err := r.check(ctx, step.Require); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

func expectError(name string, err error) error {
	switch {
	case len(name) == 0 && err != nil:
		return fmt.Errorf("%w: %w", ErrUnexpectedError, err)
	case len(name) == 0:
		return nil
	case err == nil:
		return fmt.Errorf("%w: wanted %s", ErrMissingError, name)
	case !errors.Is(err, ErrorNames[name]):
		return fmt.Errorf("%w: wanted %s, got %w", ErrWrongError, name, err)
	default:
		return nil
	}
}

func (r *run) execute(ctx context.Context, step *Step, resp *Response) error {
	if step.Op == OpInitialize {
		a, b := r.tokens[0], r.tokens[1]
		if step.Reverse {
			a, b = b, a
		}
		return r.pool.Initialize(ctx, a, b)
	}

	caller := r.keys[step.Caller]
	to := r.keys[step.to()].Address()
	switch step.Op {
	case OpDeposit:
		action := &pool.DepositAction{
			Pool:     r.pool.Address(),
			To:       to,
			DesiredA: step.DesiredA,
			MinA:     step.MinA,
			DesiredB: step.DesiredB,
			MinB:     step.MinB,
		}
		actor, err := caller.Sign(action.Bytes())
		if err != nil {
			return err
		}
		resp.Deposit, err = r.pool.Deposit(ctx, actor, to, step.DesiredA, step.MinA, step.DesiredB, step.MinB)
		return err
	case OpSwap:
		action := &pool.SwapAction{
			Pool:  r.pool.Address(),
			To:    to,
			BuyA:  step.BuyA,
			Out:   step.Out,
			InMax: step.InMax,
		}
		actor, err := caller.Sign(action.Bytes())
		if err != nil {
			return err
		}
		resp.Swap, err = r.pool.Swap(ctx, actor, to, step.BuyA, step.Out, step.InMax)
		return err
	case OpWithdraw:
		action := &pool.WithdrawAction{
			Pool:   r.pool.Address(),
			To:     to,
			Shares: step.Shares,
			MinA:   step.MinA,
			MinB:   step.MinB,
		}
		actor, err := caller.Sign(action.Bytes())
		if err != nil {
			return err
		}
		resp.Withdraw, err = r.pool.Withdraw(ctx, actor, to, step.Shares, step.MinA, step.MinB)
		return err
	case OpTransfer:
		idx, err := step.Token.index()
		if err != nil {
			return err
		}
		from := caller.Address()
		return token.NewLedger(r.db, r.tokens[idx], from).Transfer(ctx, from, to, step.Amount)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, step.Op)
	}
}

func (r *run) check(ctx context.Context, req *Require) error {
	checks := []struct {
		name      string
		assertion *Assertion
		value     func() (int128.Int, error)
	}{
		{"reserveA", req.ReserveA, func() (int128.Int, error) {
			a, _, err := r.pool.Reserves(ctx)
			return a, err
		}},
		{"reserveB", req.ReserveB, func() (int128.Int, error) {
			_, b, err := r.pool.Reserves(ctx)
			return b, err
		}},
		{"totalShares", req.TotalShares, func() (int128.Int, error) {
			return r.pool.TotalShares(ctx)
		}},
	}
	for _, c := range checks {
		if c.assertion == nil {
			continue
		}
		v, err := c.value()
		if err != nil {
			return err
		}
		if err := c.assertion.Check(v); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	for _, b := range req.Balances {
		idx, err := b.Token.index()
		if err != nil {
			return err
		}
		v, err := r.pool.Balance(ctx, r.tokens[idx], r.keys[b.Account].Address())
		if err != nil {
			return err
		}
		if err := b.Check(v); err != nil {
			return fmt.Errorf("balance of %s in %s: %w", b.Account, b.Token, err)
		}
	}
	return nil
}
