// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pool"
)

type Plan struct {
	// The name of the plan.
	Name string `json:"name" yaml:"name"`
	// A description of the plan.
	Description string `json:"description" yaml:"description"`
	// Pool settings. Defaults apply when omitted.
	Pool *pool.Config `json:"pool,omitempty" yaml:"pool,omitempty"`
	// Named accounts and their starting balances.
	Accounts []Account `json:"accounts" yaml:"accounts"`
	// Steps performed in order.
	Steps []Step `json:"steps" yaml:"steps"`
}

type Account struct {
	Name     string     `json:"name" yaml:"name"`
	BalanceA int128.Int `json:"balanceA" yaml:"balance_a"`
	BalanceB int128.Int `json:"balanceB" yaml:"balance_b"`
}

type Op string

const (
	OpInitialize Op = "initialize"
	OpDeposit    Op = "deposit"
	OpSwap       Op = "swap"
	OpWithdraw   Op = "withdraw"
	// Moves tokens between two accounts outside the pool.
	OpTransfer Op = "transfer"
)

type Step struct {
	Description string `json:"description" yaml:"description"`
	Op          Op     `json:"op" yaml:"op"`
	// Caller signs the operation. To defaults to the caller.
	Caller string `json:"caller" yaml:"caller"`
	To     string `json:"to" yaml:"to"`

	// initialize
	Reverse bool `json:"reverse" yaml:"reverse"`

	// deposit
	DesiredA int128.Int `json:"desiredA" yaml:"desired_a"`
	MinA     int128.Int `json:"minA" yaml:"min_a"`
	DesiredB int128.Int `json:"desiredB" yaml:"desired_b"`
	MinB     int128.Int `json:"minB" yaml:"min_b"`

	// swap
	BuyA  bool       `json:"buyA" yaml:"buy_a"`
	Out   int128.Int `json:"out" yaml:"out"`
	InMax int128.Int `json:"inMax" yaml:"in_max"`

	// withdraw, uses MinA and MinB
	Shares int128.Int `json:"shares" yaml:"shares"`

	// transfer
	Token  TokenName  `json:"token" yaml:"token"`
	Amount int128.Int `json:"amount" yaml:"amount"`

	// Name of the error the step must fail with, see [ErrorNames].
	ExpectError string `json:"expectError,omitempty" yaml:"expect_error,omitempty"`
	// Assertions checked after the step.
	Require *Require `json:"require,omitempty" yaml:"require,omitempty"`
}

func (s *Step) to() string {
	if len(s.To) > 0 {
		return s.To
	}
	return s.Caller
}

type TokenName string

const (
	TokenA     TokenName = "a"
	TokenB     TokenName = "b"
	ShareToken TokenName = "share"
)

type Require struct {
	ReserveA    *Assertion         `json:"reserveA,omitempty" yaml:"reserve_a,omitempty"`
	ReserveB    *Assertion         `json:"reserveB,omitempty" yaml:"reserve_b,omitempty"`
	TotalShares *Assertion         `json:"totalShares,omitempty" yaml:"total_shares,omitempty"`
	Balances    []BalanceAssertion `json:"balances,omitempty" yaml:"balances,omitempty"`
}

type Assertion struct {
	// The operator to use for the assertion.
	Operator Operator `json:"operator" yaml:"operator"`
	// The value to compare against.
	Value int128.Int `json:"value" yaml:"value"`
}

type BalanceAssertion struct {
	Account   string    `json:"account" yaml:"account"`
	Token     TokenName `json:"token" yaml:"token"`
	Assertion `yaml:",inline"`
}

type Operator string

const (
	NumericGt Operator = ">"
	NumericLt Operator = "<"
	NumericGe Operator = ">="
	NumericLe Operator = "<="
	NumericEq Operator = "=="
	NumericNe Operator = "!="
)

// Check validates [actual] against the assertion.
func (a *Assertion) Check(actual int128.Int) error {
	var ok bool
	switch a.Operator {
	case NumericGt:
		ok = actual.Gt(a.Value)
	case NumericLt:
		ok = actual.Lt(a.Value)
	case NumericGe:
		ok = actual.Gte(a.Value)
	case NumericLe:
		ok = actual.Lte(a.Value)
	case NumericEq, "":
		ok = actual.Eq(a.Value)
	case NumericNe:
		ok = !actual.Eq(a.Value)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOperator, a.Operator)
	}
	if !ok {
		return fmt.Errorf("%w: %s %s %s", ErrAssertionFailed, actual, a.Operator, a.Value)
	}
	return nil
}

// Verify checks the plan is well formed before anything runs.
func (p *Plan) Verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	accounts := make(map[string]struct{}, len(p.Accounts))
	for _, a := range p.Accounts {
		if len(a.Name) == 0 {
			return fmt.Errorf("%w: unnamed account", ErrInvalidPlan)
		}
		if _, ok := accounts[a.Name]; ok {
			return fmt.Errorf("%w: duplicate account %s", ErrInvalidPlan, a.Name)
		}
		if a.BalanceA.IsNegative() || a.BalanceB.IsNegative() {
			return fmt.Errorf("%w: negative balance for %s", ErrInvalidPlan, a.Name)
		}
		accounts[a.Name] = struct{}{}
	}
	for i := range p.Steps {
		if err := p.Steps[i].verify(accounts); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
	}
	return nil
}

func (s *Step) verify(accounts map[string]struct{}) error {
	switch s.Op {
	case OpInitialize:
		return nil
	case OpDeposit, OpSwap, OpWithdraw, OpTransfer:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, s.Op)
	}
	for _, name := range []string{s.Caller, s.to()} {
		if _, ok := accounts[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAccount, name)
		}
	}
	if s.Op == OpTransfer {
		if _, err := s.Token.index(); err != nil {
			return err
		}
	}
	if len(s.ExpectError) > 0 {
		if _, ok := ErrorNames[s.ExpectError]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownError, s.ExpectError)
		}
	}
	if s.Require != nil {
		for _, b := range s.Require.Balances {
			if _, ok := accounts[b.Account]; !ok {
				return fmt.Errorf("%w: %q", ErrUnknownAccount, b.Account)
			}
			if _, err := b.Token.index(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t TokenName) index() (int, error) {
	switch t {
	case TokenA:
		return 0, nil
	case TokenB:
		return 1, nil
	case ShareToken:
		return 2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownToken, t)
	}
}

// LoadPlan reads a JSON or YAML plan.
func LoadPlan(r io.Reader) (*Plan, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return UnmarshalPlan(b)
}

func UnmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	switch {
	case json.Valid(b):
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	default:
		if err := yaml.UnmarshalStrict(b, &p); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
		}
	}
	return &p, nil
}
