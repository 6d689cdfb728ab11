// Package fallback runs ordered resolution chains: try a step, record the
// failure, move on to the next. Chains replace the nested try/recover
// shape that otherwise grows around unreliable providers, and every step's
// outcome stays visible in the result for logging and tests.
package fallback

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyResult marks a step that succeeded but produced nothing usable.
var ErrEmptyResult = errors.New("empty result")

// ErrExhausted is returned when every step of a chain failed.
var ErrExhausted = errors.New("every step failed")

// Step is one provider in a chain. Run receives the chain input and
// returns the resolved value. A step returning an empty string is treated
// as a failure unless AllowEmpty is set.
type Step struct {
	Name       string
	Run        func(ctx context.Context, input string) (string, error)
	AllowEmpty bool
}

// Attempt records one failed step for the resolution trace.
type Attempt struct {
	Step string
	Err  error
}

// Resolution is the tagged result of running a chain: the value, the name
// of the step that produced it, and every failed attempt before it.
type Resolution struct {
	Value    string
	Source   string
	Attempts []Attempt
}

// Chain is an ordered list of steps tried until one succeeds.
type Chain struct {
	name  string
	steps []Step
}

// NewChain builds a chain. The step order is the resolution order.
func NewChain(name string, steps ...Step) *Chain {
	return &Chain{name: name, steps: steps}
}

// Name returns the chain's name.
func (c *Chain) Name() string {
	return c.name
}

// Resolve runs the steps in order and returns the first success. Failed
// steps are recorded in the resolution's attempt list. When every step
// fails, the error wraps ErrExhausted and the resolution still carries the
// full trace.
func (c *Chain) Resolve(ctx context.Context, input string) (Resolution, error) {
	res := Resolution{}

	for _, step := range c.steps {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("chain %s: %w", c.name, err)
		}

		value, err := step.Run(ctx, input)
		if err != nil {
			res.Attempts = append(res.Attempts, Attempt{Step: step.Name, Err: err})
			continue
		}
		if value == "" && !step.AllowEmpty {
			res.Attempts = append(res.Attempts, Attempt{Step: step.Name, Err: ErrEmptyResult})
			continue
		}

		res.Value = value
		res.Source = step.Name
		return res, nil
	}

	return res, fmt.Errorf("chain %s: %w", c.name, ErrExhausted)
}

// Identity returns a terminal step that yields the input unchanged. A
// chain ending in Identity can only fail by cancellation.
func Identity() Step {
	return Step{
		Name:       "identity",
		AllowEmpty: true,
		Run: func(_ context.Context, input string) (string, error) {
			return input, nil
		},
	}
}
