package qdispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/theapemachine/errnie"
)

/*
Step is one operation call in a program: the operation name, the variant,
the control qubits for the controlled variants and the operand tuple, which
must be the argument type of the named operation (AssertArgs, AssertProbArgs,
*MeasureArgs or *Qubit).
*/
type Step struct {
	ID          string
	Operation   string
	Variant     Variant
	Controls    []*Qubit
	Args        any
	RetryPolicy *RetryPolicy
	Attempt     int
	LastError   error
}

// StepOption is a function type for configuring steps
type StepOption func(*Step)

func NewStep(id, operation string, variant Variant, args any, opts ...StepOption) Step {
	step := Step{
		ID:        id,
		Operation: operation,
		Variant:   variant,
		Args:      args,
	}
	for _, opt := range opts {
		opt(&step)
	}
	return step
}

func WithControls(controls ...*Qubit) StepOption {
	return func(s *Step) {
		s.Controls = controls
	}
}

/*
Call invokes the named operation by tag. It fails with ErrUnsupportedVariant
for an unknown name and with ErrInvalidOperands when args does not match the
operation's operand tuple.
*/
func (d *Dispatcher) Call(operation string, variant Variant, controls []*Qubit, args any) error {
	switch operation {
	case d.assert.Name:
		a, ok := args.(AssertArgs)
		if !ok {
			return argsError(operation, args)
		}
		return d.assert.Invoke(variant, controls, a)
	case d.assertProb.Name:
		a, ok := args.(AssertProbArgs)
		if !ok {
			return argsError(operation, args)
		}
		return d.assertProb.Invoke(variant, controls, a)
	case d.measure.Name:
		a, ok := args.(*MeasureArgs)
		if !ok || a == nil {
			return argsError(operation, args)
		}
		return d.measure.Invoke(variant, controls, a)
	case d.x.Name:
		a, ok := args.(*Qubit)
		if !ok {
			return argsError(operation, args)
		}
		return d.x.Invoke(variant, controls, a)
	}

	return fmt.Errorf("operation %q: %w", operation, ErrUnsupportedVariant)
}

func argsError(operation string, args any) error {
	return fmt.Errorf("operation %s does not accept %T: %w", operation, args, ErrInvalidOperands)
}

/*
Runner executes steps one after another on a dispatcher. Steps are never
reordered; a step that keeps failing stops the run.
*/
type Runner struct {
	dispatcher    *Dispatcher
	defaultPolicy *RetryPolicy
}

func NewRunner(dispatcher *Dispatcher, cfg *Config) *Runner {
	if cfg == nil {
		cfg = NewConfig()
	}

	return &Runner{
		dispatcher: dispatcher,
		defaultPolicy: &RetryPolicy{
			MaxAttempts: max(cfg.MaxAttempts, 1),
			Strategy:    &ExponentialBackoff{Initial: cfg.Backoff},
			Filter:      Retryable,
		},
	}
}

/*
Run executes steps in order and returns the outcome of every Measure step by
step ID. The context is checked between steps and between retry attempts;
a single call is never interrupted.
*/
func (r *Runner) Run(ctx context.Context, steps []Step) (map[string]Result, error) {
	outcomes := make(map[string]Result)

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		if err := r.executeWithRetries(ctx, &step); err != nil {
			return outcomes, err
		}

		if m, ok := step.Args.(*MeasureArgs); ok {
			outcomes[step.ID] = m.Outcome
		}
	}

	return outcomes, nil
}

func (r *Runner) executeWithRetries(ctx context.Context, step *Step) error {
	policy := r.policyFor(step)

	for step.Attempt = 0; step.Attempt < policy.MaxAttempts; step.Attempt++ {
		if step.Attempt > 0 {
			delay := policy.Strategy.NextDelay(step.Attempt)
			errnie.Info("step %s retrying attempt %d after %v", step.ID, step.Attempt+1, delay)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := r.dispatcher.Call(step.Operation, step.Variant, step.Controls, step.Args)
		if err == nil {
			return nil
		}

		step.LastError = err
		errnie.Warn("step %s attempt %d failed with error: %v", step.ID, step.Attempt+1, err)

		if policy.Filter != nil && !policy.Filter(err) {
			break
		}
	}

	return fmt.Errorf("step %s (%s %s) failed: %w", step.ID, step.Operation, step.Variant, step.LastError)
}

/*
policyFor returns the step's own policy with the runner's defaults filling
the gaps. Every step runs at least once.
*/
func (r *Runner) policyFor(step *Step) RetryPolicy {
	if step.RetryPolicy == nil {
		return *r.defaultPolicy
	}

	policy := *step.RetryPolicy
	policy.MaxAttempts = max(policy.MaxAttempts, 1)
	if policy.Strategy == nil {
		policy.Strategy = r.defaultPolicy.Strategy
	}
	return policy
}
