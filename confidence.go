//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

package convcheck

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"

	"github.com/convcheck/convcheck/log"
)

// Confidence operator defaults.
const (
	defaultIterations     = 10
	defaultMinSuccessRate = 0.8
)

// ConfidenceOutcome summarizes the raw trial counts behind a confidence
// assertion. It feeds the pass@k / pass^k estimators for callers that
// want reliability metrics beyond the plain success rate.
type ConfidenceOutcome struct {
	// Iterations is the number of trials run.
	Iterations int `json:"iterations"`
	// Successes is the number of trials that completed without error.
	Successes int `json:"successes"`
	// SuccessRate is Successes / Iterations.
	SuccessRate float64 `json:"successRate"`
}

// PassAtK estimates the probability that at least one of k sampled trials
// succeeds, from this outcome's counts.
func (o ConfidenceOutcome) PassAtK(k int) (float64, error) {
	return PassAtK(o.Iterations, o.Successes, k)
}

// PassHatK estimates the probability that k independent trials all
// succeed, from this outcome's counts.
func (o ConfidenceOutcome) PassHatK(k int) (float64, error) {
	return PassHatK(o.Iterations, o.Successes, k)
}

// PassWithConfidence runs fn repeatedly and asserts that the success rate
// meets the configured threshold.
//
// Iterations run concurrently on a bounded pool; one trial's failure or
// panic never aborts the others, and no in-flight trial is cancelled when
// a sibling fails. A trial succeeds iff fn returns nil. No ordering
// between trials is guaranteed; only the aggregate counts are
// deterministic given deterministic per-trial outcomes.
func PassWithConfidence(ctx context.Context, fn func(context.Context) error,
	opt ...ConfidenceOption) (Result, ConfidenceOutcome) {
	if fn == nil {
		return failResult("test function is missing"), ConfidenceOutcome{}
	}
	opts := newConfidenceOptions(opt...)
	iterations := opts.iterations
	trialErrs := make([]error, iterations)
	pool, err := ants.NewPool(opts.parallelism)
	if err != nil {
		return failResult(fmt.Sprintf("create worker pool: %v", err)), ConfidenceOutcome{}
	}
	defer pool.Release()
	var wg sync.WaitGroup
	for i := 0; i < iterations; i++ {
		wg.Add(1)
		idx := i
		if err := pool.Submit(func() {
			defer wg.Done()
			trialErrs[idx] = runTrial(ctx, fn)
		}); err != nil {
			trialErrs[idx] = fmt.Errorf("submit trial: %w", err)
			wg.Done()
		}
	}
	wg.Wait()
	successes := 0
	var merr *multierror.Error
	for i, trialErr := range trialErrs {
		if trialErr == nil {
			successes++
			continue
		}
		log.Warnf("Iteration %d/%d failed: %v", i+1, iterations, trialErr)
		merr = multierror.Append(merr, fmt.Errorf("iteration %d: %w", i+1, trialErr))
	}
	outcome := ConfidenceOutcome{
		Iterations:  iterations,
		Successes:   successes,
		SuccessRate: float64(successes) / float64(iterations),
	}
	if outcome.SuccessRate >= opts.minSuccessRate {
		return passResult(fmt.Sprintf("success rate %.2f meets required %.2f (%d/%d iterations succeeded)",
			outcome.SuccessRate, opts.minSuccessRate, successes, iterations)), outcome
	}
	message := fmt.Sprintf("success rate %.2f below required %.2f (%d/%d iterations succeeded)",
		outcome.SuccessRate, opts.minSuccessRate, successes, iterations)
	if err := merr.ErrorOrNil(); err != nil {
		message = fmt.Sprintf("%s\n%v", message, err)
	}
	return failResult(message), outcome
}

// runTrial executes one trial, converting panics into trial failures.
func runTrial(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

type confidenceOptions struct {
	iterations     int
	minSuccessRate float64
	parallelism    int
}

func newConfidenceOptions(opt ...ConfidenceOption) *confidenceOptions {
	opts := &confidenceOptions{
		iterations:     defaultIterations,
		minSuccessRate: defaultMinSuccessRate,
	}
	for _, o := range opt {
		o(opts)
	}
	if opts.parallelism <= 0 {
		opts.parallelism = opts.iterations
	}
	return opts
}

// ConfidenceOption configures the confidence operator.
type ConfidenceOption func(*confidenceOptions)

// WithIterations sets the number of trials.
func WithIterations(iterations int) ConfidenceOption {
	return func(o *confidenceOptions) {
		if iterations > 0 {
			o.iterations = iterations
		}
	}
}

// WithMinSuccessRate sets the success-rate threshold in [0, 1].
func WithMinSuccessRate(minSuccessRate float64) ConfidenceOption {
	return func(o *confidenceOptions) {
		if minSuccessRate >= 0 && minSuccessRate <= 1 {
			o.minSuccessRate = minSuccessRate
		}
	}
}

// WithParallelism bounds concurrent trials; defaults to the iteration count.
func WithParallelism(parallelism int) ConfidenceOption {
	return func(o *confidenceOptions) {
		if parallelism > 0 {
			o.parallelism = parallelism
		}
	}
}
