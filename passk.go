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
	"fmt"
	"math"
)

// PassAtK computes the pass@k metric over n sampled trials with c successes.
//
// pass@k is the probability that at least one success appears among k trials
// selected without replacement from the n observed ones:
//
//	pass@k = 1 - C(n-c, k) / C(n, k)
//
// This is the unbiased estimator from the Codex / HumanEval benchmarks. It
// assumes the n trials are independent and identically distributed; shared
// state between trials overestimates the result.
//
// The computation runs in log-space via math.Lgamma to avoid factorial
// overflow for realistic n.
func PassAtK(n, c, k int) (float64, error) {
	if n < 0 {
		return 0.0, fmt.Errorf("n must be >= 0")
	}
	if k <= 0 {
		return 0.0, fmt.Errorf("k must be >= 1")
	}
	if c < 0 {
		return 0.0, fmt.Errorf("c must be >= 0")
	}
	if c > n {
		return 0.0, fmt.Errorf("c cannot exceed n")
	}
	if k > n {
		return 0.0, fmt.Errorf("k cannot exceed n")
	}
	// No successes observed.
	if c == 0 {
		return 0.0, nil
	}
	// Fewer than k failures exist -> at least one success guaranteed.
	if n-c < k {
		return 1.0, nil
	}
	nf := float64(n)
	cf := float64(c)
	kf := float64(k)
	a, _ := math.Lgamma(nf - cf + 1)
	b, _ := math.Lgamma(nf - kf + 1)
	d, _ := math.Lgamma(nf - cf - kf + 1)
	e, _ := math.Lgamma(nf + 1)
	// log probability of drawing k failures.
	logP := a + b - d - e
	// 1 - exp(x) == -expm1(x), better precision when logP is near zero.
	return -math.Expm1(logP), nil
}

// PassHatK computes the pass^k metric over n sampled trials with c successes.
//
// pass^k estimates the probability that k independent trials all succeed,
// treating each trial as a Bernoulli draw with p = c/n:
//
//	pass^k = (c/n)^k
//
// Where pass@k measures peak capability, pass^k measures reliability. The
// same independence assumptions as PassAtK apply. Computed in log-space for
// stability with small p or large k.
func PassHatK(n, c, k int) (float64, error) {
	if n <= 0 {
		return 0.0, fmt.Errorf("n must be > 0")
	}
	if k <= 0 {
		return 0.0, fmt.Errorf("k must be >= 1")
	}
	if c < 0 {
		return 0.0, fmt.Errorf("c must be >= 0")
	}
	if c > n {
		return 0.0, fmt.Errorf("c cannot exceed n")
	}
	if c == 0 {
		return 0.0, nil
	}
	if c == n {
		return 1.0, nil
	}
	p := float64(c) / float64(n)
	return math.Exp(float64(k) * math.Log(p)), nil
}
