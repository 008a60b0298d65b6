//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

package lexical

type options struct {
	threshold float64
}

func newOptions(opt ...Option) *options {
	opts := &options{threshold: defaultThreshold}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the lexical judge.
type Option func(*options)

// WithThreshold sets the overlap fraction required for a pass verdict.
func WithThreshold(threshold float64) Option {
	return func(o *options) {
		if threshold >= 0 && threshold <= 1 {
			o.threshold = threshold
		}
	}
}
