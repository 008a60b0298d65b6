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
	"time"

	"github.com/convcheck/convcheck/record"
	"github.com/convcheck/convcheck/record/inmemory"
)

// defaultStore collects records for the whole test run when callers do not
// inject their own store. Reporting collaborators read it via Records.
var defaultStore record.Store = inmemory.NewStore()

// DefaultStore returns the run-scoped record store used when no WithStore
// option is supplied.
func DefaultStore() record.Store {
	return defaultStore
}

// Records returns a snapshot of the default store's evaluation records.
// Later assertions may still append; callers must not mutate the records.
func Records(ctx context.Context) ([]*record.Record, error) {
	return defaultStore.List(ctx)
}

type options struct {
	store    record.Store
	testPath string
	testName string
	now      func() time.Time
}

func newOptions(opt ...Option) *options {
	opts := &options{
		store: defaultStore,
		now:   time.Now,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the criteria-pass operator.
type Option func(*options)

// WithStore injects the record store receiving this assertion's record.
func WithStore(store record.Store) Option {
	return func(o *options) {
		if store != nil {
			o.store = store
		}
	}
}

// WithTestPath records the test file path on the evaluation record.
func WithTestPath(testPath string) Option {
	return func(o *options) {
		o.testPath = testPath
	}
}

// WithTestName records the test name on the evaluation record.
func WithTestName(testName string) Option {
	return func(o *options) {
		o.testName = testName
	}
}

// withNow overrides the clock; used by tests.
func withNow(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
