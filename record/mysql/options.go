//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

package mysql

import (
	"database/sql"
	"time"
)

// defaultInitTimeout bounds lazy schema creation.
const defaultInitTimeout = 10 * time.Second

type options struct {
	tablePrefix string
	skipDBInit  bool
	initTimeout time.Duration
	db          *sql.DB
}

func newOptions(opt ...Option) *options {
	opts := &options{
		initTimeout: defaultInitTimeout,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the MySQL record store.
type Option func(*options)

// WithTablePrefix prefixes the records table name.
func WithTablePrefix(prefix string) Option {
	return func(o *options) {
		o.tablePrefix = prefix
	}
}

// WithSkipDBInit skips lazy schema creation on New.
func WithSkipDBInit(skip bool) Option {
	return func(o *options) {
		o.skipDBInit = skip
	}
}

// WithInitTimeout bounds schema creation on New.
func WithInitTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.initTimeout = timeout
		}
	}
}

// WithDB supplies an existing database handle instead of opening the DSN.
func WithDB(db *sql.DB) Option {
	return func(o *options) {
		o.db = db
	}
}
