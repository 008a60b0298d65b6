//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory evaluation record store.
package inmemory

import (
	"context"
	"errors"
	"sync"

	"github.com/convcheck/convcheck/record"
)

var _ record.Store = (*Store)(nil)

// Store implements record.Store with a mutex-guarded slice.
// Appends are atomic per call, so concurrent assertions may share one store.
type Store struct {
	mu      sync.Mutex
	records []*record.Record
}

// NewStore creates an empty in-memory record store.
func NewStore() *Store {
	return &Store{}
}

// Append adds one record to the store.
func (s *Store) Append(ctx context.Context, rec *record.Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// List returns a snapshot of all records in append order.
func (s *Store) List(ctx context.Context) ([]*record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*record.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}
