//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package criterion provides the criteria model for conversation evaluation.
package criterion

import (
	"errors"
	"fmt"
)

// ErrUnknownCriterion reports a predefined-criterion lookup miss.
// It is a configuration error raised at definition time, not an
// evaluation outcome.
var ErrUnknownCriterion = errors.New("unknown predefined criterion")

// Criterion is one named, described property a conversation is checked
// against. The description is shown to the judge and echoed in failure
// diagnostics. Immutable once added to a built set.
type Criterion struct {
	// ID uniquely identifies the criterion within one criteria set.
	ID string `json:"id"`
	// Description is the natural-language property being checked.
	Description string `json:"description"`
}

// Builder accumulates criteria into an ordered set.
//
// Build returns a defensive copy and does NOT reset the builder: later Add
// calls keep extending it, and a second Build sees the longer set. Reuse a
// builder across sets deliberately or not at all.
type Builder struct {
	criteria []Criterion
	err      error
}

// Define creates a new empty criteria builder.
func Define() *Builder {
	return &Builder{}
}

// Add appends literal criteria to the set and returns the builder.
func (b *Builder) Add(criteria ...Criterion) *Builder {
	b.criteria = append(b.criteria, criteria...)
	return b
}

// AddKey appends predefined criteria looked up by key and returns the
// builder. An unknown key poisons the builder; Build reports it.
func (b *Builder) AddKey(keys ...Key) *Builder {
	for _, key := range keys {
		c, ok := predefined[key]
		if !ok {
			if b.err == nil {
				b.err = fmt.Errorf("%w: %q", ErrUnknownCriterion, key)
			}
			continue
		}
		b.criteria = append(b.criteria, c)
	}
	return b
}

// Build returns an ordered snapshot of the accumulated criteria.
// Order is preserved because it is echoed into the judge instruction and
// into failure diagnostics.
func (b *Builder) Build() ([]Criterion, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make([]Criterion, len(b.criteria))
	copy(out, b.criteria)
	return out, nil
}
