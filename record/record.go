//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package record provides the durable evaluation record model and the
// append-only store contract consumed by reporting collaborators.
package record

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/convcheck/convcheck/conversation"
	"github.com/convcheck/convcheck/criterion"
	"github.com/convcheck/convcheck/evaluator"
	"github.com/convcheck/convcheck/judge"
)

// Record is the immutable outcome of one criteria-pass invocation.
// It is created once, appended to a store, and never updated in place.
type Record struct {
	// ID is derived from test path, test name, and start time,
	// sanitized to a safe identifier charset.
	ID string `json:"id"`
	// TestPath locates the test file that produced this record.
	TestPath string `json:"testPath,omitempty"`
	// TestName names the test that produced this record.
	TestName string `json:"testName,omitempty"`
	// Timestamp is the evaluation start time (ISO-8601 in JSON).
	Timestamp time.Time `json:"timestamp"`
	// DurationMS is the wall-clock evaluation latency in milliseconds.
	DurationMS int64 `json:"durationMs"`
	// ModelID identifies the judging model, or "judge" for generic adapters.
	ModelID string `json:"modelId"`
	// Conversation is the evaluated transcript.
	Conversation []conversation.Message `json:"conversation"`
	// Criteria is the criteria set used for this evaluation.
	Criteria []criterion.Criterion `json:"criteria"`
	// Results holds the per-criterion verdicts.
	Results []evaluator.CriterionResult `json:"results"`
	// Usage is the normalized token usage for the judge call.
	Usage judge.Usage `json:"usage"`
	// Passed is the AND over all criterion verdicts.
	Passed bool `json:"passed"`
}

// Store is an append-only collection of evaluation records.
//
// Records accumulate for the duration of a test run; List returns a
// snapshot, since later assertions may still append. Readers must not
// mutate returned records.
type Store interface {
	// Append adds one record to the store.
	Append(ctx context.Context, rec *Record) error
	// List returns a snapshot of all records in append order.
	List(ctx context.Context) ([]*Record, error)
}

// NewID derives a record identifier from the test path, test name, and
// start time, sanitized to [A-Za-z0-9_-]. A random identifier is used
// when all components are empty.
func NewID(testPath, testName string, start time.Time) string {
	raw := strings.Trim(strings.TrimSpace(testPath+"_"+testName), "_")
	if raw == "" {
		return uuid.New().String()
	}
	return sanitize(raw + "_" + start.UTC().Format("2006-01-02T15:04:05.000"))
}

// sanitize maps every byte outside the safe identifier charset to '_'.
func sanitize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
