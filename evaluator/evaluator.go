//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package evaluator drives single criteria evaluations through a judge.
package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/convcheck/convcheck/conversation"
	"github.com/convcheck/convcheck/criterion"
	"github.com/convcheck/convcheck/judge"
)

// CriterionResult is the judge's verdict for one criterion. ID and
// description echo the input criterion; result order is judge-determined,
// so callers must match results to criteria by ID, not position.
type CriterionResult struct {
	// ID identifies the evaluated criterion.
	ID string `json:"id"`
	// Description echoes the criterion description.
	Description string `json:"description"`
	// Passed is the judge's verdict.
	Passed bool `json:"passed"`
}

// Result is the outcome of one engine invocation.
type Result struct {
	// Results holds one verdict per evaluated criterion.
	Results []CriterionResult `json:"results"`
	// Usage is the normalized token usage; TotalTokens is always set.
	Usage judge.Usage `json:"usage"`
}

// Evaluate runs one evaluation: it builds the verdict schema and the
// judging instruction, invokes the judge exactly once, and returns the
// per-criterion verdicts with normalized usage.
//
// Judge errors propagate unchanged; there is no retry or error
// translation at this layer. Repeated-trial aggregation belongs to the
// confidence operator, not here.
func Evaluate(ctx context.Context, j judge.Judge, messages []conversation.Message,
	criteria []criterion.Criterion) (*Result, error) {
	if j == nil {
		return nil, errors.New("judge is nil")
	}
	if len(messages) == 0 {
		return nil, errors.New("messages are empty")
	}
	if len(criteria) == 0 {
		return nil, errors.New("criteria are empty")
	}
	resp, err := j.EvaluateObject(ctx, &judge.Request{
		Schema:       VerdictSchema(),
		Messages:     messages,
		SystemPrompt: Instruction(criteria),
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("judge returned nil response")
	}
	results, err := decodeVerdicts(resp.Object)
	if err != nil {
		return nil, err
	}
	return &Result{
		Results: results,
		Usage:   judge.NormalizeUsage(resp.Usage),
	}, nil
}

// decodeVerdicts strictly decodes the judge object into criterion verdicts.
func decodeVerdicts(object json.RawMessage) ([]CriterionResult, error) {
	if len(object) == 0 {
		return nil, errors.New("judge returned empty object")
	}
	var verdict struct {
		Criteria []CriterionResult `json:"criteria"`
	}
	decoder := json.NewDecoder(bytes.NewReader(object))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&verdict); err != nil {
		return nil, fmt.Errorf("judge object does not conform to verdict schema: %w", err)
	}
	if verdict.Criteria == nil {
		return nil, errors.New("judge object has no criteria array")
	}
	return verdict.Criteria, nil
}

// instructionHeader opens every judging instruction.
const instructionHeader = `You are an impartial judge evaluating a recorded conversation between a user and an assistant.
Consider the ENTIRE conversation, not just the last message, against each criterion below.
Return a JSON object with a "criteria" array holding one entry per criterion, echoing its id and description and setting "passed" to true or false.`

// Instruction builds the system instruction listing every criterion.
// The criterion lines use a stable format that ParseInstruction inverts.
func Instruction(criteria []criterion.Criterion) string {
	var sb strings.Builder
	sb.WriteString(instructionHeader)
	sb.WriteString("\n\nCriteria:\n")
	for _, c := range criteria {
		sb.WriteString(fmt.Sprintf("- id: %s\n  description: %s\n", c.ID, c.Description))
	}
	return sb.String()
}

// ParseInstruction recovers the criteria list from an instruction built by
// Instruction. Deterministic adapters use it to learn what to judge, since
// the adapter contract only carries the instruction text.
func ParseInstruction(instruction string) []criterion.Criterion {
	var criteria []criterion.Criterion
	lines := strings.Split(instruction, "\n")
	for i := 0; i < len(lines); i++ {
		id, ok := strings.CutPrefix(lines[i], "- id: ")
		if !ok {
			continue
		}
		c := criterion.Criterion{ID: strings.TrimSpace(id)}
		if i+1 < len(lines) {
			if desc, ok := strings.CutPrefix(lines[i+1], "  description: "); ok {
				c.Description = strings.TrimSpace(desc)
				i++
			}
		}
		criteria = append(criteria, c)
	}
	return criteria
}
