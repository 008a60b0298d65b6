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
	"strings"

	"github.com/convcheck/convcheck/conversation"
	"github.com/convcheck/convcheck/criterion"
	"github.com/convcheck/convcheck/evaluator"
	"github.com/convcheck/convcheck/judge"
	"github.com/convcheck/convcheck/record"
)

// genericModelID is recorded when the adapter does not identify its model.
const genericModelID = "judge"

// PassAllCriteria asserts that the conversation satisfies every criterion
// in the set, judged by j.
//
// Missing inputs produce a failed assertion Result, not an error. Judge
// and store failures return a non-nil error and abort the assertion.
// Exactly one evaluation record is appended to the configured store per
// invocation, pass or fail.
func PassAllCriteria(ctx context.Context, conv []conversation.Message,
	criteria []criterion.Criterion, j judge.Judge, opt ...Option) (Result, error) {
	if len(conv) == 0 {
		return failResult("conversation is empty: nothing to evaluate"), nil
	}
	if len(criteria) == 0 {
		return failResult("criteria set is empty: nothing to check"), nil
	}
	if j == nil {
		return failResult("judge is missing: supply an adapter or model handle"), nil
	}
	opts := newOptions(opt...)
	start := opts.now()
	evalResult, err := evaluator.Evaluate(ctx, j, conv, criteria)
	if err != nil {
		return Result{}, err
	}
	verdicts := make(map[string]evaluator.CriterionResult, len(evalResult.Results))
	for _, v := range evalResult.Results {
		verdicts[v.ID] = v
	}
	// Verdict order is judge-determined; failures are reported in criteria
	// set order, and a criterion the judge skipped counts as failed.
	var failedLines []string
	for _, c := range criteria {
		v, ok := verdicts[c.ID]
		if ok && v.Passed {
			continue
		}
		failedLines = append(failedLines, fmt.Sprintf("%s: %s", c.ID, c.Description))
	}
	allPassed := len(failedLines) == 0
	rec := &record.Record{
		ID:           record.NewID(opts.testPath, opts.testName, start),
		TestPath:     opts.testPath,
		TestName:     opts.testName,
		Timestamp:    start,
		DurationMS:   opts.now().Sub(start).Milliseconds(),
		ModelID:      modelID(j),
		Conversation: conv,
		Criteria:     criteria,
		Results:      evalResult.Results,
		Usage:        evalResult.Usage,
		Passed:       allPassed,
	}
	if err := opts.store.Append(ctx, rec); err != nil {
		return Result{}, fmt.Errorf("append evaluation record: %w", err)
	}
	if allPassed {
		return passResult(fmt.Sprintf("all %d criteria passed", len(criteria))), nil
	}
	return failResult(strings.Join(failedLines, "\n")), nil
}

// modelID resolves the identifier recorded for the judging model.
// Adapters opt in via judge.Identifier; there is no field sniffing.
func modelID(j judge.Judge) string {
	if identifier, ok := j.(judge.Identifier); ok {
		if id := identifier.ModelID(); id != "" {
			return id
		}
	}
	return genericModelID
}
