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
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convcheck/convcheck/conversation"
	"github.com/convcheck/convcheck/criterion"
	"github.com/convcheck/convcheck/evaluator"
	"github.com/convcheck/convcheck/judge"
	"github.com/convcheck/convcheck/record"
	"github.com/convcheck/convcheck/record/inmemory"
)

// verdictJudge answers every evaluation with fixed per-criterion verdicts.
type verdictJudge struct {
	verdicts map[string]bool
	usage    *judge.Usage
	err      error
	model    string
}

func (v *verdictJudge) EvaluateObject(ctx context.Context, req *judge.Request) (*judge.Response, error) {
	if v.err != nil {
		return nil, v.err
	}
	criteria := evaluator.ParseInstruction(req.SystemPrompt)
	results := make([]evaluator.CriterionResult, 0, len(criteria))
	for _, c := range criteria {
		passed, ok := v.verdicts[c.ID]
		if !ok {
			// A criterion absent from the map is skipped entirely.
			continue
		}
		results = append(results, evaluator.CriterionResult{
			ID:          c.ID,
			Description: c.Description,
			Passed:      passed,
		})
	}
	object, err := json.Marshal(struct {
		Criteria []evaluator.CriterionResult `json:"criteria"`
	}{Criteria: results})
	if err != nil {
		return nil, err
	}
	return &judge.Response{Object: object, Usage: v.usage}, nil
}

func (v *verdictJudge) ModelID() string {
	return v.model
}

var greetingConversation = []conversation.Message{
	conversation.NewUserMessage("Hello"),
	conversation.NewAssistantMessage("Hi, how can I help you?"),
}

var greetingCriteria = []criterion.Criterion{
	{ID: "welcome", Description: "Welcomes the user."},
	{ID: "relevance", Description: "Responds to the user's message."},
}

func TestPassAllCriteriaAllPassed(t *testing.T) {
	store := inmemory.NewStore()
	j := &verdictJudge{verdicts: map[string]bool{"welcome": true, "relevance": true}}
	result, err := PassAllCriteria(context.Background(), greetingConversation, greetingCriteria, j,
		WithStore(store))
	require.NoError(t, err)
	assert.True(t, result.Pass())
	assert.Equal(t, "all 2 criteria passed", result.Message())

	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Passed)
	assert.Equal(t, 0, records[0].Usage.TotalTokens)
}

func TestPassAllCriteriaReportsFailuresInSetOrder(t *testing.T) {
	store := inmemory.NewStore()
	j := &verdictJudge{verdicts: map[string]bool{"welcome": false, "relevance": false}}
	result, err := PassAllCriteria(context.Background(), greetingConversation, greetingCriteria, j,
		WithStore(store))
	require.NoError(t, err)
	assert.False(t, result.Pass())
	assert.Equal(t, "welcome: Welcomes the user.\nrelevance: Responds to the user's message.",
		result.Message())
}

func TestPassAllCriteriaSkippedVerdictCountsAsFailed(t *testing.T) {
	store := inmemory.NewStore()
	// The judge only rules on one of the two criteria.
	j := &verdictJudge{verdicts: map[string]bool{"welcome": true}}
	result, err := PassAllCriteria(context.Background(), greetingConversation, greetingCriteria, j,
		WithStore(store))
	require.NoError(t, err)
	assert.False(t, result.Pass())
	assert.Contains(t, result.Message(), "relevance")
	assert.NotContains(t, result.Message(), "welcome")
}

func TestPassAllCriteriaAppendsOneRecordPerInvocation(t *testing.T) {
	store := inmemory.NewStore()
	j := &verdictJudge{verdicts: map[string]bool{"welcome": true, "relevance": false}}
	for i := 0; i < 3; i++ {
		_, err := PassAllCriteria(context.Background(), greetingConversation, greetingCriteria, j,
			WithStore(store))
		require.NoError(t, err)
	}
	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
	for _, rec := range records {
		assert.False(t, rec.Passed)
	}
}

func TestPassAllCriteriaRecordFields(t *testing.T) {
	store := inmemory.NewStore()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	j := &verdictJudge{
		verdicts: map[string]bool{"welcome": true, "relevance": true},
		usage:    &judge.Usage{PromptTokens: 40, CompletionTokens: 10, TotalTokens: 50},
		model:    "gpt-4o-mini",
	}
	result, err := PassAllCriteria(context.Background(), greetingConversation, greetingCriteria, j,
		WithStore(store),
		WithTestPath("checks/greeting_test.go"),
		WithTestName("TestGreeting"),
		withNow(func() time.Time {
			now := clock
			clock = clock.Add(25 * time.Millisecond)
			return now
		}))
	require.NoError(t, err)
	assert.True(t, result.Pass())

	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "checks/greeting_test.go", rec.TestPath)
	assert.Equal(t, "TestGreeting", rec.TestName)
	assert.Equal(t, start, rec.Timestamp)
	assert.Equal(t, int64(25), rec.DurationMS)
	assert.Equal(t, "gpt-4o-mini", rec.ModelID)
	assert.Equal(t, greetingConversation, rec.Conversation)
	assert.Equal(t, greetingCriteria, rec.Criteria)
	assert.Equal(t, 50, rec.Usage.TotalTokens)
	assert.NotEmpty(t, rec.ID)
}

func TestPassAllCriteriaMissingInputsFailWithoutError(t *testing.T) {
	store := inmemory.NewStore()
	j := &verdictJudge{verdicts: map[string]bool{"welcome": true}}

	result, err := PassAllCriteria(context.Background(), nil, greetingCriteria, j, WithStore(store))
	require.NoError(t, err)
	assert.False(t, result.Pass())
	assert.Contains(t, result.Message(), "conversation is empty")

	result, err = PassAllCriteria(context.Background(), greetingConversation, nil, j, WithStore(store))
	require.NoError(t, err)
	assert.False(t, result.Pass())
	assert.Contains(t, result.Message(), "criteria set is empty")

	result, err = PassAllCriteria(context.Background(), greetingConversation, greetingCriteria, nil,
		WithStore(store))
	require.NoError(t, err)
	assert.False(t, result.Pass())
	assert.Contains(t, result.Message(), "judge is missing")

	// Validation failures never record.
	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPassAllCriteriaJudgeErrorAborts(t *testing.T) {
	store := inmemory.NewStore()
	judgeErr := errors.New("rate limited")
	j := &verdictJudge{err: judgeErr}
	_, err := PassAllCriteria(context.Background(), greetingConversation, greetingCriteria, j,
		WithStore(store))
	require.Error(t, err)
	assert.ErrorIs(t, err, judgeErr)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPassAllCriteriaStoreErrorAborts(t *testing.T) {
	j := &verdictJudge{verdicts: map[string]bool{"welcome": true, "relevance": true}}
	_, err := PassAllCriteria(context.Background(), greetingConversation, greetingCriteria, j,
		WithStore(failingStore{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append evaluation record")
}

func TestPassAllCriteriaGenericModelID(t *testing.T) {
	store := inmemory.NewStore()
	// ModelID is empty, so the record falls back to the generic identifier.
	j := &verdictJudge{verdicts: map[string]bool{"welcome": true, "relevance": true}}
	_, err := PassAllCriteria(context.Background(), greetingConversation, greetingCriteria, j,
		WithStore(store))
	require.NoError(t, err)
	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "judge", records[0].ModelID)
}

type failingStore struct{}

func (failingStore) Append(ctx context.Context, rec *record.Record) error {
	return errors.New("store unavailable")
}

func (failingStore) List(ctx context.Context) ([]*record.Record, error) {
	return nil, errors.New("store unavailable")
}
