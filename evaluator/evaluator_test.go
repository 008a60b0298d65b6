//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

package evaluator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convcheck/convcheck/conversation"
	"github.com/convcheck/convcheck/criterion"
	"github.com/convcheck/convcheck/judge"
)

// stubJudge returns a canned response and captures the request.
type stubJudge struct {
	response *judge.Response
	err      error
	lastReq  *judge.Request
	calls    int
}

func (s *stubJudge) EvaluateObject(ctx context.Context, req *judge.Request) (*judge.Response, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func verdictObject(t *testing.T, results []CriterionResult) json.RawMessage {
	t.Helper()
	object, err := json.Marshal(struct {
		Criteria []CriterionResult `json:"criteria"`
	}{Criteria: results})
	require.NoError(t, err)
	return object
}

var testConversation = []conversation.Message{
	conversation.NewUserMessage("Hello"),
	conversation.NewAssistantMessage("Hi, how can I help you?"),
}

var testCriteria = []criterion.Criterion{
	{ID: "welcome", Description: "Greets the user politely."},
	{ID: "relevance", Description: "Stays relevant to the user's request."},
}

func TestEvaluateReturnsVerdicts(t *testing.T) {
	j := &stubJudge{response: &judge.Response{
		Object: verdictObject(t, []CriterionResult{
			{ID: "welcome", Description: "Greets the user politely.", Passed: true},
			{ID: "relevance", Description: "Stays relevant to the user's request.", Passed: false},
		}),
	}}
	result, err := Evaluate(context.Background(), j, testConversation, testCriteria)
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.True(t, result.Results[0].Passed)
	assert.False(t, result.Results[1].Passed)
	assert.Equal(t, 1, j.calls)
}

func TestEvaluateUsageDefaultsToZero(t *testing.T) {
	j := &stubJudge{response: &judge.Response{
		Object: verdictObject(t, []CriterionResult{{ID: "welcome", Passed: true}}),
	}}
	result, err := Evaluate(context.Background(), j, testConversation, testCriteria)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Usage.TotalTokens)
}

func TestEvaluateUsagePassesThrough(t *testing.T) {
	j := &stubJudge{response: &judge.Response{
		Object: verdictObject(t, []CriterionResult{{ID: "welcome", Passed: true}}),
		Usage:  &judge.Usage{TotalTokens: 7},
	}}
	result, err := Evaluate(context.Background(), j, testConversation, testCriteria)
	require.NoError(t, err)
	assert.Equal(t, 7, result.Usage.TotalTokens)
}

func TestEvaluateInstructionListsEveryCriterion(t *testing.T) {
	j := &stubJudge{response: &judge.Response{
		Object: verdictObject(t, []CriterionResult{{ID: "welcome", Passed: true}}),
	}}
	_, err := Evaluate(context.Background(), j, testConversation, testCriteria)
	require.NoError(t, err)
	require.NotNil(t, j.lastReq)
	assert.Contains(t, j.lastReq.SystemPrompt, "welcome")
	assert.Contains(t, j.lastReq.SystemPrompt, "Greets the user politely.")
	assert.Contains(t, j.lastReq.SystemPrompt, "relevance")
	assert.NotNil(t, j.lastReq.Schema)
	assert.Equal(t, testConversation, j.lastReq.Messages)
}

func TestEvaluatePropagatesJudgeError(t *testing.T) {
	judgeErr := errors.New("transport failure")
	j := &stubJudge{err: judgeErr}
	_, err := Evaluate(context.Background(), j, testConversation, testCriteria)
	require.Error(t, err)
	assert.ErrorIs(t, err, judgeErr)
}

func TestEvaluateRejectsNonConformingObject(t *testing.T) {
	j := &stubJudge{response: &judge.Response{
		Object: json.RawMessage(`{"criteria":[{"id":"welcome","passed":true}],"extra":1}`),
	}}
	_, err := Evaluate(context.Background(), j, testConversation, testCriteria)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verdict schema")
}

func TestEvaluateValidatesInputs(t *testing.T) {
	j := &stubJudge{}
	_, err := Evaluate(context.Background(), nil, testConversation, testCriteria)
	assert.Error(t, err)
	_, err = Evaluate(context.Background(), j, nil, testCriteria)
	assert.Error(t, err)
	_, err = Evaluate(context.Background(), j, testConversation, nil)
	assert.Error(t, err)
	assert.Equal(t, 0, j.calls)
}

func TestInstructionParseRoundTrip(t *testing.T) {
	parsed := ParseInstruction(Instruction(testCriteria))
	require.Len(t, parsed, 2)
	assert.Equal(t, testCriteria[0], parsed[0])
	assert.Equal(t, testCriteria[1], parsed[1])
}

func TestVerdictSchemaShape(t *testing.T) {
	schema := VerdictSchema()
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	require.Contains(t, schema.Properties, "criteria")
	items := schema.Properties["criteria"].Items
	require.NotNil(t, items)
	assert.ElementsMatch(t, []string{"id", "description", "passed"}, items.Required)
}
