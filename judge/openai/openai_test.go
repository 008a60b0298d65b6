//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	"context"
	"testing"

	openai "github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convcheck/convcheck/conversation"
	"github.com/convcheck/convcheck/evaluator"
)

func TestNewRequiresModelName(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestModelID(t *testing.T) {
	j, err := New("gpt-4o-mini", WithAPIKey("test-key"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", j.ModelID())
}

func TestEvaluateObjectValidatesRequest(t *testing.T) {
	j, err := New("gpt-4o-mini", WithAPIKey("test-key"))
	require.NoError(t, err)

	_, err = j.EvaluateObject(context.Background(), nil)
	require.Error(t, err)
}

func TestConvertMessagesPrependsSystemPrompt(t *testing.T) {
	messages := convertMessages("judge these criteria", []conversation.Message{
		conversation.NewUserMessage("Hello"),
		conversation.NewAssistantMessage("Hi there"),
	})
	require.Len(t, messages, 3)
	require.NotNil(t, messages[0].OfSystem)
	assert.Equal(t, "judge these criteria", messages[0].OfSystem.Content.OfString.Value)
	assert.NotNil(t, messages[1].OfUser)
	assert.NotNil(t, messages[2].OfAssistant)
}

func TestConvertMessagesOmitsEmptySystemPrompt(t *testing.T) {
	messages := convertMessages("", []conversation.Message{
		conversation.NewUserMessage("Hello"),
	})
	require.Len(t, messages, 1)
	assert.NotNil(t, messages[0].OfUser)
}

func TestConvertMessagesRendersToolTurnsAsUserText(t *testing.T) {
	messages := convertMessages("", []conversation.Message{
		conversation.NewToolCallMessage("get_weather", map[string]any{"city": "Paris"}),
		conversation.NewToolResultMessage("get_weather", "18C"),
	})
	require.Len(t, messages, 2)
	// The assistant tool call stays an assistant turn; the tool result
	// reads as user-visible transcript text.
	require.NotNil(t, messages[0].OfAssistant)
	assert.Contains(t, messages[0].OfAssistant.Content.OfString.Value, "get_weather")
	require.NotNil(t, messages[1].OfUser)
	assert.Contains(t, messages[1].OfUser.Content.OfString.Value, "get_weather")
}

func TestSchemaToMap(t *testing.T) {
	m, err := schemaToMap(evaluator.VerdictSchema())
	require.NoError(t, err)
	assert.Equal(t, "object", m["type"])
	props, ok := m["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "criteria")
}

func TestConvertUsage(t *testing.T) {
	completion := &openai.ChatCompletion{}
	assert.Nil(t, convertUsage(completion))

	completion.Usage.PromptTokens = 40
	completion.Usage.CompletionTokens = 10
	completion.Usage.TotalTokens = 50
	usage := convertUsage(completion)
	require.NotNil(t, usage)
	assert.Equal(t, 40, usage.PromptTokens)
	assert.Equal(t, 10, usage.CompletionTokens)
	assert.Equal(t, 50, usage.TotalTokens)
}
