//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package openai adapts OpenAI-compatible chat models to the judge contract
// using native structured outputs.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/convcheck/convcheck/conversation"
	"github.com/convcheck/convcheck/judge"
)

// verdictSchemaName labels the structured output in the chat request.
const verdictSchemaName = "criteria_verdict"

var (
	_ judge.Judge      = (*Judge)(nil)
	_ judge.Identifier = (*Judge)(nil)
)

// Judge wraps a bare model handle into a conforming judge adapter.
// The wrapping builds the schema request and the structured-generation
// call; it is a convenience, not part of the hard adapter contract.
type Judge struct {
	name   string
	client openai.Client
	opts   options
}

// New creates a judge backed by the named OpenAI-compatible chat model.
// The API key is read from the environment unless overridden via options.
func New(modelName string, opt ...Option) (*Judge, error) {
	if modelName == "" {
		return nil, errors.New("model name is empty")
	}
	opts := newOptions(opt...)
	return &Judge{
		name:   modelName,
		client: openai.NewClient(opts.requestOptions...),
		opts:   *opts,
	}, nil
}

// ModelID returns the chat model name.
func (j *Judge) ModelID() string {
	return j.name
}

// EvaluateObject implements judge.Judge via one structured chat completion.
func (j *Judge) EvaluateObject(ctx context.Context, req *judge.Request) (*judge.Response, error) {
	if req == nil {
		return nil, errors.New("request is nil")
	}
	if req.Schema == nil {
		return nil, errors.New("request schema is nil")
	}
	schemaMap, err := schemaToMap(req.Schema)
	if err != nil {
		return nil, fmt.Errorf("encode output schema: %w", err)
	}
	chatRequest := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(j.name),
		Messages: convertMessages(req.SystemPrompt, req.Messages),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   verdictSchemaName,
					Schema: schemaMap,
					Strict: openai.Bool(true),
				},
			},
		},
	}
	if j.opts.temperature != nil {
		chatRequest.Temperature = openai.Float(*j.opts.temperature)
	}
	completion, err := j.client.Chat.Completions.New(ctx, chatRequest)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("chat completion has no choices")
	}
	content := completion.Choices[0].Message.Content
	if content == "" {
		return nil, errors.New("chat completion has empty content")
	}
	return &judge.Response{
		Object: json.RawMessage(content),
		Usage:  convertUsage(completion),
	}, nil
}

// schemaToMap flattens a jsonschema value into the any-typed schema field
// the chat API expects.
func schemaToMap(schema any) (map[string]any, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// convertMessages maps the generic conversation onto chat message params.
// Tool activity is rendered as text: a judge reads the transcript, it does
// not replay the tool protocol, so no tool-call IDs are required.
func convertMessages(systemPrompt string, messages []conversation.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if systemPrompt != "" {
		out = append(out, openai.SystemMessage(systemPrompt))
	}
	for _, msg := range messages {
		rendered := msg.Render()
		switch msg.Role {
		case conversation.RoleSystem:
			out = append(out, openai.SystemMessage(rendered))
		case conversation.RoleAssistant:
			out = append(out, openai.AssistantMessage(rendered))
		default:
			// User and tool turns both read as user-visible transcript.
			out = append(out, openai.UserMessage(rendered))
		}
	}
	return out
}

// convertUsage maps completion usage onto the judge usage shape.
func convertUsage(completion *openai.ChatCompletion) *judge.Usage {
	if completion.Usage.PromptTokens == 0 && completion.Usage.CompletionTokens == 0 &&
		completion.Usage.TotalTokens == 0 {
		return nil
	}
	return &judge.Usage{
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
	}
}
