//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package judge defines the adapter contract for external evaluation oracles.
package judge

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/convcheck/convcheck/conversation"
)

// Request carries one structured-output evaluation request to an adapter.
type Request struct {
	// Schema is the JSON-Schema contract the returned object must satisfy.
	Schema *jsonschema.Schema
	// Messages is the conversation under evaluation.
	Messages []conversation.Message
	// SystemPrompt is the optional judging instruction.
	SystemPrompt string
}

// Response is the adapter's structured verdict plus optional usage metadata.
type Response struct {
	// Object is the structured output; it must validate against the
	// request schema. The adapter owns prompting and parsing.
	Object json.RawMessage
	// Usage is best-effort token accounting; nil when unavailable.
	Usage *Usage
}

// Usage is token-usage metadata reported by an adapter.
type Usage struct {
	// PromptTokens is the number of prompt tokens, when known.
	PromptTokens int `json:"promptTokens,omitempty"`
	// CompletionTokens is the number of completion tokens, when known.
	CompletionTokens int `json:"completionTokens,omitempty"`
	// TotalTokens is always present; zero when the adapter reports nothing.
	TotalTokens int `json:"totalTokens"`
}

// Judge is the oracle that renders structured verdicts over conversations.
//
// Implementations may fail for any reason (transport, schema violation,
// refusal); callers receive those errors unchanged. No retry or determinism
// is implied by the contract.
type Judge interface {
	// EvaluateObject produces a structured object conforming to the
	// request schema, judging the supplied conversation.
	EvaluateObject(ctx context.Context, req *Request) (*Response, error)
}

// Identifier is optionally implemented by adapters that can name the
// underlying model. Callers fall back to a generic identifier otherwise.
type Identifier interface {
	// ModelID returns a stable identifier for the judging model.
	ModelID() string
}

// NormalizeUsage returns a usage value with TotalTokens always set:
// zero when the adapter reported nothing, the sum of the component counts
// when only those were reported.
func NormalizeUsage(u *Usage) Usage {
	if u == nil {
		return Usage{}
	}
	out := *u
	if out.TotalTokens == 0 {
		out.TotalTokens = out.PromptTokens + out.CompletionTokens
	}
	return out
}
