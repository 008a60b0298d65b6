//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package multistep builds conversations by alternating externally supplied
// user turns with model-generated assistant turns.
package multistep

import (
	"context"
	"errors"
	"fmt"

	"github.com/convcheck/convcheck/conversation"
)

// Request is one generation request produced by the prompt builder.
type Request struct {
	// Messages is the prompt history handed to the generator.
	Messages []conversation.Message
}

// Response is the opaque generation outcome; only text and generated
// messages are read.
type Response struct {
	// Text is the generated response text, used when Messages is empty.
	Text string
	// Messages are the generated turns, appended verbatim when present.
	Messages []conversation.Message
}

// Generator produces one model response for a request.
type Generator interface {
	// Generate performs exactly one generation call.
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// PromptBuilder turns the user-authored history into a generation request.
// It sees only user turns, never generated assistant turns.
type PromptBuilder func(history []conversation.Message) *Request

// StepFunc observes the model-facing transcript after each completed step.
type StepFunc func(transcript []conversation.Message, step int)

// Runner drives a multi-step conversation. Steps are strictly sequential:
// each step's prompt depends on the history accumulated by the previous one.
type Runner struct {
	generator     Generator
	promptBuilder PromptBuilder
	onStep        StepFunc
}

// New creates a runner around the generator.
func New(generator Generator, opt ...Option) (*Runner, error) {
	if generator == nil {
		return nil, errors.New("generator is nil")
	}
	opts := newOptions(opt...)
	return &Runner{
		generator:     generator,
		promptBuilder: opts.promptBuilder,
		onStep:        opts.onStep,
	}, nil
}

// Run processes the user turns in order and returns the full model-facing
// transcript: every user turn followed by the assistant turns generated in
// response to it.
func (r *Runner) Run(ctx context.Context, userTurns []string) ([]conversation.Message, error) {
	var history []conversation.Message
	var transcript []conversation.Message
	for step, turn := range userTurns {
		userMsg := conversation.NewUserMessage(turn)
		history = append(history, userMsg)
		transcript = append(transcript, userMsg)
		req := r.buildRequest(history)
		resp, err := r.generator.Generate(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("generate step %d: %w", step, err)
		}
		transcript = append(transcript, assistantTurns(resp)...)
		if r.onStep != nil {
			r.onStep(snapshot(transcript), step)
		}
	}
	return transcript, nil
}

// buildRequest applies the prompt builder to a copy of the user history.
func (r *Runner) buildRequest(history []conversation.Message) *Request {
	copied := snapshot(history)
	if r.promptBuilder == nil {
		return &Request{Messages: copied}
	}
	req := r.promptBuilder(copied)
	if req == nil {
		return &Request{Messages: copied}
	}
	return req
}

// assistantTurns extracts the generated turns from a response.
func assistantTurns(resp *Response) []conversation.Message {
	if resp == nil {
		return nil
	}
	if len(resp.Messages) > 0 {
		return resp.Messages
	}
	return []conversation.Message{conversation.NewAssistantMessage(resp.Text)}
}

// snapshot copies a message slice so callbacks cannot mutate runner state.
func snapshot(messages []conversation.Message) []conversation.Message {
	out := make([]conversation.Message, len(messages))
	copy(out, messages)
	return out
}

type options struct {
	promptBuilder PromptBuilder
	onStep        StepFunc
}

func newOptions(opt ...Option) *options {
	opts := &options{}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the runner.
type Option func(*options)

// WithPromptBuilder sets the prompt builder applied to the user history.
func WithPromptBuilder(promptBuilder PromptBuilder) Option {
	return func(o *options) {
		o.promptBuilder = promptBuilder
	}
}

// WithOnStep sets the per-step transcript callback.
func WithOnStep(onStep StepFunc) Option {
	return func(o *options) {
		o.onStep = onStep
	}
}
