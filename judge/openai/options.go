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
	openaiopt "github.com/openai/openai-go/option"
)

type options struct {
	requestOptions []openaiopt.RequestOption
	temperature    *float64
}

func newOptions(opt ...Option) *options {
	opts := &options{}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the OpenAI judge adapter.
type Option func(*options)

// WithAPIKey overrides the API key read from the environment.
func WithAPIKey(apiKey string) Option {
	return func(o *options) {
		o.requestOptions = append(o.requestOptions, openaiopt.WithAPIKey(apiKey))
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.requestOptions = append(o.requestOptions, openaiopt.WithBaseURL(baseURL))
	}
}

// WithTemperature sets the judging temperature; lower is more stable.
func WithTemperature(temperature float64) Option {
	return func(o *options) {
		o.temperature = &temperature
	}
}

// WithRequestOptions appends raw client request options.
func WithRequestOptions(requestOptions ...openaiopt.RequestOption) Option {
	return func(o *options) {
		o.requestOptions = append(o.requestOptions, requestOptions...)
	}
}
