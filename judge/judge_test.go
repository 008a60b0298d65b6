//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsage(t *testing.T) {
	tests := []struct {
		name string
		in   *Usage
		want Usage
	}{
		{
			name: "nil usage defaults to zero",
			in:   nil,
			want: Usage{},
		},
		{
			name: "total preserved when reported",
			in:   &Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
			want: Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
		{
			name: "total summed from components",
			in:   &Usage{PromptTokens: 10, CompletionTokens: 5},
			want: Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
		{
			name: "reported total wins over component sum",
			in:   &Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 20},
			want: Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 20},
		},
		{
			name: "all zero stays zero",
			in:   &Usage{},
			want: Usage{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeUsage(tt.in))
		})
	}
}

func TestNormalizeUsageDoesNotMutateInput(t *testing.T) {
	in := &Usage{PromptTokens: 10, CompletionTokens: 5}
	_ = NormalizeUsage(in)
	assert.Equal(t, 0, in.TotalTokens)
}
