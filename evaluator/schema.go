//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

package evaluator

import "github.com/google/jsonschema-go/jsonschema"

// VerdictSchema returns the fixed output contract for judge responses:
// an object holding a "criteria" array of {id, description, passed}
// entries, with no extra properties allowed at either level.
//
// The schema is a fixed, versioned data structure; both sides of the
// adapter boundary can rely on its shape without inspecting it.
func VerdictSchema() *jsonschema.Schema {
	none := &jsonschema.Schema{Not: &jsonschema.Schema{}}
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"criteria"},
		Properties: map[string]*jsonschema.Schema{
			"criteria": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type:     "object",
					Required: []string{"id", "description", "passed"},
					Properties: map[string]*jsonschema.Schema{
						"id":          {Type: "string", Description: "Criterion identifier, echoed from the instruction."},
						"description": {Type: "string", Description: "Criterion description, echoed from the instruction."},
						"passed":      {Type: "boolean", Description: "Whether the conversation satisfies the criterion."},
					},
					AdditionalProperties: none,
				},
			},
		},
		AdditionalProperties: none,
	}
}
