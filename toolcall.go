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
	"encoding/json"
	"fmt"

	"github.com/convcheck/convcheck/conversation"
	"github.com/convcheck/convcheck/internal/partialmatch"
)

// ToolCalled asserts that the conversation contains a tool-role message
// reporting output from the named tool.
func ToolCalled(conv []conversation.Message, toolName string) Result {
	if toolName == "" {
		return failResult("tool name is empty")
	}
	for _, msg := range conv {
		if msg.Role != conversation.RoleTool {
			continue
		}
		for _, part := range msg.Parts {
			if partNamesTool(part, toolName) {
				return passResult(fmt.Sprintf("tool %q was called", toolName))
			}
		}
	}
	return failResult(fmt.Sprintf("tool %q was not called", toolName))
}

// ToolCalledWith asserts that an assistant message invokes the named tool,
// optionally with arguments structurally containing expectedArgs.
//
// Messages are scanned in conversation order and entries in content order;
// the FIRST tool-call entry whose name matches decides the verdict, even
// when a later same-name call would have matched the arguments. The
// diagnostics distinguish "not called at all" from "called with mismatched
// arguments".
func ToolCalledWith(conv []conversation.Message, toolName string, expectedArgs map[string]any) Result {
	if toolName == "" {
		return failResult("tool name is empty")
	}
	for _, msg := range conv {
		if msg.Role != conversation.RoleAssistant {
			continue
		}
		for _, part := range msg.Parts {
			if part.Type != conversation.PartTypeToolCall || part.ToolCall == nil {
				continue
			}
			if part.ToolCall.Name != toolName {
				continue
			}
			if expectedArgs == nil {
				return passResult(fmt.Sprintf("tool %q was called", toolName))
			}
			if partialmatch.Match(anyMap(part.ToolCall.Input), anyMap(expectedArgs)) {
				return passResult(fmt.Sprintf("tool %q was called with matching arguments", toolName))
			}
			return failResult(fmt.Sprintf("tool %q was called but arguments did not match\nexpected: %s\nactual: %s",
				toolName, renderArgs(expectedArgs), renderArgs(part.ToolCall.Input)))
		}
	}
	return failResult(fmt.Sprintf("tool %q was not called", toolName))
}

// partNamesTool reports whether a content part references the tool by name.
func partNamesTool(part conversation.Part, toolName string) bool {
	switch part.Type {
	case conversation.PartTypeToolResult:
		return part.ToolResult != nil && part.ToolResult.Name == toolName
	case conversation.PartTypeToolCall:
		return part.ToolCall != nil && part.ToolCall.Name == toolName
	default:
		return false
	}
}

// anyMap widens a string-keyed map for the structural comparator.
func anyMap(m map[string]any) any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// renderArgs renders arguments for diagnostics.
func renderArgs(args map[string]any) string {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(data)
}
