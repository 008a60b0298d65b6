//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package conversation models role-tagged message transcripts, including
// tool calls and tool results embedded as structured content parts.
package conversation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role represents the author of a message.
type Role string

// Role constants for message authors.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// IsValid checks whether the role is one of the supported values.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// PartType represents the type of a content part.
type PartType string

// PartType constants for content parts.
const (
	PartTypeText       PartType = "text"
	PartTypeToolCall   PartType = "tool-call"
	PartTypeToolResult PartType = "tool-result"
)

// ToolCall describes a tool invocation requested by the assistant.
type ToolCall struct {
	// Name is the name of the invoked tool.
	Name string `json:"toolName"`
	// Input holds the call arguments.
	Input map[string]any `json:"input,omitempty"`
}

// ToolResult describes the output produced by a tool invocation.
type ToolResult struct {
	// Name is the name of the tool that produced the output.
	Name string `json:"toolName"`
	// Output is the tool output payload.
	Output any `json:"output,omitempty"`
	// IsError marks the output as an error result.
	IsError bool `json:"isError,omitempty"`
}

// Part is a tagged union over text, tool-call, and tool-result content.
// A bare JSON string decodes as a text part for backward compatibility.
type Part struct {
	// Type discriminates the union.
	Type PartType `json:"type"`
	// Text is set when Type is PartTypeText.
	Text string `json:"text,omitempty"`
	// ToolCall is set when Type is PartTypeToolCall.
	ToolCall *ToolCall `json:"-"`
	// ToolResult is set when Type is PartTypeToolResult.
	ToolResult *ToolResult `json:"-"`
}

// partEnvelope is the wire shape of a structured content part.
type partEnvelope struct {
	Type     PartType       `json:"type"`
	Text     string         `json:"text,omitempty"`
	ToolName string         `json:"toolName,omitempty"`
	Input    map[string]any `json:"input,omitempty"`
	Output   any            `json:"output,omitempty"`
	IsError  bool           `json:"isError,omitempty"`
}

// MarshalJSON encodes the part in its tagged wire shape.
func (p Part) MarshalJSON() ([]byte, error) {
	env := partEnvelope{Type: p.Type}
	switch p.Type {
	case PartTypeText:
		env.Text = p.Text
	case PartTypeToolCall:
		if p.ToolCall == nil {
			return nil, fmt.Errorf("tool-call part has no tool call")
		}
		env.ToolName = p.ToolCall.Name
		env.Input = p.ToolCall.Input
	case PartTypeToolResult:
		if p.ToolResult == nil {
			return nil, fmt.Errorf("tool-result part has no tool result")
		}
		env.ToolName = p.ToolResult.Name
		env.Output = p.ToolResult.Output
		env.IsError = p.ToolResult.IsError
	default:
		return nil, fmt.Errorf("unknown part type %q", p.Type)
	}
	return json.Marshal(env)
}

// UnmarshalJSON decodes either a tagged part object or a bare string.
func (p *Part) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("decode string part: %w", err)
		}
		*p = Part{Type: PartTypeText, Text: text}
		return nil
	}
	var env partEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode part: %w", err)
	}
	switch env.Type {
	case PartTypeText:
		*p = Part{Type: PartTypeText, Text: env.Text}
	case PartTypeToolCall:
		*p = Part{Type: PartTypeToolCall, ToolCall: &ToolCall{Name: env.ToolName, Input: env.Input}}
	case PartTypeToolResult:
		*p = Part{Type: PartTypeToolResult, ToolResult: &ToolResult{Name: env.ToolName, Output: env.Output, IsError: env.IsError}}
	default:
		return fmt.Errorf("unknown part type %q", env.Type)
	}
	return nil
}

// Message is a single entry in a conversation.
// Only one of Content or Parts should be provided.
// If both are provided, Parts takes precedence.
type Message struct {
	// Role is the role of the message author.
	Role Role `json:"role"`
	// Content is the plain-text message content.
	Content string `json:"content,omitempty"`
	// Parts is the structured content for messages carrying tool activity.
	Parts []Part `json:"parts,omitempty"`
}

// NewSystemMessage creates a system message with plain-text content.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message with plain-text content.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message with plain-text content.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolCallMessage creates an assistant message containing a single tool call.
func NewToolCallMessage(toolName string, input map[string]any) Message {
	return Message{
		Role:  RoleAssistant,
		Parts: []Part{{Type: PartTypeToolCall, ToolCall: &ToolCall{Name: toolName, Input: input}}},
	}
}

// NewToolResultMessage creates a tool message containing a single tool result.
func NewToolResultMessage(toolName string, output any) Message {
	return Message{
		Role:  RoleTool,
		Parts: []Part{{Type: PartTypeToolResult, ToolResult: &ToolResult{Name: toolName, Output: output}}},
	}
}

// Text returns the plain-text view of the message: Content when set,
// otherwise the concatenated text parts.
func (m Message) Text() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	var sb strings.Builder
	for _, part := range m.Parts {
		if part.Type != PartTypeText {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// Render returns a human-readable view of the message including tool activity.
func (m Message) Render() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	lines := make([]string, 0, len(m.Parts))
	for _, part := range m.Parts {
		switch part.Type {
		case PartTypeText:
			lines = append(lines, part.Text)
		case PartTypeToolCall:
			if part.ToolCall == nil {
				continue
			}
			input, _ := json.Marshal(part.ToolCall.Input)
			lines = append(lines, fmt.Sprintf("[tool call] %s(%s)", part.ToolCall.Name, input))
		case PartTypeToolResult:
			if part.ToolResult == nil {
				continue
			}
			output, _ := json.Marshal(part.ToolResult.Output)
			marker := "[tool result]"
			if part.ToolResult.IsError {
				marker = "[tool error]"
			}
			lines = append(lines, fmt.Sprintf("%s %s -> %s", marker, part.ToolResult.Name, output))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderTranscript renders the whole conversation as role-prefixed lines.
// Judges consume this view when their transport has no native message types.
func RenderTranscript(messages []Message) string {
	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(string(msg.Role))
		sb.WriteString(": ")
		sb.WriteString(msg.Render())
	}
	return sb.String()
}
