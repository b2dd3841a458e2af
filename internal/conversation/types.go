// Package conversation defines the message model exchanged with the model
// client and the composer that builds the opening turn of a request.
package conversation

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// Turn role constants.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Content part type constants.
const (
	PartText  = "text"
	PartImage = "image"
)

// Turn is one message unit in a conversation. Content is either a JSON
// string (plain text) or an ordered array of ContentPart.
type Turn struct {
	Role       string          `json:"role"`
	Content    json.RawMessage `json:"content,omitempty"`
	ToolCalls  []ToolCall      `json:"tool_calls,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	Name       string          `json:"name,omitempty"`
}

// TextContent extracts the plain text of the turn. A string content is
// returned directly; a parts array yields its text parts joined by newlines.
func (t Turn) TextContent() string {
	if len(t.Content) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(t.Content, &s); err == nil {
		return s
	}
	parts := t.ContentParts()
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Type == PartText && strings.TrimSpace(p.Text) != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// ContentParts parses the content as a parts array. Returns nil when the
// content is a plain string or absent.
func (t Turn) ContentParts() []ContentPart {
	if len(t.Content) == 0 {
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(t.Content, &parts); err != nil {
		return nil
	}
	return parts
}

// HasToolCalls reports whether the turn requests any tool invocations.
func (t Turn) HasToolCalls() bool {
	return len(t.ToolCalls) > 0
}

// NewTextTurn builds a plain-text turn.
func NewTextTurn(role, text string) Turn {
	return Turn{Role: role, Content: NewTextContent(text)}
}

// NewPartsTurn builds a multi-part turn preserving part order.
func NewPartsTurn(role string, parts []ContentPart) Turn {
	data, err := json.Marshal(parts)
	if err != nil {
		slog.Warn("NewPartsTurn: marshal failed", slog.Any("error", err))
		return Turn{Role: role}
	}
	return Turn{Role: role, Content: data}
}

// NewTextContent creates a json.RawMessage from a plain string.
func NewTextContent(text string) json.RawMessage {
	data, err := json.Marshal(text)
	if err != nil {
		slog.Warn("NewTextContent: marshal failed", slog.Any("error", err))
		return nil
	}
	return data
}

// ContentPart is one element of a multi-part turn content. Text parts carry
// Text; image parts carry the MIME type and the base64 payload.
type ContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Data     string `json:"data,omitempty"`
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart builds an image content part from a base64 payload.
func ImagePart(mimeType, base64Data string) ContentPart {
	return ContentPart{Type: PartImage, MimeType: mimeType, Data: base64Data}
}

// ToolCall is a model-requested invocation of a named tool.
type ToolCall struct {
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction holds the tool name and its serialized JSON arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolResult is the outcome of executing one tool call.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Turn converts the result into a tool-role turn for the running history.
func (r ToolResult) Turn() Turn {
	return Turn{
		Role:       RoleTool,
		Content:    NewTextContent(r.Content),
		ToolCallID: r.CallID,
		Name:       r.Name,
	}
}
