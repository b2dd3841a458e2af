// Package tools holds the callable tools the agent may invoke and the
// registry that resolves tool calls by name.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/plannerhq/assistant/internal/conversation"
)

// Handler executes one tool invocation synchronously.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool describes a callable tool: its name, argument schema (JSON Schema),
// and handler.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
	Handler     Handler
}

// Registry is a read-only set of tools, safe for concurrent use once built.
type Registry struct {
	order  []string
	byName map[string]Tool
}

// NewRegistry builds a registry preserving registration order.
func NewRegistry(list ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(list))}
	for _, t := range list {
		if _, exists := r.byName[t.Name]; exists {
			continue
		}
		r.byName[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Tools returns all tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Invoke executes the tool named by the call. Lookup or handler failures
// produce a diagnostic result instead of an error: a failing tool must not
// end the conversation.
func (r *Registry) Invoke(ctx context.Context, call conversation.ToolCall) conversation.ToolResult {
	callID := call.ID
	if callID == "" {
		callID = uuid.NewString()
	}
	name := call.Function.Name

	tool, ok := r.Get(name)
	if !ok {
		return conversation.ToolResult{
			CallID:  callID,
			Name:    name,
			Content: fmt.Sprintf("tool error: unknown tool %q", name),
		}
	}

	result, err := tool.Handler(ctx, json.RawMessage(call.Function.Arguments))
	if err != nil {
		return conversation.ToolResult{
			CallID:  callID,
			Name:    name,
			Content: fmt.Sprintf("tool error: %v", err),
		}
	}
	return conversation.ToolResult{CallID: callID, Name: name, Content: result}
}
