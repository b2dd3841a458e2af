package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerhq/assistant/internal/conversation"
)

func weatherCall(id, args string) conversation.ToolCall {
	return conversation.ToolCall{
		ID:       id,
		Type:     "function",
		Function: conversation.ToolCallFunction{Name: "get_weather", Arguments: args},
	}
}

func TestWeatherTool(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(Weather())

	result := reg.Invoke(context.Background(), weatherCall("c1", `{"city":"nyc"}`))
	assert.Equal(t, "Cloudy in NYC", result.Content)
	assert.Equal(t, "c1", result.CallID)

	result = reg.Invoke(context.Background(), weatherCall("c2", `{"city":"sf"}`))
	assert.Equal(t, "Sunny in SF", result.Content)
}

func TestInvokeUnknownTool(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(Weather())

	result := reg.Invoke(context.Background(), conversation.ToolCall{
		ID:       "c3",
		Function: conversation.ToolCallFunction{Name: "get_time", Arguments: "{}"},
	})
	assert.Equal(t, `tool error: unknown tool "get_time"`, result.Content)
	assert.Equal(t, "get_time", result.Name)
}

func TestInvokeBadArguments(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(Weather())

	result := reg.Invoke(context.Background(), weatherCall("c4", `{not json`))
	assert.Contains(t, result.Content, "tool error: ")
}

func TestInvokeHandlerError(t *testing.T) {
	t.Parallel()
	failing := Tool{
		Name: "explode",
		Handler: func(context.Context, json.RawMessage) (string, error) {
			return "", errors.New("boom")
		},
	}
	reg := NewRegistry(failing)

	result := reg.Invoke(context.Background(), conversation.ToolCall{
		ID:       "c5",
		Function: conversation.ToolCallFunction{Name: "explode", Arguments: "{}"},
	})
	assert.Equal(t, "tool error: boom", result.Content)
}

func TestInvokeGeneratesMissingCallID(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(Weather())

	result := reg.Invoke(context.Background(), weatherCall("", `{"city":"sf"}`))
	assert.NotEmpty(t, result.CallID)
}

func TestRegistryPreservesOrder(t *testing.T) {
	t.Parallel()
	noop := func(context.Context, json.RawMessage) (string, error) { return "", nil }
	reg := NewRegistry(
		Tool{Name: "b", Handler: noop},
		Tool{Name: "a", Handler: noop},
		Tool{Name: "b", Handler: noop},
	)

	list := reg.Tools()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Name)
	assert.Equal(t, "a", list[1].Name)
}
