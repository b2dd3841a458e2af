// Package llm is the boundary to the model provider. It exposes a single
// generate capability (synchronous and streaming) plus embeddings, backed by
// an OpenAI-compatible API.
package llm

import (
	"context"

	"github.com/plannerhq/assistant/internal/conversation"
	"github.com/plannerhq/assistant/internal/tools"
)

// TokenFunc receives incremental answer text as the provider produces it.
// Returning an error stops the stream.
type TokenFunc func(token string) error

// Client is the provider capability consumed by the pipeline. Implementations
// must be safe for concurrent use; one client is shared by all requests.
type Client interface {
	// Invoke runs one model call over the full turn history and returns the
	// assistant turn, which may carry tool calls.
	Invoke(ctx context.Context, turns []conversation.Turn, toolDefs []tools.Tool) (conversation.Turn, error)

	// Stream runs one model call, forwarding text deltas to onToken as they
	// arrive, and returns the accumulated assistant turn (content plus any
	// tool calls assembled from the stream).
	Stream(ctx context.Context, turns []conversation.Turn, toolDefs []tools.Tool, onToken TokenFunc) (conversation.Turn, error)

	// Embed returns one embedding vector per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
