// Package agent runs the two-node agent⇄tools state machine that produces
// the final answer for a request.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/plannerhq/assistant/internal/conversation"
	"github.com/plannerhq/assistant/internal/llm"
	"github.com/plannerhq/assistant/internal/tools"
)

// ErrCycleLimit is returned when the agent keeps requesting tools past the
// configured cycle cap. The graph fails closed instead of looping.
var ErrCycleLimit = errors.New("agent: tool cycle limit exceeded")

// ModelClient is the slice of the provider client the graph needs.
type ModelClient interface {
	Stream(ctx context.Context, turns []conversation.Turn, toolDefs []tools.Tool, onToken llm.TokenFunc) (conversation.Turn, error)
}

type state int

const (
	stateAgent state = iota
	stateTools
	stateTerminal
)

// Graph drives the conversation: the agent node calls the model with the
// running turn history and tool declarations; the router moves to the tools
// node while the latest turn carries tool calls, and to the terminal state
// otherwise.
type Graph struct {
	client    ModelClient
	registry  *tools.Registry
	maxCycles int
	logger    *slog.Logger
}

// New builds a graph. maxCycles bounds agent⇄tools round trips.
func New(log *slog.Logger, client ModelClient, registry *tools.Registry, maxCycles int) *Graph {
	return &Graph{
		client:    client,
		registry:  registry,
		maxCycles: maxCycles,
		logger:    log.With(slog.String("service", "agent")),
	}
}

// Run executes the graph from a seed turn until the terminal state and
// returns the final answer text. Text deltas from every model call are
// forwarded to onToken as they arrive.
func (g *Graph) Run(ctx context.Context, seed conversation.Turn, onToken llm.TokenFunc) (string, error) {
	turns := []conversation.Turn{seed}
	cycles := 0

	for current := stateAgent; current != stateTerminal; {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		switch current {
		case stateAgent:
			turn, err := g.client.Stream(ctx, turns, g.registry.Tools(), onToken)
			if err != nil {
				return "", fmt.Errorf("model invocation: %w", err)
			}
			turns = append(turns, turn)
			current = route(turn)

		case stateTools:
			cycles++
			if cycles > g.maxCycles {
				return "", fmt.Errorf("%w (max %d)", ErrCycleLimit, g.maxCycles)
			}
			latest := turns[len(turns)-1]
			g.logger.Debug("executing tool calls",
				slog.Int("count", len(latest.ToolCalls)),
				slog.Int("cycle", cycles),
			)
			// One result per call, appended in call order.
			for _, call := range latest.ToolCalls {
				result := g.registry.Invoke(ctx, call)
				turns = append(turns, result.Turn())
			}
			current = stateAgent
		}
	}

	return turns[len(turns)-1].TextContent(), nil
}

// route inspects the just-appended assistant turn: pending tool calls move
// the graph to the tools node, otherwise it terminates.
func route(turn conversation.Turn) state {
	if turn.HasToolCalls() {
		return stateTools
	}
	return stateTerminal
}
