package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/plannerhq/assistant/internal/config"
	"github.com/plannerhq/assistant/internal/conversation"
	"github.com/plannerhq/assistant/internal/tools"
)

// OpenAIClient implements Client against an OpenAI-compatible endpoint,
// including Azure OpenAI deployments.
type OpenAIClient struct {
	client         *openai.Client
	model          string
	embeddingModel string
	logger         *slog.Logger
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient builds the shared provider client from config. Constructed
// once at process start and injected read-only into each request.
func NewOpenAIClient(log *slog.Logger, cfg config.LLMConfig) *OpenAIClient {
	var clientCfg openai.ClientConfig
	if cfg.Azure {
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.BaseURL)
		if cfg.APIVersion != "" {
			clientCfg.APIVersion = cfg.APIVersion
		}
	} else {
		clientCfg = openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
	}
	return &OpenAIClient{
		client:         openai.NewClientWithConfig(clientCfg),
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		logger:         log.With(slog.String("service", "llm")),
	}
}

// Invoke runs a single non-streaming completion.
func (c *OpenAIClient) Invoke(ctx context.Context, turns []conversation.Turn, toolDefs []tools.Tool) (conversation.Turn, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAIMessages(turns),
		Tools:    toOpenAITools(toolDefs),
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return conversation.Turn{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return conversation.Turn{}, errors.New("chat completion: empty response")
	}
	return fromOpenAIMessage(resp.Choices[0].Message), nil
}

// Stream runs a streaming completion, forwarding content deltas to onToken
// and accumulating the assistant turn, tool-call deltas included.
func (c *OpenAIClient) Stream(ctx context.Context, turns []conversation.Turn, toolDefs []tools.Tool, onToken TokenFunc) (conversation.Turn, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAIMessages(turns),
		Tools:    toOpenAITools(toolDefs),
		Stream:   true,
	}
	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return conversation.Turn{}, fmt.Errorf("chat completion stream: %w", err)
	}
	defer stream.Close()

	acc := newTurnAccumulator()
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return conversation.Turn{}, fmt.Errorf("chat completion stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta
		if delta.Content != "" {
			acc.content.WriteString(delta.Content)
			if onToken != nil {
				if err := onToken(delta.Content); err != nil {
					return conversation.Turn{}, err
				}
			}
		}
		acc.addToolCallDeltas(delta.ToolCalls)
	}
	return acc.turn(), nil
}

// Embed returns one vector per input text.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}
	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

// --- conversion ---

func toOpenAIMessages(turns []conversation.Turn) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		msg := openai.ChatCompletionMessage{
			Role:       t.Role,
			ToolCallID: t.ToolCallID,
			Name:       t.Name,
		}
		if parts := t.ContentParts(); parts != nil {
			msg.MultiContent = toOpenAIParts(parts)
		} else {
			msg.Content = t.TextContent()
		}
		for _, tc := range t.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func toOpenAIParts(parts []conversation.ContentPart) []openai.ChatMessagePart {
	out := make([]openai.ChatMessagePart, 0, len(parts))
	for _, p := range parts {
		switch p.Type {
		case conversation.PartImage:
			out = append(out, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    fmt.Sprintf("data:%s;base64,%s", p.MimeType, p.Data),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		default:
			out = append(out, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: p.Text,
			})
		}
	}
	return out
}

func toOpenAITools(defs []tools.Tool) []openai.Tool {
	if len(defs) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(defs))
	for _, d := range defs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return out
}

func fromOpenAIMessage(msg openai.ChatCompletionMessage) conversation.Turn {
	turn := conversation.NewTextTurn(conversation.RoleAssistant, msg.Content)
	for _, tc := range msg.ToolCalls {
		turn.ToolCalls = append(turn.ToolCalls, conversation.ToolCall{
			ID:   tc.ID,
			Type: string(tc.Type),
			Function: conversation.ToolCallFunction{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return turn
}

// --- stream accumulation ---

type partialToolCall struct {
	id        string
	name      string
	arguments string
}

// turnAccumulator assembles the assistant turn from streamed deltas. Tool
// call fragments arrive keyed by index and are stitched in index order.
type turnAccumulator struct {
	content   strings.Builder
	toolCalls map[int]*partialToolCall
	nextIndex int
}

func newTurnAccumulator() *turnAccumulator {
	return &turnAccumulator{toolCalls: make(map[int]*partialToolCall)}
}

func (a *turnAccumulator) addToolCallDeltas(deltas []openai.ToolCall) {
	for _, d := range deltas {
		idx := a.nextIndex
		if d.Index != nil {
			idx = *d.Index
		}
		pc, ok := a.toolCalls[idx]
		if !ok {
			pc = &partialToolCall{}
			a.toolCalls[idx] = pc
			a.nextIndex = idx + 1
		}
		if d.ID != "" {
			pc.id = d.ID
		}
		if d.Function.Name != "" {
			pc.name = d.Function.Name
		}
		pc.arguments += d.Function.Arguments
	}
}

func (a *turnAccumulator) turn() conversation.Turn {
	turn := conversation.NewTextTurn(conversation.RoleAssistant, a.content.String())

	indexes := make([]int, 0, len(a.toolCalls))
	for idx := range a.toolCalls {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		pc := a.toolCalls[idx]
		turn.ToolCalls = append(turn.ToolCalls, conversation.ToolCall{
			ID:   pc.id,
			Type: string(openai.ToolTypeFunction),
			Function: conversation.ToolCallFunction{
				Name:      pc.name,
				Arguments: pc.arguments,
			},
		})
	}
	return turn
}
