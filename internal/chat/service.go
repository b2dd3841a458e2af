// Package chat orchestrates one streaming request: scripted narration, graph
// execution, link suggestions, and completion, in the wire-contract order.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/plannerhq/assistant/internal/conversation"
	"github.com/plannerhq/assistant/internal/files"
	"github.com/plannerhq/assistant/internal/links"
	"github.com/plannerhq/assistant/internal/llm"
	"github.com/plannerhq/assistant/internal/narrator"
	"github.com/plannerhq/assistant/internal/stream"
)

// Request is one chat request after input parsing and file normalization.
type Request struct {
	Message string
	Units   []files.ContentUnit
}

// AnswerGraph is the slice of the agent graph the pipeline needs.
type AnswerGraph interface {
	Run(ctx context.Context, seed conversation.Turn, onToken llm.TokenFunc) (string, error)
}

// Service runs the streaming pipeline for one request at a time per call.
// All fields are read-only after construction; the service is safe for
// concurrent requests.
type Service struct {
	graph      AnswerGraph
	narrator   *narrator.Narrator
	suggester  links.Suggester
	pacer      narrator.Pacer
	tokenDelay time.Duration
	logger     *slog.Logger
}

// NewService builds the pipeline service. A nil pacer falls back to the
// sleeping pacer.
func NewService(log *slog.Logger, graph AnswerGraph, narr *narrator.Narrator, suggester links.Suggester, tokenDelay time.Duration, pacer narrator.Pacer) *Service {
	if pacer == nil {
		pacer = narrator.Sleep
	}
	return &Service{
		graph:      graph,
		narrator:   narr,
		suggester:  suggester,
		pacer:      pacer,
		tokenDelay: tokenDelay,
		logger:     log.With(slog.String("service", "chat")),
	}
}

// Stream runs the full pipeline, writing events to enc in strict order:
// thinking_start, thinking*, thinking_end, answer_start, answer*, links?,
// done. A generation failure emits an error event and ends the stream
// without done; a client disconnect stops silently.
func (s *Service) Stream(ctx context.Context, req Request, enc *stream.Encoder) error {
	seed := conversation.Compose(req.Message, req.Units)

	if err := enc.Encode(stream.ThinkingStart()); err != nil {
		return err
	}
	err := s.narrator.Narrate(ctx, len(req.Units) > 0, func(step string) error {
		return enc.Encode(stream.Thinking(step + "\n"))
	})
	if err != nil {
		return err
	}
	// Boundary events are unconditional, even if the graph yields no tokens.
	if err := enc.Encode(stream.ThinkingEnd()); err != nil {
		return err
	}
	if err := enc.Encode(stream.AnswerStart()); err != nil {
		return err
	}

	var answer strings.Builder
	_, err = s.graph.Run(ctx, seed, func(token string) error {
		answer.WriteString(token)
		if err := enc.Encode(stream.Answer(token)); err != nil {
			return err
		}
		return s.pacer(ctx, s.tokenDelay)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Client gone; nothing left to tell it.
			return err
		}
		s.logger.Error("generation failed", slog.Any("error", err))
		_ = enc.Encode(stream.ErrorEvent(err.Error()))
		return err
	}

	if list := s.suggester.Suggest(answer.String(), req.Message); len(list) > 0 {
		if err := enc.Encode(stream.Links(list)); err != nil {
			return err
		}
	}
	return enc.Encode(stream.Done())
}
