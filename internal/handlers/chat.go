// Package handlers holds the echo HTTP handlers.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plannerhq/assistant/internal/chat"
	"github.com/plannerhq/assistant/internal/files"
	"github.com/plannerhq/assistant/internal/stream"
)

// ChatHandler serves the streaming chat endpoint.
type ChatHandler struct {
	service *chat.Service
	logger  *slog.Logger
}

func NewChatHandler(log *slog.Logger, service *chat.Service) *ChatHandler {
	return &ChatHandler{service: service, logger: log.With(slog.String("handler", "chat"))}
}

func (h *ChatHandler) Register(e *echo.Echo) {
	e.POST("/chat", h.Chat)
}

// Chat accepts a multipart form with a "message" text field and zero or more
// "files" parts, and responds with a server-sent event stream. Input errors
// are rejected with a synchronous 400 before any streaming begins.
func (h *ChatHandler) Chat(c echo.Context) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	enc := stream.NewEncoder(c.Response())
	if err := h.service.Stream(c.Request().Context(), req, enc); err != nil {
		// Headers are already flushed; the stream contract has said all it
		// can. Log and end the response.
		h.logger.Warn("stream ended with error", slog.Any("error", err))
	}
	return nil
}

// parseRequest reads the message text and fully buffers each uploaded file
// into its normalized content unit.
func (h *ChatHandler) parseRequest(c echo.Context) (chat.Request, error) {
	req := chat.Request{Message: c.FormValue("message")}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return chat.Request{}, echo.NewHTTPError(http.StatusBadRequest, "multipart form required")
		}
		return chat.Request{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	for _, fh := range form.File["files"] {
		src, err := fh.Open()
		if err != nil {
			return chat.Request{}, echo.NewHTTPError(http.StatusBadRequest, "read upload: "+err.Error())
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return chat.Request{}, echo.NewHTTPError(http.StatusBadRequest, "read upload: "+err.Error())
		}
		unit := files.Normalize(fh.Filename, fh.Header.Get("Content-Type"), data)
		req.Units = append(req.Units, unit)
	}
	return req, nil
}
