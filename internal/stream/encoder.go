package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Encoder writes events to the response in SSE framing, flushing after each
// event so the client observes incremental progress.
type Encoder struct {
	w       io.Writer
	flusher http.Flusher
}

// NewEncoder wraps a writer. When the writer also implements http.Flusher
// (echo response writers do), every event is flushed to the transport.
func NewEncoder(w io.Writer) *Encoder {
	enc := &Encoder{w: w}
	if f, ok := w.(http.Flusher); ok {
		enc.flusher = f
	}
	return enc
}

// Encode frames one event as `data: <JSON>\n\n` and flushes it.
func (e *Encoder) Encode(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}
