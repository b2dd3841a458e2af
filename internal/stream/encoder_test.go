package stream

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerhq/assistant/internal/links"
)

func TestEncodeFraming(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	require.NoError(t, enc.Encode(Thinking("step one\n")))
	require.NoError(t, enc.Encode(Done()))

	out := buf.String()
	frames := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n\n")
	require.Len(t, frames, 2)
	assert.Equal(t, `data: {"type":"thinking","content":"step one\n"}`, frames[0])
	assert.Equal(t, `data: {"type":"done"}`, frames[1])
}

func TestEventShapes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		ev   Event
		want string
	}{
		{"thinking_start", ThinkingStart(), `{"type":"thinking_start"}`},
		{"answer", Answer("tok"), `{"type":"answer","content":"tok"}`},
		{"error", ErrorEvent("model unavailable"), `{"type":"error","message":"model unavailable"}`},
		{
			"links",
			Links([]links.Link{{Title: "T", URL: "https://example.com", Description: "D"}}),
			`{"type":"links","links":[{"title":"T","url":"https://example.com","description":"D"}]}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.ev)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(data))
		})
	}
}

type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() { f.flushes++ }

func TestEncodeFlushesPerEvent(t *testing.T) {
	t.Parallel()
	rec := &flushRecorder{}
	enc := NewEncoder(rec)

	require.NoError(t, enc.Encode(AnswerStart()))
	require.NoError(t, enc.Encode(Answer("x")))
	assert.Equal(t, 2, rec.flushes)
}
