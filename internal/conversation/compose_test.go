package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerhq/assistant/internal/files"
)

func TestComposeWithoutUnits(t *testing.T) {
	t.Parallel()
	turn := Compose("hello", nil)

	assert.Equal(t, RoleUser, turn.Role)
	assert.Nil(t, turn.ContentParts())
	assert.Equal(t, "hello", turn.TextContent())
}

func TestComposeEmptyMessageAllowed(t *testing.T) {
	t.Parallel()
	turn := Compose("", nil)

	assert.Equal(t, RoleUser, turn.Role)
	assert.Equal(t, "", turn.TextContent())
}

func TestComposeKeepsInputOrder(t *testing.T) {
	t.Parallel()
	units := []files.ContentUnit{
		{Kind: files.KindImage, Filename: "a.png", MimeType: "image/png", Base64: "aW1n"},
		{Kind: files.KindText, Filename: "b.txt", Text: "contents"},
	}
	turn := Compose("look at these", units)

	parts := turn.ContentParts()
	require.Len(t, parts, 3)
	assert.Equal(t, PartText, parts[0].Type)
	assert.Equal(t, "look at these", parts[0].Text)
	assert.Equal(t, PartImage, parts[1].Type)
	assert.Equal(t, "image/png", parts[1].MimeType)
	assert.Equal(t, "aW1n", parts[1].Data)
	assert.Equal(t, PartText, parts[2].Type)
	assert.Contains(t, parts[2].Text, "===== FILE: b.txt =====")
	assert.Contains(t, parts[2].Text, "contents")
}

func TestComposeSingleTextUnitCollapses(t *testing.T) {
	t.Parallel()
	units := []files.ContentUnit{{Kind: files.KindText, Filename: "notes.txt", Text: "body"}}
	turn := Compose("", units)

	assert.Nil(t, turn.ContentParts())
	assert.Equal(t, "\n\n===== FILE: notes.txt =====\nbody\n==============================\n", turn.TextContent())
}

func TestComposePageCountInBanner(t *testing.T) {
	t.Parallel()
	units := []files.ContentUnit{{Kind: files.KindText, Filename: "doc.pdf", Text: "pages", PageCount: 3}}
	turn := Compose("summarize", units)

	parts := turn.ContentParts()
	require.Len(t, parts, 2)
	assert.Contains(t, parts[1].Text, "===== FILE: doc.pdf (3 pages) =====")
}

func TestComposeUnsupportedUnitCarriesReason(t *testing.T) {
	t.Parallel()
	units := []files.ContentUnit{{Kind: files.KindUnsupported, Filename: "x.bin", Reason: "Unsupported file type"}}
	turn := Compose("what is this", units)

	parts := turn.ContentParts()
	require.Len(t, parts, 2)
	assert.Contains(t, parts[1].Text, "===== FILE: x.bin =====")
	assert.Contains(t, parts[1].Text, "Unsupported file type")
}
