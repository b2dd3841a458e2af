package files

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTextFileVerbatim(t *testing.T) {
	t.Parallel()
	body := "line one\nline two\n"
	unit := Normalize("notes.txt", "text/plain", []byte(body))

	assert.Equal(t, KindText, unit.Kind)
	assert.Equal(t, "notes.txt", unit.Filename)
	assert.Equal(t, body, unit.Text)
}

func TestNormalizeTextExtensions(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"a.md", "a.csv", "a.json", "A.TXT"} {
		unit := Normalize(name, "", []byte("x"))
		assert.Equal(t, KindText, unit.Kind, name)
	}
}

func TestNormalizeUndecodableText(t *testing.T) {
	t.Parallel()
	unit := Normalize("bad.txt", "text/plain", []byte{0xff, 0xfe, 0xfd})

	assert.Equal(t, KindText, unit.Kind)
	assert.Equal(t, "Could not decode text file", unit.Text)
}

func TestNormalizeImage(t *testing.T) {
	t.Parallel()
	data := []byte{0x89, 'P', 'N', 'G'}
	unit := Normalize("photo.PNG", "image/png", data)

	assert.Equal(t, KindImage, unit.Kind)
	assert.Equal(t, "photo.PNG", unit.Filename)
	assert.Equal(t, "image/png", unit.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), unit.Base64)
}

func TestNormalizeUnsupported(t *testing.T) {
	t.Parallel()
	unit := Normalize("archive.tar.gz", "application/gzip", []byte("data"))

	assert.Equal(t, KindUnsupported, unit.Kind)
	assert.Equal(t, "Unsupported file type", unit.Reason)
}

func TestNormalizeCorruptedPDF(t *testing.T) {
	t.Parallel()
	unit := Normalize("broken.pdf", "application/pdf", []byte("this is not a pdf"))

	assert.Equal(t, KindText, unit.Kind)
	assert.True(t, strings.HasPrefix(unit.Text, "Error extracting PDF: "), unit.Text)
}

func TestJoinPageBanner(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "--- Page 2/3 ---\nhello", joinPage(2, 3, "hello"))
}

func docxArchive(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestNormalizeDocx(t *testing.T) {
	t.Parallel()
	doc := `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>First paragraph.</t></r></p>
    <p><r><t> </t></r></p>
    <p><r><t>Second </t></r><r><t>paragraph.</t></r></p>
  </body>
</document>`
	unit := Normalize("report.docx", "", docxArchive(t, doc))

	assert.Equal(t, KindText, unit.Kind)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", unit.Text)
}

func TestNormalizeDocxWithoutText(t *testing.T) {
	t.Parallel()
	doc := `<document><body></body></document>`
	unit := Normalize("empty.docx", "", docxArchive(t, doc))

	assert.Equal(t, "No text found", unit.Text)
}

func TestNormalizeDocxNotAZip(t *testing.T) {
	t.Parallel()
	unit := Normalize("fake.docx", "", []byte("plain bytes"))

	assert.Equal(t, KindText, unit.Kind)
	assert.True(t, strings.HasPrefix(unit.Text, "Could not extract .docx: "), unit.Text)
}

func TestNormalizeDocxMissingDocumentPart(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	unit := Normalize("odd.docx", "", buf.Bytes())
	assert.Equal(t, "Could not extract .docx: missing word/document.xml", unit.Text)
}
