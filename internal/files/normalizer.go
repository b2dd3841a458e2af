// Package files normalizes uploaded files into typed content units that the
// message composer can fold into a model turn. Normalization never fails:
// every error mode degrades to a unit carrying a diagnostic body.
package files

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Kind discriminates the content unit variants.
type Kind string

const (
	KindImage       Kind = "image"
	KindText        Kind = "text"
	KindUnsupported Kind = "unsupported"
)

// Diagnostic bodies for degraded extractions.
const (
	msgUndecodableText = "Could not decode text file"
	msgEmptyPDF        = "Empty PDF"
	msgNoDocxText      = "No text found"
	msgUnsupported     = "Unsupported file type"
)

// ContentUnit is the normalized representation of one uploaded file.
// Image units carry MimeType and Base64; text units carry Text and, for PDFs,
// PageCount; unsupported units carry Reason.
type ContentUnit struct {
	Kind      Kind
	Filename  string
	MimeType  string
	Base64    string
	Text      string
	PageCount int
	Reason    string
}

var imageExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".webp": {},
}

var textExts = map[string]struct{}{
	".txt": {}, ".md": {}, ".csv": {}, ".json": {},
}

// Normalize converts one uploaded file into a content unit, dispatching on
// the file extension (case-insensitive). It never returns an error: failed
// extractions produce a unit whose body describes the failure.
func Normalize(filename, mimeType string, data []byte) ContentUnit {
	ext := strings.ToLower(filepath.Ext(filename))

	if _, ok := imageExts[ext]; ok {
		return ContentUnit{
			Kind:     KindImage,
			Filename: filename,
			MimeType: mimeType,
			Base64:   base64.StdEncoding.EncodeToString(data),
		}
	}

	if _, ok := textExts[ext]; ok {
		if !utf8.Valid(data) {
			return ContentUnit{Kind: KindText, Filename: filename, Text: msgUndecodableText}
		}
		return ContentUnit{Kind: KindText, Filename: filename, Text: string(data)}
	}

	switch ext {
	case ".pdf":
		text, pages := extractPDF(data)
		return ContentUnit{Kind: KindText, Filename: filename, Text: text, PageCount: pages}
	case ".docx":
		return ContentUnit{Kind: KindText, Filename: filename, Text: extractDocx(data)}
	}

	return ContentUnit{Kind: KindUnsupported, Filename: filename, Reason: msgUnsupported}
}

// extractPDF pulls per-page plain text, joined with page banners. Any parse
// failure, including panics from the pdf reader on malformed input, resolves
// to a diagnostic string.
func extractPDF(data []byte) (text string, pages int) {
	defer func() {
		if r := recover(); r != nil {
			text = fmt.Sprintf("Error extracting PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Sprintf("Error extracting PDF: %v", err), 0
	}

	pages = reader.NumPage()
	pageTexts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		body := ""
		if !page.V.IsNull() {
			if t, err := page.GetPlainText(nil); err == nil {
				body = t
			}
		}
		// Pages without text are skipped rather than rendered as bare banners.
		if strings.TrimSpace(body) == "" {
			continue
		}
		pageTexts = append(pageTexts, joinPage(i, pages, body))
	}

	if len(pageTexts) == 0 {
		return msgEmptyPDF, pages
	}
	return strings.Join(pageTexts, "\n\n"), pages
}

// joinPage renders one page with its position banner.
func joinPage(i, total int, body string) string {
	return fmt.Sprintf("--- Page %d/%d ---\n%s", i, total, body)
}

// docx XML shape: paragraphs are w:p elements, text runs are w:t elements.
type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Texts []string `xml:"r>t"`
}

// extractDocx reads the main document part of a .docx archive and joins
// non-empty paragraph text with newlines.
func extractDocx(data []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Sprintf("Could not extract .docx: %v", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "Could not extract .docx: missing word/document.xml"
	}

	rc, err := doc.Open()
	if err != nil {
		return fmt.Sprintf("Could not extract .docx: %v", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Sprintf("Could not extract .docx: %v", err)
	}

	var parsed docxDocument
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Sprintf("Could not extract .docx: %v", err)
	}

	paragraphs := make([]string, 0, len(parsed.Body.Paragraphs))
	for _, p := range parsed.Body.Paragraphs {
		line := strings.Join(p.Texts, "")
		if strings.TrimSpace(line) != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	if len(paragraphs) == 0 {
		return msgNoDocxText
	}
	return strings.Join(paragraphs, "\n")
}
