package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docroute/internal/domain"
)

// Document is one CLI input: either page texts or raw PDF bytes.
type Document struct {
	Path     string
	Filename string
	Pages    []string
	PDF      []byte
}

// jsonDocument mirrors the HTTP analyze body.
type jsonDocument struct {
	Filename string   `json:"filename"`
	Pages    []string `json:"pages"`
}

// LoadDocument reads path by extension: .pdf as bytes, .txt split into pages on form feeds,
// .json as {"filename": ..., "pages": [...]}.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc := &Document{Path: path, Filename: filepath.Base(path)}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		doc.PDF = data
	case ".txt", ".text":
		doc.Pages = SplitPages(string(data))
	case ".json":
		var jd jsonDocument
		if err := json.Unmarshal(data, &jd); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		if jd.Filename != "" {
			doc.Filename = jd.Filename
		}
		doc.Pages = jd.Pages
	default:
		return nil, fmt.Errorf("%s: unsupported file type %q (want .pdf, .txt or .json): %w",
			path, filepath.Ext(path), domain.ErrInvalidRequest)
	}
	return doc, nil
}

// SplitPages splits extracted text on form feeds, the page separator pdftotext emits.
// A single trailing form feed does not produce an extra empty page.
func SplitPages(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\f")
	return strings.Split(text, "\f")
}
