package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docroute/internal/cli"
	"docroute/internal/domain"
)

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single page", "hello", []string{"hello"}},
		{"two pages", "one\ftwo", []string{"one", "two"}},
		{"trailing form feed", "one\ftwo\f", []string{"one", "two"}},
		{"blank middle page", "one\f\ftwo", []string{"one", "", "two"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.SplitPages(tt.in))
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDocument(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		doc, err := cli.LoadDocument(writeFile(t, "batch.txt", "a\fb"))
		require.NoError(t, err)
		assert.Equal(t, "batch.txt", doc.Filename)
		assert.Equal(t, []string{"a", "b"}, doc.Pages)
		assert.Nil(t, doc.PDF)
	})

	t.Run("json", func(t *testing.T) {
		doc, err := cli.LoadDocument(writeFile(t, "in.json", `{"filename":"meta_receipt.pdf","pages":["x","y"]}`))
		require.NoError(t, err)
		assert.Equal(t, "meta_receipt.pdf", doc.Filename)
		assert.Equal(t, []string{"x", "y"}, doc.Pages)
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := cli.LoadDocument(writeFile(t, "in.json", `{"pages":`))
		assert.Error(t, err)
	})

	t.Run("pdf", func(t *testing.T) {
		doc, err := cli.LoadDocument(writeFile(t, "scan.PDF", "%PDF-1.4"))
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), doc.PDF)
		assert.Empty(t, doc.Pages)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := cli.LoadDocument(writeFile(t, "sheet.xlsx", "PK"))
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := cli.LoadDocument(filepath.Join(t.TempDir(), "nope.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
