package pdftext_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docroute/internal/domain"
	"docroute/internal/observability/logging"
	"docroute/internal/pdftext"
)

func TestValidate(t *testing.T) {
	src := pdftext.New(0, logging.Discard())

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, domain.ErrEmptyPDF},
		{"too small", []byte("%PDF-1.4 tiny"), domain.ErrPDFTooSmall},
		{"no header", bytes.Repeat([]byte("x"), 200), domain.ErrNotPDF},
		{"ok", append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte(" "), 200)...), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := src.Validate(tt.data)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_CustomMinBytes(t *testing.T) {
	src := pdftext.New(10, logging.Discard())
	assert.NoError(t, src.Validate([]byte("%PDF-1.4 tiny")))
}

func TestPageTexts_RejectsInvalidBytes(t *testing.T) {
	src := pdftext.New(0, logging.Discard())
	_, err := src.PageTexts(context.Background(), []byte("hello"), 10)
	assert.ErrorIs(t, err, domain.ErrPDFTooSmall)
}

func TestPageTexts_CorruptBody(t *testing.T) {
	src := pdftext.New(0, logging.Discard())
	data := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("garbage "), 40)...)

	texts, err := src.PageTexts(context.Background(), data, 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPDFExtractionFailed)
	assert.Nil(t, texts)
}
