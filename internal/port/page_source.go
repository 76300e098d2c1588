package port

import "context"

// PageSource abstracts text extraction from a binary document. Implementations return one
// string per page in page order; a page that cannot be read yields "" so indices stay aligned.
type PageSource interface {
	PageTexts(ctx context.Context, data []byte, maxPages int) ([]string, error)
}
