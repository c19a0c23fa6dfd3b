package port

import (
	"context"

	"lenflow/internal/extraction"
)

// Extractor abstracts the external OCR/extraction service.
type Extractor interface {
	Extract(ctx context.Context, input extraction.ExtractInput) (*extraction.Payload, error)
}
