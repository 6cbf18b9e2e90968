// Package pdf renders structured invoice documents to PDF.
package pdf

import (
	"context"
	"io"

	"github.com/praxislegal/praxis/internal/invoice/render"
)

type Provider interface {
	GenerateDocument(ctx context.Context, doc render.Document) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateDocument(ctx context.Context, doc render.Document) (io.Reader, error) {
	return nil, nil
}
