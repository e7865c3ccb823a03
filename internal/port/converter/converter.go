// Package converter defines the PDF conversion port (interface).
package converter

import "context"

// Converter turns a rendered DOCX into a PDF. Implementations must bound
// the call with the context deadline; failures are reported as
// domain.ErrConversion (wrapped) and callers degrade to DOCX-only output.
type Converter interface {
	Convert(ctx context.Context, docxBytes []byte) ([]byte, error)
}
