package extract

import (
	"context"

	"github.com/joseph-ayodele/statement-parser/constants"
)

// TextSource is one text-production path: statement bytes -> text.
//
// Both pipelines implement it: the direct adapter reads the PDF's embedded
// text, the OCR adapter rasterizes pages and recognizes them. Empty output
// with a nil error means "this document has no text this path can see" (for
// example a pure-raster scan under the direct adapter) and is a normal
// outcome, not a failure. A non-nil error means the path could not read the
// bytes at all.
type TextSource interface {
	Name() constants.Pipeline
	Extract(ctx context.Context, data []byte) (string, error)
}
