package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/statement-parser/constants"
	"github.com/joseph-ayodele/statement-parser/internal/common"
)

// Adapter extracts the text embedded in a PDF's internal structure.
//
// A well-formed PDF with no extractable text (a pure-raster scan) yields an
// empty string, not an error, so callers can fall back to OCR. Bytes that do
// not parse as a PDF at all yield ErrExtractionFailure.
type Adapter struct {
	logger *slog.Logger
}

func NewAdapter(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{logger: logger}
}

func (a *Adapter) Name() constants.Pipeline {
	return constants.PipelineText
}

func (a *Adapter) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The pdf library panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("pdf text extraction panicked", "panic", r)
			text = ""
			err = fmt.Errorf("read pdf: %v: %w", r, common.ErrExtractionFailure)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		a.logger.Error("failed to open pdf", "error", err)
		return "", fmt.Errorf("open pdf: %v: %w", err, common.ErrExtractionFailure)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// image-only or damaged page; keep going
			a.logger.Debug("page has no extractable text", "page", i, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pageText)
	}

	out := strings.TrimSpace(b.String())
	a.logger.Debug("pdf text extraction done", "pages", reader.NumPage(), "bytes", len(out))
	return out, nil
}
