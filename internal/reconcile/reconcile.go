// Package reconcile combines the two pipelines' extractions into one final
// value per field.
//
// Direct text extraction, when it produced a value that survived
// normalization, always wins: embedded text is lossless with respect to the
// document's encoded content, while OCR is a noisier fallback for scanned
// documents. A disagreement between two normalized values never changes the
// outcome, it is only surfaced as a diagnostic for operator review.
package reconcile

import (
	"log/slog"

	"github.com/joseph-ayodele/statement-parser/constants"
	"github.com/joseph-ayodele/statement-parser/internal/entity"
)

// Diagnostic records a per-field disagreement between normalized pipeline
// values. It never reaches the stored record.
type Diagnostic struct {
	Field     constants.Field `json:"field"`
	TextValue string          `json:"text_value"`
	OCRValue  string          `json:"ocr_value"`
}

// Merge resolves each field independently: text-pipeline value if it
// normalized, else OCR-pipeline value if it normalized, else the NotFound
// sentinel.
func Merge(textRes, ocrRes entity.ExtractionResult, logger *slog.Logger) (map[constants.Field]string, []Diagnostic) {
	if logger == nil {
		logger = slog.Default()
	}
	final := make(map[constants.Field]string, len(constants.AllFields()))
	var diags []Diagnostic

	for _, field := range constants.AllFields() {
		tv, tok := textRes.Fields[field]
		ov, ook := ocrRes.Fields[field]

		switch {
		case tok && tv.Valid:
			final[field] = tv.Normalized
			if ook && ov.Valid && ov.Normalized != tv.Normalized {
				d := Diagnostic{Field: field, TextValue: tv.Normalized, OCRValue: ov.Normalized}
				diags = append(diags, d)
				logger.Warn("pipeline disagreement",
					"field", field,
					"text_value", tv.Normalized,
					"ocr_value", ov.Normalized,
				)
			}
		case ook && ov.Valid:
			final[field] = ov.Normalized
		default:
			final[field] = constants.NotFound
		}
	}
	return final, diags
}
