package entity

import "github.com/joseph-ayodele/statement-parser/constants"

// FieldValue is one pipeline's attempt at one field.
type FieldValue struct {
	Raw        string             `json:"raw"`
	Normalized string             `json:"normalized,omitempty"`
	Source     constants.Pipeline `json:"source"`
	Valid      bool               `json:"valid"` // normalization succeeded
}

// ExtractionResult is a single pipeline's extraction for one document.
type ExtractionResult struct {
	Source constants.Pipeline             `json:"source"`
	Fields map[constants.Field]FieldValue `json:"fields"`
}

// NewExtractionResult returns an empty result for a pipeline.
func NewExtractionResult(source constants.Pipeline) ExtractionResult {
	return ExtractionResult{
		Source: source,
		Fields: make(map[constants.Field]FieldValue, len(constants.AllFields())),
	}
}
