package constants

// Field names the extractable statement fields.
type Field string

const (
	FieldDueDate         Field = "due_date"
	FieldLast4Digits     Field = "last_4_digits"
	FieldCreditLimit     Field = "credit_limit"
	FieldAvailableCredit Field = "available_credit"
	FieldStatementDate   Field = "statement_date"
)

// NotFound is the stored sentinel for a field neither pipeline produced a
// normalized value for.
const NotFound = "NOT_FOUND"

var allFields = []Field{
	FieldDueDate,
	FieldLast4Digits,
	FieldCreditLimit,
	FieldAvailableCredit,
	FieldStatementDate,
}

// AllFields returns every extractable field in stable order.
func AllFields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// Pipeline tags which text-production path a value came from.
type Pipeline string

const (
	PipelineText Pipeline = "text"
	PipelineOCR  Pipeline = "ocr"
)
