// Package normalize converts raw matched substrings into canonical field
// representations. Every function is pure and idempotent: feeding an already
// canonical value back in yields the same value.
package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/statement-parser/constants"
)

// CanonicalDateLayout is the output format for all date fields.
const CanonicalDateLayout = "2006-01-02"

// Field dispatches to the normalizer for the field's type. ok=false means
// the raw value failed validation and the field counts as not found for its
// pipeline.
func Field(f constants.Field, raw string) (string, bool) {
	switch f {
	case constants.FieldDueDate, constants.FieldStatementDate:
		return Date(raw)
	case constants.FieldCreditLimit, constants.FieldAvailableCredit:
		return Amount(raw)
	case constants.FieldLast4Digits:
		return Last4(raw)
	}
	return "", false
}

var (
	reAmountNoise = regexp.MustCompile(`[^\d,.]`)
	reLast4       = regexp.MustCompile(`^\d{3,4}$`)
	reSpaces      = regexp.MustCompile(`\s+`)
)

// Amount strips currency symbols and thousands separators (both western
// 83,000.00 and Indian 3,02,000 grouping) and returns a plain non-negative
// decimal string. The source's decimal scale is kept as-is, so "83,000.00"
// stays "83000.00"; decimal.String would trim the trailing zeros.
func Amount(raw string) (string, bool) {
	cleaned := reAmountNoise.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return "", false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return "", false
	}
	scale := 0
	if i := strings.LastIndex(cleaned, "."); i >= 0 {
		scale = len(cleaned) - i - 1
	}
	return d.StringFixed(int32(scale)), true
}

// Last4 accepts four numeric characters, or three: statements occasionally
// print the masked card number with a dropped leading zero, which gets
// padded back.
func Last4(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if !reLast4.MatchString(v) {
		return "", false
	}
	if len(v) == 3 {
		v = "0" + v
	}
	return v, true
}
