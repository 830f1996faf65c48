package bank

import "github.com/joseph-ayodele/statement-parser/constants"

// BuiltinProfiles returns the configured bank profiles in detection priority
// order. Pattern tables were derived from real statement text of each issuer;
// candidate order matters, the first matching candidate wins.
func BuiltinProfiles() []*Profile {
	return []*Profile{
		hdfcProfile(),
		iciciProfile(),
		kotakProfile(),
		amexProfile(),
		capitalOneProfile(),
	}
}

func hdfcProfile() *Profile {
	return &Profile{
		Bank: constants.BankHDFC,
		Markers: []Marker{
			{Literal: "hdfc bank"},
			{Literal: "hdfcbank"},
		},
		Fields: map[constants.Field][]Candidate{
			// Payment Due Date Total Dues Minimum Amount Due
			// 28/06/2019 45,240.00 13,636.00
			constants.FieldDueDate: {
				{Pattern: `Payment\s+Due\s+Date\s+Total\s+Dues\s+Minimum\s+Amount\s+Due\s+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`},
				{Pattern: `Payment\s+Due\s+Date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`},
			},
			// Card No: 5228 52XX XXXX 0591
			constants.FieldLast4Digits: {
				{Pattern: `Card\s+No[:\s]+\d{4}\s+\d{2}XX\s+XXXX\s+(\d{4})`},
			},
			// Credit Limit Available Credit Limit Available Cash Limit
			// 3,02,000 2,56,760.00 - (Indian digit grouping)
			constants.FieldCreditLimit: {
				{Pattern: `Credit\s+Limit\s+Available\s+Credit\s+Limit[^\d]+(\d{1},?\d{2},\d{3})`},
			},
			constants.FieldAvailableCredit: {
				{Pattern: `Available\s+Credit\s+Limit[^\d]+\d{1},?\d{2},\d{3}[^\d]+(\d{1},\d{2},\d{3}(?:\.\d{2})?)`},
				{Pattern: `Credit\s+Limit[^\d]+\d{1},?\d{2},\d{3}[^\d]+(\d{1},\d{2},\d{3}(?:\.\d{2})?)`},
				{Pattern: `Credit\s+Limit\s+Available\s+Credit\s+Limit[^\d]+\d{1},?\d{2},\d{3}\s+([0-9,]+)`},
			},
			constants.FieldStatementDate: {
				{Pattern: `Statement\s+Date[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{4})`},
			},
		},
	}
}

func iciciProfile() *Profile {
	// ICICI statements carry two "Summary" lines; only the one following
	// "Credit Limit Available Credit" holds the limits.
	creditSummary := `Credit\s+(?:Credit\s+)?Limit\s+Available\s+Credit[^S]*?Summary\s+(\d{1,3},\d{3}(?:\.\d{2})?)\s+(\d{1,3},\d{3}(?:\.\d{2})?)`
	creditSummaryAlt := `Credit\s+Summary\s*Credit\s+Limit\s+Available\s+Credit[^\d]+(\d{1,3},\d{3}(?:\.\d{2})?)\s+(\d{1,3},\d{3}(?:\.\d{2})?)`
	return &Profile{
		Bank: constants.BankICICI,
		Markers: []Marker{
			{Literal: "icici bank"},
			{Literal: "icicibank"},
		},
		Fields: map[constants.Field][]Candidate{
			constants.FieldDueDate: {
				{Pattern: `Due\s+Date\s*:\s+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`},
			},
			// 4375 XXXX XXXX 3003 — the greedy prefix pins the last
			// occurrence, the summary page repeats masked numbers. Three
			// digits are accepted too: a dropped leading zero is padded
			// back during normalization.
			constants.FieldLast4Digits: {
				{Pattern: `.*\d{4}\s+XXXX\s+XXXX\s+(\d{3,4})`},
			},
			constants.FieldCreditLimit: {
				{Pattern: creditSummary, Group: 1},
				{Pattern: creditSummaryAlt, Group: 1},
			},
			constants.FieldAvailableCredit: {
				{Pattern: creditSummary, Group: 2},
				{Pattern: creditSummaryAlt, Group: 2},
			},
			constants.FieldStatementDate: {
				{Pattern: `Statement\s+Date[^\d]{0,50}?(\d{1,2}[/-]\d{1,2}[/-]\d{4})`},
			},
		},
	}
}

func kotakProfile() *Profile {
	return &Profile{
		Bank: constants.BankKotak,
		Markers: []Marker{
			{Literal: "kotak"},
		},
		Fields: map[constants.Field][]Candidate{
			// Due Date 29-Nov-2024
			constants.FieldDueDate: {
				{Pattern: `Due\s+Date\s+(\d{1,2}[-/]\w{3}[-/]\d{4})`},
			},
			// 414767XXXXXX6705
			constants.FieldLast4Digits: {
				{Pattern: `\d{6}X+(\d{4})`},
			},
			// Credit Limit(Rs.) Available Credit
			// 900,000 380,229.49
			constants.FieldCreditLimit: {
				{Pattern: `Credit\s+Limit\s*\(Rs\.\)\s+Available\s+Credit[^\d]+([0-9,]+(?:\.\d{2})?)`},
			},
			constants.FieldAvailableCredit: {
				{Pattern: `Credit\s+Limit\s*\(Rs\.\)\s+Available\s+Credit[^\d]+[0-9,]+(?:\.\d{2})?\s+([0-9,]+(?:\.\d{2})?)`},
			},
			constants.FieldStatementDate: {
				{Pattern: `Statement\s+Date\s+(\d{1,2}[-/]\w{3}[-/]\d{4})`},
			},
		},
	}
}

func amexProfile() *Profile {
	creditSummary := `Credit\s+Summary\s+Credit\s+Limit\s+Rs[^\d]+Available\s+Credit\s+Limit\s+Rs[^\d]+At[^\d]+\d{1,2}[/-]\d{1,2}[/-]\d{4}\s+([0-9,]+(?:\.\d{2})?)\s+([0-9,]+(?:\.\d{2})?)`
	atLine := `At\s+\w+\s+\d{1,2},?\s+\d{4}\s+([0-9,]+(?:\.\d{2})?)\s+([0-9,]+(?:\.\d{2})?)`
	return &Profile{
		Bank: constants.BankAmex,
		Markers: []Marker{
			{Literal: "american express"},
			{Literal: "amex"},
			{Literal: "aebc"},
		},
		Fields: map[constants.Field][]Candidate{
			// Minimum Payment: Rs 5,000.00 Due by February 1, 2024
			constants.FieldDueDate: {
				{Pattern: `Due\s+by\s+(\w+\s+\d{1,2},?\s+\d{4})`},
			},
			// Membership Number XXXX-XXXXXX-01007 masks all but five digits;
			// the card's printed last four are the tail of those
			constants.FieldLast4Digits: {
				{Pattern: `XXXX-XXXX+-\d(\d{4})`},
				{Pattern: `Membership\s+Number[^\d]+XXXX-XXXX+-\d(\d{4})`},
			},
			constants.FieldCreditLimit: {
				{Pattern: creditSummary, Group: 1},
				{Pattern: atLine, Group: 1},
			},
			constants.FieldAvailableCredit: {
				{Pattern: creditSummary, Group: 2},
				{Pattern: atLine, Group: 2},
			},
			constants.FieldStatementDate: {
				{Pattern: `Membership\s+Number\s+Date[^\d]+XXXX-XXXX+-\d{5}\s+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`},
				{Pattern: `Date[^\d]+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`},
			},
		},
	}
}

func capitalOneProfile() *Profile {
	return &Profile{
		Bank: constants.BankCapitalOne,
		Markers: []Marker{
			{Literal: "capital one"},
			{Literal: "capitalone"},
		},
		Fields: map[constants.Field][]Candidate{
			// It's due on 31 Oct 24
			constants.FieldDueDate: {
				{Pattern: `It'?s\s+due\s+on\s+(\d{1,2}\s+\w{3}\s+\d{2,4})`},
			},
			// **** **** **** 4811
			constants.FieldLast4Digits: {
				{Pattern: `\*{4}\s+\*{4}\s+\*{4}\s+(\d{4})`},
			},
			constants.FieldCreditLimit: {
				{Pattern: `Credit\s+limit[^\d]+£([0-9,]+(?:\.\d{2})?)`},
			},
			// Available to spend as
			// at 05/10/24
			// £780.74
			constants.FieldAvailableCredit: {
				{Pattern: `Available\s+to\s+spend\s+as[^\d£]*at[^\d]+\d{2}/\d{2}/\d{2}[^\d£]+£([0-9,]+(?:\.\d{2})?)`},
				{Pattern: `Available\s+to\s+spend[^\d£]+£([0-9,]+(?:\.\d{2})?)`},
			},
			// Statement date 5 October 24
			constants.FieldStatementDate: {
				{Pattern: `Statement\s+date[^\d]+(\d{1,2}\s+\w+\s+\d{2,4})`},
			},
		},
	}
}
