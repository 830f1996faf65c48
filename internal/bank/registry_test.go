package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/statement-parser/constants"
)

func newBuiltinRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(BuiltinProfiles(), nil)
	require.NoError(t, err)
	return r
}

func TestDetect(t *testing.T) {
	r := newBuiltinRegistry(t)

	tests := []struct {
		name string
		text string
		want constants.Bank
	}{
		{name: "hdfc spaced", text: "HDFC Bank Credit Card Statement", want: constants.BankHDFC},
		{name: "hdfc joined", text: "visit www.hdfcbank.com for details", want: constants.BankHDFC},
		{name: "icici", text: "ICICI Bank Limited statement", want: constants.BankICICI},
		{name: "kotak", text: "Kotak Mahindra credit card", want: constants.BankKotak},
		{name: "amex full", text: "American Express Banking Corp", want: constants.BankAmex},
		{name: "amex abbrev", text: "AEBC card services", want: constants.BankAmex},
		{name: "capital one", text: "Capital One (Europe) plc", want: constants.BankCapitalOne},
		{name: "case insensitive", text: "kotak mahindra", want: constants.BankKotak},
		{name: "no marker", text: "Some Neighborhood Credit Union", want: constants.BankUnknown},
		{name: "empty", text: "", want: constants.BankUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, profile := r.Detect(tt.text)
			assert.Equal(t, tt.want, got)
			if tt.want == constants.BankUnknown {
				assert.Nil(t, profile)
			} else {
				require.NotNil(t, profile)
				assert.Equal(t, tt.want, profile.Bank)
			}
		})
	}
}

// With markers for two banks present, the profile configured earlier wins,
// on every run.
func TestDetectPrecedence(t *testing.T) {
	r := newBuiltinRegistry(t)
	text := "Kotak transfer received. HDFC Bank Credit Card Statement."
	for i := 0; i < 50; i++ {
		got, _ := r.Detect(text)
		require.Equal(t, constants.BankHDFC, got)
	}
}

const hdfcText = `HDFC Bank Credit Card Statement
Card No: 5228 52XX XXXX 0591
Payment Due Date Total Dues Minimum Amount Due
28/06/2019 45,240.00 13,636.00
Statement Date: 08/06/2019
Credit Limit Available Credit Limit Available Cash Limit
3,02,000 2,56,760.00 -`

func TestExtractHDFC(t *testing.T) {
	r := newBuiltinRegistry(t)
	bankID, profile := r.Detect(hdfcText)
	require.Equal(t, constants.BankHDFC, bankID)

	raw := r.Extract(profile, hdfcText)
	assert.Equal(t, "28/06/2019", raw[constants.FieldDueDate])
	assert.Equal(t, "0591", raw[constants.FieldLast4Digits])
	assert.Equal(t, "3,02,000", raw[constants.FieldCreditLimit])
	assert.Equal(t, "2,56,760.00", raw[constants.FieldAvailableCredit])
	assert.Equal(t, "08/06/2019", raw[constants.FieldStatementDate])
}

const iciciText = `ICICI Bank Credit Card Statement
Statement Date: 15/05/2024
Due Date : 02/06/2024
4375 XXXX XXXX 3003
Account Summary 3,410.51 6,481.76 0.00 4,009.75
Credit Limit Available Credit
Summary 83,000.00 77,115.48`

func TestExtractICICI(t *testing.T) {
	r := newBuiltinRegistry(t)
	bankID, profile := r.Detect(iciciText)
	require.Equal(t, constants.BankICICI, bankID)

	raw := r.Extract(profile, iciciText)
	assert.Equal(t, "02/06/2024", raw[constants.FieldDueDate])
	assert.Equal(t, "3003", raw[constants.FieldLast4Digits])
	// the limits come from the summary line after "Credit Limit Available
	// Credit", not the account summary line above it
	assert.Equal(t, "83,000.00", raw[constants.FieldCreditLimit])
	assert.Equal(t, "77,115.48", raw[constants.FieldAvailableCredit])
	assert.Equal(t, "15/05/2024", raw[constants.FieldStatementDate])
}

const kotakText = `Kotak Mahindra Bank Credit Card
Statement Date 05-Nov-2024
Due Date 29-Nov-2024
414767XXXXXX6705
Credit Limit(Rs.) Available Credit
900,000 380,229.49`

func TestExtractKotak(t *testing.T) {
	r := newBuiltinRegistry(t)
	bankID, profile := r.Detect(kotakText)
	require.Equal(t, constants.BankKotak, bankID)

	raw := r.Extract(profile, kotakText)
	assert.Equal(t, "29-Nov-2024", raw[constants.FieldDueDate])
	assert.Equal(t, "6705", raw[constants.FieldLast4Digits])
	assert.Equal(t, "900,000", raw[constants.FieldCreditLimit])
	assert.Equal(t, "380,229.49", raw[constants.FieldAvailableCredit])
	assert.Equal(t, "05-Nov-2024", raw[constants.FieldStatementDate])
}

const amexText = `American Express
Membership Number Date
XXXX-XXXXXX-01007 14/01/2024
Minimum Payment: Rs 23,000.00 Due by February 1, 2024
Credit Summary Credit Limit Rs Available Credit Limit Rs
At 14/01/2024 470,000.00 257,545.52`

func TestExtractAmex(t *testing.T) {
	r := newBuiltinRegistry(t)
	bankID, profile := r.Detect(amexText)
	require.Equal(t, constants.BankAmex, bankID)

	raw := r.Extract(profile, amexText)
	assert.Equal(t, "February 1, 2024", raw[constants.FieldDueDate])
	// membership numbers mask all but five digits; the card's last four are
	// the tail of those
	assert.Equal(t, "1007", raw[constants.FieldLast4Digits])
	assert.Equal(t, "470,000.00", raw[constants.FieldCreditLimit])
	assert.Equal(t, "257,545.52", raw[constants.FieldAvailableCredit])
	assert.Equal(t, "14/01/2024", raw[constants.FieldStatementDate])
}

const capitalOneText = `Capital One
Statement date 5 October 24
Your new balance: £219.26
It's due on 31 Oct 24
**** **** **** 4811
Credit limit £1,000.00
Available to spend as
at 05/10/24
£780.74`

func TestExtractCapitalOne(t *testing.T) {
	r := newBuiltinRegistry(t)
	bankID, profile := r.Detect(capitalOneText)
	require.Equal(t, constants.BankCapitalOne, bankID)

	raw := r.Extract(profile, capitalOneText)
	assert.Equal(t, "31 Oct 24", raw[constants.FieldDueDate])
	assert.Equal(t, "4811", raw[constants.FieldLast4Digits])
	assert.Equal(t, "1,000.00", raw[constants.FieldCreditLimit])
	assert.Equal(t, "780.74", raw[constants.FieldAvailableCredit])
	assert.Equal(t, "5 October 24", raw[constants.FieldStatementDate])
}

// ICICI statements sometimes print the masked card number with only three
// trailing digits; the extractor still captures them.
func TestExtractICICIShortLast4(t *testing.T) {
	r := newBuiltinRegistry(t)
	text := `ICICI Bank Credit Card Statement
4375 XXXX XXXX 591 statement of account`

	bankID, profile := r.Detect(text)
	require.Equal(t, constants.BankICICI, bankID)

	raw := r.Extract(profile, text)
	assert.Equal(t, "591", raw[constants.FieldLast4Digits])
}

// A document matching no detector still yields whatever fields any profile's
// candidates happen to match.
func TestExtractBestEffort(t *testing.T) {
	r := newBuiltinRegistry(t)

	// Kotak-shaped layout without any Kotak marker
	text := `Some Neighborhood Bank
Due Date 29-Nov-2024
414767XXXXXX6705
Credit Limit(Rs.) Available Credit
900,000 380,229.49`

	bankID, profile := r.Detect(text)
	require.Equal(t, constants.BankUnknown, bankID)
	require.Nil(t, profile)

	raw := r.ExtractBestEffort(text)
	assert.Equal(t, "29-Nov-2024", raw[constants.FieldDueDate])
	assert.Equal(t, "6705", raw[constants.FieldLast4Digits])
	assert.Equal(t, "900,000", raw[constants.FieldCreditLimit])
	assert.Equal(t, "380,229.49", raw[constants.FieldAvailableCredit])
	// nothing matches a statement date pattern here
	_, found := raw[constants.FieldStatementDate]
	assert.False(t, found)
}

func TestNewRegistryRejectsBadProfiles(t *testing.T) {
	_, err := NewRegistry([]*Profile{{Bank: constants.BankHDFC}}, nil)
	assert.Error(t, err, "profile without markers")

	_, err = NewRegistry([]*Profile{
		{Bank: constants.BankHDFC, Markers: []Marker{{Literal: "hdfc"}}},
		{Bank: constants.BankHDFC, Markers: []Marker{{Literal: "hdfc bank"}}},
	}, nil)
	assert.Error(t, err, "duplicate bank id")

	_, err = NewRegistry([]*Profile{{
		Bank:    constants.BankHDFC,
		Markers: []Marker{{Literal: "hdfc"}},
		Fields: map[constants.Field][]Candidate{
			constants.FieldDueDate: {{Pattern: `([unbalanced`}},
		},
	}}, nil)
	assert.Error(t, err, "invalid pattern")
}
