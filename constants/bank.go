package constants

import "strings"

// Bank is the canonical identifier for an issuing bank.
type Bank string

// Stable values (store these exact strings in DB).
const (
	BankHDFC       Bank = "HDFC"
	BankICICI      Bank = "ICICI"
	BankKotak      Bank = "KOTAK"
	BankAmex       Bank = "AMEX"
	BankCapitalOne Bank = "CAPITAL_ONE"
	BankUnknown    Bank = "UNKNOWN"
)

var allBanks = []Bank{
	BankHDFC,
	BankICICI,
	BankKotak,
	BankAmex,
	BankCapitalOne,
}

// SupportedBanks returns the banks with a configured profile, in detection
// priority order.
func SupportedBanks() []Bank {
	out := make([]Bank, len(allBanks))
	copy(out, allBanks)
	return out
}

// ParseBank canonicalizes a bank string. Unrecognized input maps to
// BankUnknown with ok=false.
func ParseBank(input string) (Bank, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	for _, b := range allBanks {
		if normalized == string(b) {
			return b, true
		}
	}
	if normalized == string(BankUnknown) {
		return BankUnknown, true
	}
	return BankUnknown, false
}
