package bank

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/statement-parser/constants"
)

// Registry holds the profiles in detection priority order.
type Registry struct {
	profiles []*Profile
	logger   *slog.Logger
}

// NewRegistry compiles the given profiles. Order defines detection priority.
func NewRegistry(profiles []*Profile, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	seen := make(map[constants.Bank]struct{}, len(profiles))
	for _, p := range profiles {
		if err := p.compile(); err != nil {
			return nil, err
		}
		if _, dup := seen[p.Bank]; dup {
			return nil, fmt.Errorf("duplicate profile for bank %s", p.Bank)
		}
		seen[p.Bank] = struct{}{}
	}
	return &Registry{profiles: profiles, logger: logger}, nil
}

// Profiles returns the profiles in priority order.
func (r *Registry) Profiles() []*Profile {
	return r.profiles
}

// Lookup returns the profile for a bank id, if configured.
func (r *Registry) Lookup(b constants.Bank) (*Profile, bool) {
	for _, p := range r.profiles {
		if p.Bank == b {
			return p, true
		}
	}
	return nil, false
}

// Detect classifies the issuing bank: the first profile (in priority order)
// with any marker present in the text wins. No match yields BankUnknown and
// a nil profile; callers then degrade to best-effort extraction.
func (r *Registry) Detect(text string) (constants.Bank, *Profile) {
	if strings.TrimSpace(text) == "" {
		return constants.BankUnknown, nil
	}
	lower := strings.ToLower(text)
	for _, p := range r.profiles {
		if p.Matches(lower) {
			return p.Bank, p
		}
	}
	return constants.BankUnknown, nil
}

// Extract applies one profile's pattern set to a text blob and returns the
// raw value per field. Fields are extracted independently.
func (r *Registry) Extract(p *Profile, text string) map[constants.Field]string {
	raw := make(map[constants.Field]string, len(constants.AllFields()))
	if text == "" {
		return raw
	}
	for _, field := range constants.AllFields() {
		if v, ok := p.ExtractField(text, field); ok {
			raw[field] = v
		}
	}
	return raw
}

// ExtractBestEffort runs every profile's candidates against the text when no
// bank was detected, keeping the first non-empty match per field across
// profiles in priority order. It never fails; a field nobody matches is
// simply absent from the result.
func (r *Registry) ExtractBestEffort(text string) map[constants.Field]string {
	raw := make(map[constants.Field]string, len(constants.AllFields()))
	if text == "" {
		return raw
	}
	for _, field := range constants.AllFields() {
		for _, p := range r.profiles {
			if v, ok := p.ExtractField(text, field); ok {
				raw[field] = v
				break
			}
		}
	}
	return raw
}
