// Package bank holds the bank profile table: how to recognize an issuing
// bank in statement text and which patterns pull each field out of it.
// Profiles are data, not code; adding a bank never touches the engine.
package bank

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/statement-parser/constants"
)

// Marker identifies a bank in statement text. Either a literal substring
// (matched case-insensitively) or a regular expression, never both.
type Marker struct {
	Literal string `json:"literal,omitempty"`
	Pattern string `json:"pattern,omitempty"`

	re *regexp.Regexp
}

func (m *Marker) compile() error {
	if m.Literal != "" && m.Pattern != "" {
		return fmt.Errorf("marker has both literal and pattern")
	}
	if m.Literal == "" && m.Pattern == "" {
		return fmt.Errorf("marker is empty")
	}
	if m.Pattern != "" {
		re, err := regexp.Compile("(?is)" + m.Pattern)
		if err != nil {
			return fmt.Errorf("marker pattern %q: %w", m.Pattern, err)
		}
		m.re = re
	}
	return nil
}

func (m *Marker) matches(lowerText string) bool {
	if m.Literal != "" {
		return strings.Contains(lowerText, strings.ToLower(m.Literal))
	}
	return m.re.MatchString(lowerText)
}

// Candidate is one regex attempt at a field. Candidates are tried in order
// until one yields its designated capturing group.
type Candidate struct {
	Pattern string `json:"pattern"`
	// Group is the capturing group holding the value; 0 means group 1.
	Group int `json:"group,omitempty"`

	re *regexp.Regexp
}

func (c *Candidate) compile() error {
	if c.Pattern == "" {
		return fmt.Errorf("candidate has empty pattern")
	}
	// case-insensitive, dot matches newline: statement layouts fold lines
	re, err := regexp.Compile("(?is)" + c.Pattern)
	if err != nil {
		return fmt.Errorf("candidate pattern %q: %w", c.Pattern, err)
	}
	group := c.Group
	if group == 0 {
		group = 1
	}
	if group > re.NumSubexp() {
		return fmt.Errorf("candidate pattern %q has no group %d", c.Pattern, group)
	}
	c.re = re
	return nil
}

// Profile is the immutable per-bank configuration: detector markers plus
// ordered per-field extraction candidates.
type Profile struct {
	Bank    constants.Bank                  `json:"bank"`
	Markers []Marker                        `json:"markers"`
	Fields  map[constants.Field][]Candidate `json:"fields"`
}

func (p *Profile) compile() error {
	if p.Bank == "" || p.Bank == constants.BankUnknown {
		return fmt.Errorf("profile needs a concrete bank id")
	}
	if len(p.Markers) == 0 {
		return fmt.Errorf("profile %s has no detector markers", p.Bank)
	}
	for i := range p.Markers {
		if err := p.Markers[i].compile(); err != nil {
			return fmt.Errorf("profile %s: %w", p.Bank, err)
		}
	}
	for field, candidates := range p.Fields {
		for i := range candidates {
			if err := candidates[i].compile(); err != nil {
				return fmt.Errorf("profile %s field %s: %w", p.Bank, field, err)
			}
		}
	}
	return nil
}

// Matches reports whether any detector marker occurs in the text.
// The text must already be lowercased.
func (p *Profile) Matches(lowerText string) bool {
	for i := range p.Markers {
		if p.Markers[i].matches(lowerText) {
			return true
		}
	}
	return false
}

// ExtractField tries the field's candidates in order and returns the first
// successful match's designated capturing group as the raw value.
func (p *Profile) ExtractField(text string, field constants.Field) (string, bool) {
	for i := range p.Fields[field] {
		c := &p.Fields[field][i]
		m := c.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		group := c.Group
		if group == 0 {
			group = 1
		}
		if group >= len(m) || m[group] == "" {
			continue
		}
		return strings.TrimSpace(m[group]), true
	}
	return "", false
}
