package normalize

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. The canonical layout comes first so that
// normalizing an already-normalized value is a no-op. Day and month use the
// non-padded tokens: a zero-padded layout token demands two digits from
// time.Parse, while the non-padded one accepts both "5" and "05".
var dateLayouts = []string{
	CanonicalDateLayout,
	"2/1/2006", "2-1-2006",
	"2/1/06", "2-1-06",
	"2 Jan 2006", "2-Jan-2006",
	"2 January 2006", "2-January-2006",
	"January 2, 2006", "Jan 2, 2006",
	"January 2 2006", "Jan 2 2006",
	"2 Jan 06", "2 January 06",
}

// Date parses common statement date spellings (day/month/year numerics,
// spelled-out months, two-digit years) and renders the canonical
// YYYY-MM-DD form. ok=false when no known layout matches.
func Date(raw string) (string, bool) {
	v := reSpaces.ReplaceAllString(strings.TrimSpace(raw), " ")
	if v == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		// Two-digit years land in time.Parse's 1900s/2000s split already,
		// but statements never predate 1950: pull strays forward.
		if t.Year() < 1950 {
			t = t.AddDate(100, 0, 0)
		}
		return t.Format(CanonicalDateLayout), true
	}
	return "", false
}
