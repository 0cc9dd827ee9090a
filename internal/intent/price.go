package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// PriceRange is an extracted price constraint. A nil Min or Max means that
// side is unconstrained.
type PriceRange struct {
	Min *float64
	Max *float64
}

// amountPat matches a money amount with optional currency sign, thousands
// separators, and cents. Exactly one capture group.
const amountPat = `\$?\s*(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`

var (
	maxRe     = regexp.MustCompile(`(?i)\b(?:under|below|less than|maximum of)\s*` + amountPat)
	minRe     = regexp.MustCompile(`(?i)\b(?:over|above|more than|minimum of)\s*` + amountPat)
	betweenRe = regexp.MustCompile(`(?i)\bbetween\s*` + amountPat + `\s*(?:and|to|-)\s*` + amountPat)
	rangeRe   = regexp.MustCompile(`(?i)` + amountPat + `\s*(?:-|to)\s*` + amountPat)
	bareRe    = regexp.MustCompile(`(?i)(?:\$\s*(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)|` +
		`\b(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)\s*dollars?\b)`)
	maxHintRe = regexp.MustCompile(`(?i)\b(?:budget|under|below|less|maximum|max)\b`)
)

// ExtractPriceRange pulls a price constraint out of an utterance. The
// patterns are tried in precedence order and only the first one fires.
// Returns nil when no pattern matches.
func ExtractPriceRange(text string) *PriceRange {
	if m := maxRe.FindStringSubmatch(text); m != nil {
		v := parseAmount(m[1])
		return &PriceRange{Max: &v}
	}

	if m := minRe.FindStringSubmatch(text); m != nil {
		v := parseAmount(m[1])
		return &PriceRange{Min: &v}
	}

	if m := betweenRe.FindStringSubmatch(text); m != nil {
		return orderedRange(parseAmount(m[1]), parseAmount(m[2]))
	}
	if m := rangeRe.FindStringSubmatch(text); m != nil {
		return orderedRange(parseAmount(m[1]), parseAmount(m[2]))
	}

	// A bare dollar amount with no comparison keyword attached to it. With a
	// budget-style hint anywhere in the utterance it acts as a cap;
	// otherwise it is an approximate target widened by 20% each way.
	if m := bareRe.FindStringSubmatch(text); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		v := parseAmount(raw)
		if maxHintRe.MatchString(text) {
			return &PriceRange{Max: &v}
		}
		lo, hi := v*0.8, v*1.2
		return &PriceRange{Min: &lo, Max: &hi}
	}

	return nil
}

// Contains reports whether price lies within the range. A missing bound is
// unconstrained on that side.
func (r *PriceRange) Contains(price float64) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

// Describe renders the range for reply text, e.g. "under $900".
func (r *PriceRange) Describe() string {
	if r == nil {
		return ""
	}
	switch {
	case r.Min != nil && r.Max != nil:
		return "between $" + formatAmount(*r.Min) + " and $" + formatAmount(*r.Max)
	case r.Max != nil:
		return "under $" + formatAmount(*r.Max)
	case r.Min != nil:
		return "over $" + formatAmount(*r.Min)
	}
	return ""
}

func orderedRange(a, b float64) *PriceRange {
	if b < a {
		a, b = b, a
	}
	return &PriceRange{Min: &a, Max: &b}
}

func parseAmount(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
