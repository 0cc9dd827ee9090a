package intent

import "testing"

func TestExtractPriceRange(t *testing.T) {
	tests := []struct {
		name string
		text string
		min  float64
		max  float64
		// which bounds should be present
		hasMin bool
		hasMax bool
	}{
		{name: "under", text: "laptops under 900", max: 900, hasMax: true},
		{name: "under with dollar sign", text: "show me phones under $1,200", max: 1200, hasMax: true},
		{name: "below", text: "anything below 50.99", max: 50.99, hasMax: true},
		{name: "less than", text: "headphones less than $80", max: 80, hasMax: true},
		{name: "maximum of", text: "maximum of 300", max: 300, hasMax: true},
		{name: "over", text: "cameras over $500", min: 500, hasMin: true},
		{name: "more than", text: "something more than 1,000", min: 1000, hasMin: true},
		{name: "between", text: "between $500 and $1,000", min: 500, max: 1000, hasMin: true, hasMax: true},
		{name: "between reversed", text: "between 900 and 300", min: 300, max: 900, hasMin: true, hasMax: true},
		{name: "dash range", text: "laptops 500 - 900", min: 500, max: 900, hasMin: true, hasMax: true},
		{name: "to range", text: "shoes 40 to 80", min: 40, max: 80, hasMin: true, hasMax: true},
		{name: "bare amount widens", text: "a laptop for $1000", min: 800, max: 1200, hasMin: true, hasMax: true},
		{name: "bare amount with budget hint", text: "my budget is 500 dollars", max: 500, hasMax: true},
		{name: "dollars word", text: "around 250 dollars", min: 200, max: 300, hasMin: true, hasMax: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := ExtractPriceRange(tt.text)
			if pr == nil {
				t.Fatalf("ExtractPriceRange(%q) = nil, want a range", tt.text)
			}
			if tt.hasMin != (pr.Min != nil) {
				t.Fatalf("min presence = %v, want %v", pr.Min != nil, tt.hasMin)
			}
			if tt.hasMax != (pr.Max != nil) {
				t.Fatalf("max presence = %v, want %v", pr.Max != nil, tt.hasMax)
			}
			if tt.hasMin && *pr.Min != tt.min {
				t.Errorf("min = %v, want %v", *pr.Min, tt.min)
			}
			if tt.hasMax && *pr.Max != tt.max {
				t.Errorf("max = %v, want %v", *pr.Max, tt.max)
			}
		})
	}
}

func TestExtractPriceRangeNoMatch(t *testing.T) {
	for _, text := range []string{
		"show me laptops",
		"hello there",
		"top 3 picks please",
		"",
	} {
		if pr := ExtractPriceRange(text); pr != nil {
			t.Errorf("ExtractPriceRange(%q) = %+v, want nil", text, pr)
		}
	}
}

func TestPriceRangeContains(t *testing.T) {
	lo, hi := 100.0, 500.0

	var unbounded *PriceRange
	if !unbounded.Contains(42) {
		t.Error("nil range should contain everything")
	}

	r := &PriceRange{Min: &lo, Max: &hi}
	if !r.Contains(100) || !r.Contains(500) || !r.Contains(250) {
		t.Error("range should be inclusive of its bounds")
	}
	if r.Contains(99.99) || r.Contains(500.01) {
		t.Error("range should exclude values outside its bounds")
	}

	maxOnly := &PriceRange{Max: &hi}
	if !maxOnly.Contains(0) || maxOnly.Contains(501) {
		t.Error("missing min should be unconstrained below")
	}
}

func TestPriceRangeDescribe(t *testing.T) {
	lo, hi := 100.0, 500.0

	if got := (&PriceRange{Max: &hi}).Describe(); got != "under $500" {
		t.Errorf("Describe max-only = %q", got)
	}
	if got := (&PriceRange{Min: &lo}).Describe(); got != "over $100" {
		t.Errorf("Describe min-only = %q", got)
	}
	if got := (&PriceRange{Min: &lo, Max: &hi}).Describe(); got != "between $100 and $500" {
		t.Errorf("Describe both = %q", got)
	}
}
