package intent

import (
	"regexp"
	"strings"
)

// Category tags resolvable from an utterance.
const (
	CategoryElectronics = "Electronics"
	CategoryClothing    = "Clothing"
)

// The two keyword sets are disjoint and matched on word boundaries, so
// "pc" does not fire inside "epic".
var electronicsWords = []string{
	"laptop", "laptops", "computer", "computers", "pc", "pcs",
	"phone", "phones", "smartphone", "smartphones", "tablet", "tablets",
	"headphone", "headphones", "earbud", "earbuds", "camera", "cameras",
	"tv", "tvs", "television", "televisions", "monitor", "monitors",
	"keyboard", "keyboards", "mouse", "speaker", "speakers",
	"console", "consoles", "gaming", "charger", "chargers",
	"gadget", "gadgets", "electronics", "tech",
}

var clothingWords = []string{
	"shirt", "shirts", "t-shirt", "t-shirts", "tshirt", "tshirts",
	"pants", "jeans", "dress", "dresses", "jacket", "jackets",
	"coat", "coats", "shoe", "shoes", "sneaker", "sneakers",
	"boot", "boots", "sock", "socks", "hat", "hats",
	"sweater", "sweaters", "hoodie", "hoodies", "skirt", "skirts",
	"clothing", "clothes", "apparel", "fashion", "footwear",
}

var (
	electronicsRe = wordSetRegexp(electronicsWords)
	clothingRe    = wordSetRegexp(clothingWords)
)

func wordSetRegexp(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// ResolveCategory maps an utterance to a single category filter. When both
// keyword sets match, or neither does, it returns "": ambiguity and absence
// are treated the same (no filter).
func ResolveCategory(text string) string {
	electronics := electronicsRe.MatchString(text)
	clothing := clothingRe.MatchString(text)

	switch {
	case electronics && !clothing:
		return CategoryElectronics
	case clothing && !electronics:
		return CategoryClothing
	}
	return ""
}
