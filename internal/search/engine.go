// Package search ranks catalog products against free-text queries using a
// weighted keyword score with deterministic tie-breaks.
package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/karimzak/shopchat/internal/catalog"
	"github.com/karimzak/shopchat/internal/intent"
)

// Engine runs keyword searches over the current catalog snapshot. All
// methods are read-only and deterministic for a fixed snapshot.
type Engine struct {
	cache *catalog.Cache
}

// NewEngine creates a search engine over the given catalog cache.
func NewEngine(cache *catalog.Cache) *Engine {
	return &Engine{cache: cache}
}

// priceTokenRe strips dollar amounts and bare numbers before term
// extraction.
var priceTokenRe = regexp.MustCompile(`\$\s*\d[\d,]*(?:\.\d+)?|\b\d[\d,]*(?:\.\d+)?\b`)

// searchStopwords are price-related and filler tokens dropped from queries.
var searchStopwords = map[string]bool{
	// price and comparison words
	"under": true, "below": true, "over": true, "above": true,
	"between": true, "than": true, "less": true, "more": true,
	"max": true, "maximum": true, "min": true, "minimum": true,
	"budget": true, "dollar": true, "dollars": true, "bucks": true,
	"usd": true, "price": true, "priced": true, "cost": true,
	"cheap": true, "cheaper": true, "cheapest": true, "expensive": true,
	"around": true, "about": true,
	// filler
	"a": true, "an": true, "the": true, "i": true, "me": true, "my": true,
	"you": true, "your": true, "is": true, "are": true, "it": true,
	"to": true, "for": true, "of": true, "in": true, "on": true,
	"with": true, "and": true, "or": true, "do": true, "does": true,
	"can": true, "could": true, "would": true, "like": true, "want": true,
	"need": true, "show": true, "find": true, "search": true,
	"looking": true, "buy": true, "get": true, "have": true, "has": true,
	"some": true, "any": true, "please": true, "what": true,
	"which": true, "how": true, "much": true, "that": true, "this": true,
}

// categorySynonyms widens a resolved category filter to the catalog
// category names it also covers.
var categorySynonyms = map[string][]string{
	"electronics": {"electronics", "gaming", "tech"},
	"clothing":    {"clothing", "shirts", "pants", "shoes", "footwear", "apparel", "fashion"},
}

// Search returns up to limit products ranked by relevance to text, subject
// to an optional price range. A query with no usable search terms falls
// back to Trending.
func (e *Engine) Search(text string, limit int, pr *intent.PriceRange) []catalog.Product {
	terms := searchTerms(text)
	if len(terms) == 0 {
		return e.Trending(limit)
	}

	// The category filter is resolved from the original, unstripped text.
	filter := intent.ResolveCategory(text)

	type scored struct {
		product catalog.Product
		score   int
	}
	var results []scored

	for _, p := range e.cache.Products() {
		if !p.IsActive {
			continue
		}
		if !pr.Contains(p.Price) {
			continue
		}
		if filter != "" && !categoryMatches(p.Category, filter) {
			continue
		}
		if s := scoreProduct(p, terms); s > 0 {
			results = append(results, scored{product: p, score: s})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		if results[i].product.Rating != results[j].product.Rating {
			return results[i].product.Rating > results[j].product.Rating
		}
		return results[i].product.Price < results[j].product.Price
	})

	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]catalog.Product, len(results))
	for i, r := range results {
		out[i] = r.product
	}
	return out
}

// ByCategory returns up to limit active products in the given category
// (case-insensitive), best rated first.
func (e *Engine) ByCategory(category string, limit int) []catalog.Product {
	var matched []catalog.Product
	for _, p := range e.cache.Products() {
		if p.IsActive && strings.EqualFold(p.Category, category) {
			matched = append(matched, p)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Rating > matched[j].Rating
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// Trending returns up to limit active products ordered by review-weighted
// rating.
func (e *Engine) Trending(limit int) []catalog.Product {
	var active []catalog.Product
	for _, p := range e.cache.Products() {
		if p.IsActive {
			active = append(active, p)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		pi := active[i].Rating * float64(active[i].NumReviews)
		pj := active[j].Rating * float64(active[j].NumReviews)
		if pi != pj {
			return pi > pj
		}
		if active[i].Rating != active[j].Rating {
			return active[i].Rating > active[j].Rating
		}
		return active[i].Price < active[j].Price
	})

	if len(active) > limit {
		active = active[:limit]
	}
	return active
}

// searchTerms strips price tokens and filler from the query and returns the
// remaining lowercase terms.
func searchTerms(text string) []string {
	cleaned := priceTokenRe.ReplaceAllString(text, " ")
	fields := strings.FieldsFunc(strings.ToLower(cleaned), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '-' && r != '\''
	})

	var terms []string
	for _, f := range fields {
		f = strings.Trim(f, "-'")
		if len(f) < 2 || searchStopwords[f] {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// scoreProduct accumulates the relevance score of p across all terms and
// fields. Substring matches are intentionally permissive so partial product
// names still hit; whole-word matches earn a bonus.
func scoreProduct(p catalog.Product, terms []string) int {
	name := strings.ToLower(p.Name)
	category := strings.ToLower(p.Category)
	brand := strings.ToLower(p.Brand)
	description := strings.ToLower(p.Description)

	score := 0
	for _, term := range terms {
		if termMatches(name, term) {
			score += 10
			if wholeWordMatches(name, term) {
				score += 15
			}
		}
		if termMatches(category, term) {
			score += 8
		}
		if termMatches(brand, term) {
			score += 6
		}
		if termMatches(description, term) {
			score += 3
			if wholeWordMatches(description, term) {
				score += 2
			}
		}
	}
	return score
}

// termMatches reports a substring match of term in field, tolerating a
// trailing plural "s" on the term.
func termMatches(field, term string) bool {
	if strings.Contains(field, term) {
		return true
	}
	if len(term) > 3 && strings.HasSuffix(term, "s") {
		return strings.Contains(field, term[:len(term)-1])
	}
	return false
}

// wholeWordMatches reports whether term (or its singular form) appears as a
// standalone word of field.
func wholeWordMatches(field, term string) bool {
	singular := ""
	if len(term) > 3 && strings.HasSuffix(term, "s") {
		singular = term[:len(term)-1]
	}
	for _, w := range strings.FieldsFunc(field, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		if w == term || (singular != "" && w == singular) {
			return true
		}
	}
	return false
}

func categoryMatches(productCategory, filter string) bool {
	pc := strings.ToLower(productCategory)
	f := strings.ToLower(filter)
	if pc == f {
		return true
	}
	for _, syn := range categorySynonyms[f] {
		if pc == syn {
			return true
		}
	}
	return false
}
