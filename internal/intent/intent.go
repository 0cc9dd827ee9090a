// Package intent turns a raw shopper utterance into a classified intent and
// structured entities (price range, category). Everything here is a pure
// function over the input text so it can be tested without catalog or
// session state.
package intent

import (
	"regexp"
	"strings"
)

// Intent is the closed vocabulary of utterance classifications.
type Intent string

const (
	Greeting       Intent = "greeting"
	ProductSearch  Intent = "product_search"
	CategoryBrowse Intent = "category_browse"
	PriceInquiry   Intent = "price_inquiry"
	Comparison     Intent = "comparison"
	Availability   Intent = "availability"
	Help           Intent = "help"
	General        Intent = "general"
)

// Order is the canonical classification order. Classification scans it top
// to bottom and returns the first intent with a matching keyword, so a
// phrase appearing in two lists always resolves to the earlier intent.
var Order = []Intent{
	Greeting,
	ProductSearch,
	CategoryBrowse,
	PriceInquiry,
	Comparison,
	Availability,
	Help,
}

// keywords maps each non-general intent to its trigger phrases. Single
// words are matched on word boundaries; multi-word phrases as substrings.
var keywords = map[Intent][]string{
	Greeting: {
		"hello", "hi", "hey", "howdy", "greetings",
		"good morning", "good afternoon", "good evening",
	},
	ProductSearch: {
		"looking for", "search for", "show me", "i want to buy",
		"i need", "do you have", "find", "buy", "recommend",
	},
	CategoryBrowse: {
		"browse", "category", "categories", "what do you sell",
		"what kinds of products", "electronics", "clothing",
	},
	PriceInquiry: {
		"how much", "price", "prices", "pricing", "cost", "costs",
		"expensive", "cheap", "cheapest", "affordable", "budget",
	},
	Comparison: {
		"compare", "comparison", "vs", "versus", "difference between",
		"which is better", "which one",
	},
	Availability: {
		"in stock", "out of stock", "stock", "available", "availability",
		"inventory",
	},
	Help: {
		"help", "how do i", "how does this work", "what can you do",
		"support", "assist", "assistance",
	},
}

// matcher holds the compiled form of one intent's keyword list.
type matcher struct {
	wordRe  *regexp.Regexp
	phrases []string
}

var matchers = buildMatchers()

func buildMatchers() map[Intent]matcher {
	out := make(map[Intent]matcher, len(keywords))
	for in, list := range keywords {
		var words, phrases []string
		for _, kw := range list {
			if strings.Contains(kw, " ") {
				phrases = append(phrases, kw)
			} else {
				words = append(words, regexp.QuoteMeta(kw))
			}
		}
		m := matcher{phrases: phrases}
		if len(words) > 0 {
			m.wordRe = regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)\b`)
		}
		out[in] = m
	}
	return out
}

// Classify returns the first intent in the canonical order whose keyword
// list matches the utterance, or General when nothing matches.
func Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, in := range Order {
		m := matchers[in]
		if m.wordRe != nil && m.wordRe.MatchString(lower) {
			return in
		}
		for _, p := range m.phrases {
			if strings.Contains(lower, p) {
				return in
			}
		}
	}
	return General
}

var humanRequestRe = regexp.MustCompile(
	`(?i)\b(?:human|agent|representative|operator|real person|live person|customer service|` +
		`(?:talk|speak)\s+(?:to|with)\s+(?:a\s+|an\s+)?(?:someone|somebody|person))\b`)

// WantsHuman reports whether the utterance explicitly asks for a human
// operator. Only consulted on the General branch.
func WantsHuman(text string) bool {
	return humanRequestRe.MatchString(text)
}
