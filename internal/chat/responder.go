package chat

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/karimzak/shopchat/internal/catalog"
	"github.com/karimzak/shopchat/internal/intent"
	"github.com/karimzak/shopchat/internal/search"
)

// defaultSearchLimit caps how many products a reply carries.
const defaultSearchLimit = 6

var greetingPool = []string{
	"Hello! What can I help you find today?",
	"Hi! Looking for anything in particular?",
	"Hey there! Tell me what you're shopping for and I'll find some options.",
	"Welcome back! What would you like to browse today?",
}

var defaultSuggestions = []string{
	"Show me trending products",
	"Browse categories",
	"What can you do?",
}

const helpText = "I can help you find products, browse categories, compare options, " +
	"check prices and stock, and stay within a budget. Try something like " +
	"\"laptops under $900\" or \"compare headphones\"."

// Responder builds a structured reply for a classified utterance. It holds
// no conversation state; history belongs to the SessionManager.
type Responder struct {
	search *search.Engine
	cache  *catalog.Cache
	rng    *rand.Rand
}

// NewResponder creates a responder over the given search engine and
// catalog cache.
func NewResponder(engine *search.Engine, cache *catalog.Cache) *Responder {
	return &Responder{
		search: engine,
		cache:  cache,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Respond classifies the utterance and dispatches to the matching branch.
// The greeting pick is the only randomness in the whole pipeline.
func (r *Responder) Respond(text string) *Reply {
	in := intent.Classify(text)
	pr := intent.ExtractPriceRange(text)

	switch in {
	case intent.Greeting:
		return &Reply{
			Type:        ReplyText,
			Text:        greetingPool[r.rng.Intn(len(greetingPool))],
			Suggestions: defaultSuggestions,
		}
	case intent.ProductSearch:
		return r.respondSearch(text, pr)
	case intent.CategoryBrowse:
		return r.respondCategoryBrowse(text)
	case intent.PriceInquiry:
		return r.respondPriceInquiry(text, pr)
	case intent.Comparison:
		return r.respondComparison(text, pr)
	case intent.Availability:
		return r.respondAvailability(text, pr)
	case intent.Help:
		return &Reply{Type: ReplyText, Text: helpText, Suggestions: defaultSuggestions}
	case intent.General:
		return r.respondGeneral(text, pr)
	default:
		return r.respondGeneral(text, pr)
	}
}

func (r *Responder) respondSearch(text string, pr *intent.PriceRange) *Reply {
	results := r.search.Search(text, defaultSearchLimit, pr)
	if len(results) == 0 {
		return r.searchFallback(text)
	}

	msg := fmt.Sprintf("I found %d %s for you", len(results), plural("product", len(results)))
	if cat := intent.ResolveCategory(text); cat != "" {
		msg += " in " + cat
	}
	if desc := pr.Describe(); desc != "" {
		msg += " " + desc
	}
	msg += ":"

	return &Reply{Type: ReplyProductSuggestions, Text: msg, Products: results}
}

// searchFallback answers an empty search with category or trending picks,
// degrading to a plain text reply only when the catalog itself is empty.
func (r *Responder) searchFallback(text string) *Reply {
	var fallback []catalog.Product
	if cat := intent.ResolveCategory(text); cat != "" {
		fallback = r.search.ByCategory(cat, defaultSearchLimit)
	}
	if len(fallback) == 0 {
		fallback = r.search.Trending(defaultSearchLimit)
	}
	if len(fallback) == 0 {
		return &Reply{
			Type:        ReplyText,
			Text:        "Sorry, I couldn't find anything matching that. Could you try different words?",
			Suggestions: defaultSuggestions,
		}
	}
	return &Reply{
		Type:     ReplyProductSuggestions,
		Text:     "Sorry, I couldn't find an exact match. Here are some popular picks instead:",
		Products: fallback,
	}
}

func (r *Responder) respondCategoryBrowse(text string) *Reply {
	if cat := intent.ResolveCategory(text); cat != "" {
		results := r.search.ByCategory(cat, defaultSearchLimit)
		if len(results) > 0 {
			return &Reply{
				Type:     ReplyProductSuggestions,
				Text:     fmt.Sprintf("Here are our top picks in %s:", cat),
				Products: results,
			}
		}
		return &Reply{
			Type:        ReplyText,
			Text:        fmt.Sprintf("We don't have anything in %s right now.", cat),
			Suggestions: defaultSuggestions,
		}
	}

	categories := r.cache.Categories()
	if len(categories) == 0 {
		return &Reply{
			Type:        ReplyText,
			Text:        "Our catalog is still being stocked. Check back soon!",
			Suggestions: defaultSuggestions,
		}
	}
	return &Reply{
		Type:        ReplyText,
		Text:        "We currently carry: " + strings.Join(categories, ", ") + ". Which would you like to browse?",
		Suggestions: categories,
	}
}

func (r *Responder) respondPriceInquiry(text string, pr *intent.PriceRange) *Reply {
	results := r.search.Search(text, defaultSearchLimit, pr)
	if len(results) == 0 {
		return &Reply{
			Type:        ReplyText,
			Text:        "Which product would you like pricing for?",
			Suggestions: defaultSuggestions,
		}
	}

	var total float64
	for _, p := range results {
		total += p.Price
	}
	mean := total / float64(len(results))

	top := results
	if len(top) > 3 {
		top = top[:3]
	}
	return &Reply{
		Type:     ReplyProductSuggestions,
		Text:     fmt.Sprintf("Prices for matching products average $%.2f. Here are a few options:", mean),
		Products: top,
	}
}

func (r *Responder) respondComparison(text string, pr *intent.PriceRange) *Reply {
	results := r.search.Search(text, 3, pr)
	if len(results) < 2 {
		return &Reply{
			Type:        ReplyText,
			Text:        "Which products would you like to compare? Give me a product type and I'll line up the top options.",
			Suggestions: defaultSuggestions,
		}
	}
	return &Reply{
		Type:     ReplyProductSuggestions,
		Text:     "Here's a side-by-side look at the top matches. Compare these:",
		Products: results,
	}
}

func (r *Responder) respondAvailability(text string, pr *intent.PriceRange) *Reply {
	results := r.search.Search(text, defaultSearchLimit, pr)

	var inStock []catalog.Product
	for _, p := range results {
		if p.CountInStock > 0 {
			inStock = append(inStock, p)
		}
	}

	if len(inStock) == 0 {
		return &Reply{
			Type:        ReplyText,
			Text:        "I couldn't find that in stock right now. Want me to show you similar products?",
			Suggestions: defaultSuggestions,
		}
	}
	return &Reply{
		Type:     ReplyProductSuggestions,
		Text:     fmt.Sprintf("%d of these %s in stock right now:", len(inStock), isAre(len(inStock))),
		Products: inStock,
	}
}

func (r *Responder) respondGeneral(text string, pr *intent.PriceRange) *Reply {
	if intent.WantsHuman(text) {
		return &Reply{
			Type: ReplyEscalateToAdmin,
			Text: "Of course, let me connect you with a human agent who can help.",
		}
	}

	results := r.search.Search(text, 3, pr)
	if len(results) > 0 {
		return &Reply{
			Type:     ReplyProductSuggestions,
			Text:     "I'm not sure exactly what you need, but these might be close:",
			Products: results,
		}
	}
	return &Reply{
		Type:        ReplyText,
		Text:        "I didn't quite catch that. Could you tell me what kind of product you're after?",
		Suggestions: defaultSuggestions,
	}
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func isAre(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}
