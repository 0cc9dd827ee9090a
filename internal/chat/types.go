package chat

import (
	"time"

	"github.com/karimzak/shopchat/internal/catalog"
)

// Author identifies who wrote a conversation message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// Message is a single conversation entry. Immutable once appended.
type Message struct {
	ID                string            `json:"id"`
	Author            Author            `json:"author"`
	Body              string            `json:"body"`
	Timestamp         time.Time         `json:"timestamp"`
	Products          []catalog.Product `json:"products,omitempty"`
	IsSuggestionReply bool              `json:"is_suggestion_reply,omitempty"`
}

// ConversationState is the per-identity conversation. Messages are
// append-only and in chronological order.
type ConversationState struct {
	Messages       []Message `json:"messages"`
	HasInteracted  bool      `json:"has_interacted"`
	ShouldEscalate bool      `json:"should_escalate"`
}

// ReplyType tags the kind of reply produced for an utterance.
type ReplyType string

const (
	ReplyText               ReplyType = "text"
	ReplyProductSuggestions ReplyType = "product_suggestions"
	ReplyEscalateToAdmin    ReplyType = "escalate_to_admin"
)

// Reply is the structured response to one utterance. A
// product_suggestions reply always carries a non-empty product list.
type Reply struct {
	Type        ReplyType         `json:"type"`
	Text        string            `json:"text"`
	Products    []catalog.Product `json:"products,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}
