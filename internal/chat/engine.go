package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karimzak/shopchat/internal/catalog"
)

var (
	// ErrBusy is returned when a reply for the current conversation is
	// still being produced. Concurrent submissions for the same identity
	// are not a supported input.
	ErrBusy = errors.New("a reply is already being generated")

	// ErrEmptyMessage is returned for blank utterances.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrConversationReset is returned when the conversation was reset
	// while the reply was in flight; the pending reply was discarded.
	ErrConversationReset = errors.New("conversation was reset")
)

// TypingConfig shapes the presentation-layer pause before a reply is
// delivered. A zero PerChar disables the pause entirely.
type TypingConfig struct {
	PerChar time.Duration
	Floor   time.Duration
	Cap     time.Duration
}

// DefaultTypingConfig matches the product behavior: delay scaled by reply
// length, floored at 0.8s and capped at 3s.
func DefaultTypingConfig() TypingConfig {
	return TypingConfig{
		PerChar: 15 * time.Millisecond,
		Floor:   800 * time.Millisecond,
		Cap:     3 * time.Second,
	}
}

// Engine is the conversational product-discovery engine facade: one
// conversation at a time, processed one utterance at a time.
type Engine struct {
	sessions  *SessionManager
	responder *Responder
	cache     *catalog.Cache
	typing    TypingConfig

	mu         sync.Mutex
	busy       bool
	generation int
	cancel     chan struct{}
}

// NewEngine wires the engine from its collaborators.
func NewEngine(sessions *SessionManager, responder *Responder, cache *catalog.Cache, typing TypingConfig) *Engine {
	return &Engine{
		sessions:  sessions,
		responder: responder,
		cache:     cache,
		typing:    typing,
		cancel:    make(chan struct{}),
	}
}

// SetIdentity forwards an identity observation to the session manager.
func (e *Engine) SetIdentity(ctx context.Context, id string) {
	e.sessions.SetIdentity(ctx, id)
}

// RefreshCatalog pulls a fresh catalog snapshot. On failure the previous
// snapshot stays in place.
func (e *Engine) RefreshCatalog(ctx context.Context) error {
	return e.cache.Refresh(ctx)
}

// SendMessage processes one utterance and returns the structured reply.
// The user message is appended to history before the typing pause and the
// assistant message after it; a reset during the pause discards the
// pending assistant message.
func (e *Engine) SendMessage(ctx context.Context, text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	e.busy = true
	gen := e.generation
	cancel := e.cancel
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
	}()

	// Reply generation never propagates a panic; worst case is a fixed
	// escalation reply, so history always gains the full user/assistant
	// pair once the user message is in.
	reply := e.respondSafe(text)

	e.sessions.Append(ctx, Message{
		ID:        uuid.New().String(),
		Author:    AuthorUser,
		Body:      text,
		Timestamp: time.Now().UTC(),
	})
	e.sessions.MarkInteracted(ctx)

	// An explicit handoff request flips the escalation flag immediately,
	// not after the typing pause.
	if reply.Type == ReplyEscalateToAdmin {
		e.sessions.MarkEscalate(ctx)
	}

	if d := e.typingDelay(reply); d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-timer.C:
		case <-cancel:
			timer.Stop()
		}
	}

	// The generation check and the assistant append happen under the same
	// lock Reset takes to bump the generation, so a reset can never slip
	// in between them and receive a stale assistant message on top of its
	// fresh greeting.
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return nil, ErrConversationReset
	}
	e.sessions.Append(ctx, Message{
		ID:                uuid.New().String(),
		Author:            AuthorAssistant,
		Body:              reply.Text,
		Timestamp:         time.Now().UTC(),
		Products:          reply.Products,
		IsSuggestionReply: len(reply.Suggestions) > 0,
	})
	e.mu.Unlock()

	return reply, nil
}

// Reset starts the conversation over: pending replies are discarded and
// the current identity's state is reseeded.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	e.generation++
	close(e.cancel)
	e.cancel = make(chan struct{})
	e.mu.Unlock()

	e.sessions.Reset(ctx)
}

// State returns a copy of the current conversation state.
func (e *Engine) State() ConversationState {
	return e.sessions.State()
}

// ShouldShowEscalationOption reports whether the host should offer a
// human handoff: either an explicit request was made, or at least 3 of the
// last 5 history entries are assistant turns (a user stuck in a loop).
// The derived part is recomputed on every call, never cached.
func (e *Engine) ShouldShowEscalationOption() bool {
	state := e.sessions.State()
	if state.ShouldEscalate {
		return true
	}

	tail := state.Messages
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	assistant := 0
	for _, m := range tail {
		if m.Author == AuthorAssistant {
			assistant++
		}
	}
	return assistant >= 3
}

// respondSafe converts any panic in the classify/rank/respond pipeline
// into a fixed escalation reply.
func (e *Engine) respondSafe(text string) (reply *Reply) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("chat: reply generation panicked: %v", r)
			reply = &Reply{
				Type: ReplyEscalateToAdmin,
				Text: "I'm having trouble understanding right now. Would you like me to connect you with a human agent?",
			}
		}
	}()
	return e.responder.Respond(text)
}

func (e *Engine) typingDelay(reply *Reply) time.Duration {
	if e.typing.PerChar <= 0 {
		return 0
	}
	d := time.Duration(len(reply.Text)) * e.typing.PerChar
	if d < e.typing.Floor {
		d = e.typing.Floor
	}
	if e.typing.Cap > 0 && d > e.typing.Cap {
		d = e.typing.Cap
	}
	return d
}
