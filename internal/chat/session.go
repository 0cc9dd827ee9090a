package chat

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karimzak/shopchat/internal/kv"
)

// GuestIdentity is the sentinel identity for anonymous visitors.
const GuestIdentity = "guest"

// DefaultGreeting seeds new conversations.
const DefaultGreeting = "Hi there! I'm your shopping assistant. I can help you find products, compare prices, and check what's in stock. What are you looking for today?"

func messagesKey(identity string) string   { return "chat:" + identity + ":messages" }
func interactedKey(identity string) string { return "chat:" + identity + ":interacted" }
func escalateKey(identity string) string   { return "chat:" + identity + ":escalate" }

// SessionManager owns the per-identity conversation state and its
// persistence. At most one identity is current at a time; identity changes
// go through SetIdentity, which applies the migrate/switch/log-out/resume
// transition table.
type SessionManager struct {
	store    kv.Store
	greeting string

	mu       sync.Mutex
	identity string
	loaded   bool
	state    ConversationState
}

// NewSessionManager creates a manager persisting through store. An empty
// greeting falls back to DefaultGreeting.
func NewSessionManager(store kv.Store, greeting string) *SessionManager {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	return &SessionManager{store: store, greeting: greeting}
}

// Identity returns the current identity key.
func (m *SessionManager) Identity() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return GuestIdentity
	}
	return m.identity
}

// SetIdentity observes the caller's identity; an empty id means anonymous.
// Re-notifying the same identity is a no-op, so redundant notifications
// from the host are harmless.
func (m *SessionManager) SetIdentity(ctx context.Context, id string) {
	if id == "" {
		id = GuestIdentity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case !m.loaded:
		// First load.
		m.loadLocked(ctx, id)

	case m.identity == id:
		// Resume; state is already current.
		return

	case m.identity == GuestIdentity && id != GuestIdentity:
		// Anonymous visitor signed in: migrate the guest conversation.
		m.migrateLocked(ctx, id)

	default:
		// Concrete -> other concrete (switch) or concrete -> guest
		// (log-out): load the target identity fresh, no merge.
		m.loadLocked(ctx, id)
	}

	m.identity = id
	m.loaded = true
}

// ensureLoadedLocked performs the first load when no identity observation
// has arrived yet, defaulting to the guest identity. Every state accessor
// goes through it, so the seeded-greeting invariant holds even for hosts
// that never call SetIdentity.
func (m *SessionManager) ensureLoadedLocked(ctx context.Context) {
	if m.loaded {
		return
	}
	m.loadLocked(ctx, GuestIdentity)
	m.identity = GuestIdentity
	m.loaded = true
}

// migrateLocked copies the guest conversation to identity id's keys, but
// only when id has no stored conversation of its own. The guest keys are
// deleted afterwards regardless of whether a copy happened, so the same
// guest state can never migrate twice.
func (m *SessionManager) migrateLocked(ctx context.Context, id string) {
	guestMsgs, guestOK, err := m.store.Read(ctx, messagesKey(GuestIdentity))
	if err != nil {
		log.Printf("chat: reading guest state for migration: %v", err)
	}

	if guestOK {
		_, destOK, err := m.store.Read(ctx, messagesKey(id))
		if err != nil {
			log.Printf("chat: checking destination state for migration: %v", err)
		}
		if !destOK {
			m.writeOrLog(ctx, messagesKey(id), guestMsgs)
			if v, ok, _ := m.store.Read(ctx, interactedKey(GuestIdentity)); ok {
				m.writeOrLog(ctx, interactedKey(id), v)
			}
			if v, ok, _ := m.store.Read(ctx, escalateKey(GuestIdentity)); ok {
				m.writeOrLog(ctx, escalateKey(id), v)
			}
		}
	}

	m.deleteOrLog(ctx, messagesKey(GuestIdentity))
	m.deleteOrLog(ctx, interactedKey(GuestIdentity))
	m.deleteOrLog(ctx, escalateKey(GuestIdentity))

	m.loadLocked(ctx, id)
}

// loadLocked replaces the in-memory state with identity id's stored state,
// seeding a single greeting when nothing (usable) is stored. Corrupt stored
// messages are deleted rather than surfaced.
func (m *SessionManager) loadLocked(ctx context.Context, id string) {
	state := ConversationState{}

	raw, ok, err := m.store.Read(ctx, messagesKey(id))
	if err != nil {
		log.Printf("chat: reading stored conversation for %q: %v", id, err)
		ok = false
	}
	if ok {
		var messages []Message
		if err := json.Unmarshal([]byte(raw), &messages); err != nil {
			log.Printf("chat: discarding corrupt conversation for %q: %v", id, err)
			m.deleteOrLog(ctx, messagesKey(id))
		} else {
			state.Messages = messages
		}
	}

	if len(state.Messages) == 0 {
		state.Messages = []Message{m.seedGreeting()}
		state.HasInteracted = false
		state.ShouldEscalate = false
	} else {
		state.HasInteracted = m.readBool(ctx, interactedKey(id))
		state.ShouldEscalate = m.readBool(ctx, escalateKey(id))
	}

	m.state = state
}

// Append adds a message to the conversation and persists immediately.
func (m *SessionManager) Append(ctx context.Context, msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoadedLocked(ctx)
	m.state.Messages = append(m.state.Messages, msg)
	m.persistLocked(ctx)
}

// MarkInteracted records that the user has sent at least one message.
func (m *SessionManager) MarkInteracted(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoadedLocked(ctx)
	if m.state.HasInteracted {
		return
	}
	m.state.HasInteracted = true
	m.persistLocked(ctx)
}

// MarkEscalate records an explicit human-handoff request.
func (m *SessionManager) MarkEscalate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoadedLocked(ctx)
	if m.state.ShouldEscalate {
		return
	}
	m.state.ShouldEscalate = true
	m.persistLocked(ctx)
}

// State returns a copy of the current conversation state.
func (m *SessionManager) State() ConversationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoadedLocked(context.Background())
	out := m.state
	out.Messages = make([]Message, len(m.state.Messages))
	copy(out.Messages, m.state.Messages)
	return out
}

// Reset replaces the current identity's conversation with a freshly seeded
// one and deletes its storage keys. Distinct from identity-change
// migration; used for explicit "start over" requests.
func (m *SessionManager) Reset(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoadedLocked(ctx)

	id := m.identity
	m.deleteOrLog(ctx, messagesKey(id))
	m.deleteOrLog(ctx, interactedKey(id))
	m.deleteOrLog(ctx, escalateKey(id))

	m.state = ConversationState{Messages: []Message{m.seedGreeting()}}
}

// persistLocked writes the full state back to the current identity's keys.
// Store failures are logged and the conversation continues in memory only.
func (m *SessionManager) persistLocked(ctx context.Context) {
	id := m.identity
	if id == "" {
		id = GuestIdentity
	}

	data, err := json.Marshal(m.state.Messages)
	if err != nil {
		log.Printf("chat: marshalling conversation for %q: %v", id, err)
		return
	}
	m.writeOrLog(ctx, messagesKey(id), string(data))
	m.writeOrLog(ctx, interactedKey(id), strconv.FormatBool(m.state.HasInteracted))
	m.writeOrLog(ctx, escalateKey(id), strconv.FormatBool(m.state.ShouldEscalate))
}

func (m *SessionManager) seedGreeting() Message {
	return Message{
		ID:        uuid.New().String(),
		Author:    AuthorAssistant,
		Body:      m.greeting,
		Timestamp: time.Now().UTC(),
	}
}

func (m *SessionManager) readBool(ctx context.Context, key string) bool {
	v, ok, err := m.store.Read(ctx, key)
	if err != nil {
		log.Printf("chat: reading %q: %v", key, err)
		return false
	}
	return ok && v == "true"
}

func (m *SessionManager) writeOrLog(ctx context.Context, key, value string) {
	if err := m.store.Write(ctx, key, value); err != nil {
		log.Printf("chat: writing %q: %v", key, err)
	}
}

func (m *SessionManager) deleteOrLog(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		log.Printf("chat: deleting %q: %v", key, err)
	}
}
