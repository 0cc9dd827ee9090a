package chat

import (
	"context"
	"testing"

	"github.com/karimzak/shopchat/internal/kv"
)

func newTestManager(t *testing.T) (*SessionManager, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	return NewSessionManager(store, ""), store
}

func messageIDs(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func TestFreshSessionSeedsGreeting(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	m.SetIdentity(ctx, "")
	state := m.State()

	if len(state.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(state.Messages))
	}
	if state.Messages[0].Author != AuthorAssistant {
		t.Errorf("greeting author = %q, want assistant", state.Messages[0].Author)
	}
	if state.Messages[0].Body != DefaultGreeting {
		t.Errorf("greeting body = %q", state.Messages[0].Body)
	}
	if state.HasInteracted || state.ShouldEscalate {
		t.Error("fresh session should have both flags false")
	}

	// The seed alone is not persisted; only a mutation writes state.
	if _, ok, _ := store.Read(ctx, messagesKey(GuestIdentity)); ok {
		t.Error("seeded greeting should not be persisted before first mutation")
	}
}

// A host may use the manager without ever observing an identity; state
// access alone must load and seed the guest conversation.
func TestStateWithoutIdentityObservation(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	state := m.State()
	if len(state.Messages) != 1 || state.Messages[0].Author != AuthorAssistant {
		t.Fatalf("state before any SetIdentity = %v, want a seeded greeting", messageIDs(state.Messages))
	}

	m.Append(ctx, Message{ID: "u1", Author: AuthorUser, Body: "hello"})
	if got := len(m.State().Messages); got != 2 {
		t.Fatalf("got %d messages after append, want greeting + u1", got)
	}
	if _, ok, _ := store.Read(ctx, messagesKey(GuestIdentity)); !ok {
		t.Error("append without SetIdentity should persist under the guest keys")
	}
	if m.Identity() != GuestIdentity {
		t.Errorf("Identity() = %q, want guest", m.Identity())
	}
}

func TestMarkEscalateWithoutIdentityObservation(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	m.MarkEscalate(ctx)
	state := m.State()
	if !state.ShouldEscalate {
		t.Fatal("ShouldEscalate not set")
	}
	if len(state.Messages) != 1 {
		t.Fatalf("got %d messages, want the seeded greeting", len(state.Messages))
	}
	if v, ok, _ := store.Read(ctx, escalateKey(GuestIdentity)); !ok || v != "true" {
		t.Errorf("escalate key = (%q, %v), want persisted true", v, ok)
	}
}

func TestAppendPersistsAndResumes(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()

	m1 := NewSessionManager(store, "")
	m1.SetIdentity(ctx, "user-1")
	m1.Append(ctx, Message{ID: "u1", Author: AuthorUser, Body: "hello"})
	m1.MarkInteracted(ctx)

	m2 := NewSessionManager(store, "")
	m2.SetIdentity(ctx, "user-1")
	state := m2.State()

	if len(state.Messages) != 2 {
		t.Fatalf("resumed %d messages, want 2", len(state.Messages))
	}
	if state.Messages[1].ID != "u1" {
		t.Errorf("resumed messages = %v", messageIDs(state.Messages))
	}
	if !state.HasInteracted {
		t.Error("HasInteracted should survive a resume")
	}
}

func TestSetIdentitySameIDIsNoOp(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	m.SetIdentity(ctx, "user-1")
	m.Append(ctx, Message{ID: "u1", Author: AuthorUser, Body: "hi"})

	m.SetIdentity(ctx, "user-1")
	if got := len(m.State().Messages); got != 2 {
		t.Fatalf("re-notifying same identity changed history: %d messages", got)
	}
}

func TestGuestSignInMigratesConversation(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	m.SetIdentity(ctx, "")
	m.Append(ctx, Message{ID: "g1", Author: AuthorUser, Body: "looking for laptops"})

	m.SetIdentity(ctx, "user-1")
	state := m.State()

	if len(state.Messages) != 2 || state.Messages[1].ID != "g1" {
		t.Fatalf("migrated messages = %v, want greeting + g1", messageIDs(state.Messages))
	}

	// The guest keys are gone, so the same state cannot migrate twice.
	for _, key := range []string{
		messagesKey(GuestIdentity),
		interactedKey(GuestIdentity),
		escalateKey(GuestIdentity),
	} {
		if _, ok, _ := store.Read(ctx, key); ok {
			t.Errorf("guest key %q survived migration", key)
		}
	}
	if _, ok, _ := store.Read(ctx, messagesKey("user-1")); !ok {
		t.Error("destination messages were not written")
	}
}

func TestMigrationDoesNotClobberExistingConversation(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()

	// user-1 already has a conversation of their own.
	m1 := NewSessionManager(store, "")
	m1.SetIdentity(ctx, "user-1")
	m1.Append(ctx, Message{ID: "own", Author: AuthorUser, Body: "earlier visit"})

	// A guest chats on another session, then signs in as user-1.
	m2 := NewSessionManager(store, "")
	m2.SetIdentity(ctx, "")
	m2.Append(ctx, Message{ID: "g1", Author: AuthorUser, Body: "guest message"})
	m2.SetIdentity(ctx, "user-1")

	state := m2.State()
	for _, msg := range state.Messages {
		if msg.ID == "g1" {
			t.Fatal("guest message overwrote an existing conversation")
		}
	}
	if state.Messages[len(state.Messages)-1].ID != "own" {
		t.Fatalf("existing conversation lost: %v", messageIDs(state.Messages))
	}

	// The guest state is still consumed.
	if _, ok, _ := store.Read(ctx, messagesKey(GuestIdentity)); ok {
		t.Error("guest keys survived a no-clobber migration")
	}
}

func TestSwitchBetweenUsersLoadsFresh(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	m.SetIdentity(ctx, "user-1")
	m.Append(ctx, Message{ID: "u1", Author: AuthorUser, Body: "first user"})

	m.SetIdentity(ctx, "user-2")
	state := m.State()

	if len(state.Messages) != 1 || state.Messages[0].Author != AuthorAssistant {
		t.Fatalf("switch should seed a fresh conversation, got %v", messageIDs(state.Messages))
	}
	// user-1's conversation is untouched.
	if _, ok, _ := store.Read(ctx, messagesKey("user-1")); !ok {
		t.Error("switching away deleted the previous user's conversation")
	}
}

func TestLogOutLoadsGuestFresh(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	m.SetIdentity(ctx, "user-1")
	m.Append(ctx, Message{ID: "u1", Author: AuthorUser, Body: "signed in"})

	m.SetIdentity(ctx, "")
	state := m.State()

	if len(state.Messages) != 1 {
		t.Fatalf("log-out should start a fresh guest conversation, got %v", messageIDs(state.Messages))
	}
	if _, ok, _ := store.Read(ctx, messagesKey("user-1")); !ok {
		t.Error("logging out deleted the user's conversation")
	}
}

func TestCorruptStoredConversationIsReseeded(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	if err := store.Write(ctx, messagesKey("user-1"), "{definitely not json"); err != nil {
		t.Fatal(err)
	}

	m.SetIdentity(ctx, "user-1")
	state := m.State()

	if len(state.Messages) != 1 || state.Messages[0].Author != AuthorAssistant {
		t.Fatalf("corrupt state should reseed, got %v", messageIDs(state.Messages))
	}
	if _, ok, _ := store.Read(ctx, messagesKey("user-1")); ok {
		t.Error("corrupt stored conversation was not deleted")
	}
}

func TestResetReseedsAndDeletesKeys(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	m.SetIdentity(ctx, "user-1")
	m.Append(ctx, Message{ID: "u1", Author: AuthorUser, Body: "hello"})
	m.MarkEscalate(ctx)

	m.Reset(ctx)
	state := m.State()

	if len(state.Messages) != 1 || state.HasInteracted || state.ShouldEscalate {
		t.Fatalf("reset state = %+v, want a single seeded greeting", state)
	}
	for _, key := range []string{messagesKey("user-1"), interactedKey("user-1"), escalateKey("user-1")} {
		if _, ok, _ := store.Read(ctx, key); ok {
			t.Errorf("key %q survived reset", key)
		}
	}
}

func TestCustomGreeting(t *testing.T) {
	m := NewSessionManager(kv.NewMemoryStore(), "Welcome to the shop!")
	m.SetIdentity(context.Background(), "")

	if got := m.State().Messages[0].Body; got != "Welcome to the shop!" {
		t.Errorf("greeting = %q", got)
	}
}
