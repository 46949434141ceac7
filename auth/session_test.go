package auth

import (
	"context"
	"testing"

	"github.com/Ayush10/cal-chatbot/store"
)

func TestSessionRoundTrip(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()

	session := NewSessionStore(kv)
	session.SetAuthenticated(ctx, "user@example.com")

	reloaded := NewSessionStore(kv)
	reloaded.Load(ctx)

	if got := reloaded.Email(); got != "user@example.com" {
		t.Errorf("Expected persisted email, got %q", got)
	}
}

func TestSessionLogout(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()

	session := NewSessionStore(kv)
	session.SetAuthenticated(ctx, "user@example.com")
	session.Logout(ctx)

	if got := session.Email(); got != "" {
		t.Errorf("Expected empty email after logout, got %q", got)
	}

	reloaded := NewSessionStore(kv)
	reloaded.Load(ctx)
	if got := reloaded.Email(); got != "" {
		t.Errorf("Expected logout persisted, got %q", got)
	}
}

func TestSessionToleratesCorruptEntry(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()

	if err := kv.Set(ctx, sessionKey, []byte("{broken")); err != nil {
		t.Fatal(err)
	}

	session := NewSessionStore(kv)
	session.Load(ctx)

	if got := session.Email(); got != "" {
		t.Errorf("Expected signed-out session after corrupt entry, got %q", got)
	}
}

func TestSessionMissingEntry(t *testing.T) {
	session := NewSessionStore(store.NewMemory())
	session.Load(context.Background())

	if got := session.Email(); got != "" {
		t.Errorf("Expected empty email without stored session, got %q", got)
	}
}
