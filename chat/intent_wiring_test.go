package chat_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Ayush10/cal-chatbot/chat"
	"github.com/Ayush10/cal-chatbot/intent"
	"github.com/Ayush10/cal-chatbot/store"
)

type stubBot struct {
	mu    sync.Mutex
	calls int
	reply string
}

func (b *stubBot) SendChat(ctx context.Context, messages []chat.Message) (string, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	return b.reply, nil
}

// End-to-end wiring of the real intent heuristics through the manager.
func TestIntentPriorityThroughManager(t *testing.T) {
	bot := &stubBot{reply: "done"}
	m := chat.NewManager(store.NewMemory(), bot, nil, intent.Detect)
	m.Load(context.Background())

	m.SendMessage(context.Background(), "book a meeting, random details", nil, "")

	messages := m.ActiveMessages()
	if len(messages) != 2 {
		t.Fatalf("Expected user and assistant messages, got %d", len(messages))
	}
	user := messages[0]
	if user.Booking == nil {
		t.Fatal("Expected booking payload on user message")
	}
	if user.ListEvents != nil {
		t.Error("Expected no listEvents field when booking wins")
	}
	if user.Booking.EventTypeID != 0 {
		t.Errorf("Expected event type id 0, got %d", user.Booking.EventTypeID)
	}
}

func TestListEventsExtractionThroughManager(t *testing.T) {
	bot := &stubBot{reply: "here are your events"}
	m := chat.NewManager(store.NewMemory(), bot, nil, intent.Detect)
	m.Load(context.Background())

	m.SendMessage(context.Background(), "show me my scheduled events, contact me at a@b.com", nil, "")

	messages := m.ActiveMessages()
	if len(messages) != 2 {
		t.Fatalf("Expected user and assistant messages, got %d", len(messages))
	}
	user := messages[0]
	if user.ListEvents == nil || user.ListEvents.Email != "a@b.com" {
		t.Fatalf("Expected listEvents with a@b.com, got %+v", user.ListEvents)
	}
	if user.Booking != nil {
		t.Error("Expected no booking field for list-events intent")
	}
	if bot.calls != 1 {
		t.Errorf("Expected one backend call, got %d", bot.calls)
	}
}
