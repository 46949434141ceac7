package intent

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Ayush10/cal-chatbot/chat"
)

func TestDetectClassification(t *testing.T) {
	testCases := []struct {
		name         string
		content      string
		sessionEmail string
		wantKind     chat.AnnotationKind
		wantEmail    string
	}{
		{
			name:     "booking phrase",
			content:  "I want to book a meeting with the team",
			wantKind: chat.AnnotationBooking,
		},
		{
			name:     "schedule phrase",
			content:  "please schedule something for Friday",
			wantKind: chat.AnnotationBooking,
		},
		{
			name:     "create booking phrase",
			content:  "create booking for tomorrow",
			wantKind: chat.AnnotationBooking,
		},
		{
			name:     "test phrase",
			content:  "random details",
			wantKind: chat.AnnotationBooking,
		},
		{
			name:     "booking wins over list events",
			content:  "book a meeting, random details",
			wantKind: chat.AnnotationBooking,
		},
		{
			name:      "list events with email in text",
			content:   "show me my scheduled events, contact me at a@b.com",
			wantKind:  chat.AnnotationListEvents,
			wantEmail: "a@b.com",
		},
		{
			name:      "list events plain",
			content:   "list events for me",
			wantKind:  chat.AnnotationListEvents,
			wantEmail: "",
		},
		{
			name:         "list events with session fallback",
			content:      "show events please",
			sessionEmail: "session@example.com",
			wantKind:     chat.AnnotationListEvents,
			wantEmail:    "session@example.com",
		},
		{
			name:         "text email beats session email",
			content:      "list events, I am reachable at text@example.com",
			sessionEmail: "session@example.com",
			wantKind:     chat.AnnotationListEvents,
			wantEmail:    "text@example.com",
		},
		{
			name:     "scheduled events does not trigger booking",
			content:  "what scheduled events do I have",
			wantKind: chat.AnnotationListEvents,
		},
		{
			name:     "neither intent",
			content:  "hello there",
			wantKind: chat.AnnotationNone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Detect(tc.content, tc.sessionEmail)
			if got.Kind() != tc.wantKind {
				t.Fatalf("Expected kind %v, got %v", tc.wantKind, got.Kind())
			}
			if tc.wantKind == chat.AnnotationListEvents && got.Email() != tc.wantEmail {
				t.Errorf("Expected email %q, got %q", tc.wantEmail, got.Email())
			}
		})
	}
}

func TestBookingPayloadShape(t *testing.T) {
	now := time.Date(2026, time.September, 1, 15, 30, 0, 0, time.UTC)
	annotation := DetectAt("random details", "", now)

	booking := annotation.Booking()
	if booking == nil {
		t.Fatal("Expected payload for the test phrase")
	}
	if booking.EventTypeID != 0 {
		t.Errorf("Expected event type id 0, got %d", booking.EventTypeID)
	}

	wantStart := time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)
	if booking.StartTime != wantStart {
		t.Errorf("Expected start %q, got %q", wantStart, booking.StartTime)
	}
	wantEnd := time.Date(2026, time.September, 2, 11, 0, 0, 0, time.UTC).Format(time.RFC3339)
	if booking.EndTime != wantEnd {
		t.Errorf("Expected end %q, got %q", wantEnd, booking.EndTime)
	}
	if booking.Name == "" {
		t.Error("Expected a placeholder name")
	}
	wantEmail := fmt.Sprintf("test+%d@example.com", now.UnixMilli())
	if booking.Email != wantEmail {
		t.Errorf("Expected email %q, got %q", wantEmail, booking.Email)
	}
	if booking.Notes == "" {
		t.Error("Expected a fixed note")
	}
}

func TestBookingWithoutTestPhraseHasNoPayload(t *testing.T) {
	annotation := Detect("book a meeting next week", "")
	if annotation.Kind() != chat.AnnotationBooking {
		t.Fatalf("Expected booking intent, got %v", annotation.Kind())
	}
	if annotation.Booking() != nil {
		t.Error("Expected no payload without recognized extraction fields")
	}
}

func TestDetectDeterministic(t *testing.T) {
	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	first := DetectAt("random details", "", now)
	second := DetectAt("random details", "", now)

	if first.Booking().Email != second.Booking().Email {
		t.Error("Expected identical payloads for identical inputs")
	}
	if !strings.Contains(first.Booking().Email, "@example.com") {
		t.Errorf("Unexpected placeholder email %q", first.Booking().Email)
	}
}
