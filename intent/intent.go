// Package intent holds the best-effort text heuristics applied to
// outgoing chat messages. These are deliberately shallow demo
// classifiers, not a natural-language parser; real understanding
// happens in the conversational backend.
package intent

import (
	"fmt"
	"regexp"
	"time"

	"github.com/Ayush10/cal-chatbot/chat"
)

var (
	bookingRe    = regexp.MustCompile(`(?i)\bbook a meeting\b|\bschedule\b|\bcreate booking\b|\brandom details\b`)
	listEventsRe = regexp.MustCompile(`(?i)show events|list events|scheduled events`)
	emailRe      = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	testPhraseRe = regexp.MustCompile(`(?i)random details`)
)

// Detect classifies a message, with booking intent taking priority
// over list-events. sessionEmail is the fallback address for
// list-events when none appears in the text; pass "" when there is no
// authenticated session.
func Detect(content, sessionEmail string) chat.Annotation {
	return DetectAt(content, sessionEmail, time.Now())
}

// DetectAt is Detect with an injected clock, so the synthesized
// booking payload is reproducible.
func DetectAt(content, sessionEmail string, now time.Time) chat.Annotation {
	if bookingRe.MatchString(content) {
		return chat.BookingAnnotation(extractBooking(content, now))
	}
	if listEventsRe.MatchString(content) {
		email := emailRe.FindString(content)
		if email == "" {
			email = sessionEmail
		}
		return chat.ListEventsAnnotation(email)
	}
	return chat.NoAnnotation()
}

// extractBooking synthesizes a placeholder payload for the literal
// test phrase: a one-hour slot at 10:00 the following day under a
// throwaway identity. Any other booking-intent match yields no
// payload.
func extractBooking(content string, now time.Time) *chat.Booking {
	if !testPhraseRe.MatchString(content) {
		return nil
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 10, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	end := start.Add(time.Hour)

	return &chat.Booking{
		EventTypeID: 0,
		StartTime:   start.Format(time.RFC3339),
		EndTime:     end.Format(time.RFC3339),
		Name:        "Test User",
		Email:       fmt.Sprintf("test+%d@example.com", now.UnixMilli()),
		Notes:       "Booked via chat test phrase",
	}
}
