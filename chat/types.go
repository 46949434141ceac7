package chat

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment describes a file the user attached to a message. The URL
// points at wherever the file was uploaded.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"type"`
	URL      string `json:"url"`
}

// Booking is the synthetic booking payload attached to a message when
// the booking heuristic recognizes extractable details.
type Booking struct {
	EventTypeID int    `json:"eventTypeId"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`
}

// ListEvents marks a message as a request to list scheduled events for
// the given email.
type ListEvents struct {
	Email string `json:"email"`
}

// Message is a single entry in a conversation. Timestamps are epoch
// milliseconds. Read is client-side only and is stripped before the
// message history is sent to the backend.
type Message struct {
	Role          Role        `json:"role"`
	Content       string      `json:"content"`
	Timestamp     int64       `json:"timestamp,omitempty"`
	Attachment    *Attachment `json:"attachment,omitempty"`
	ScheduledDate string      `json:"scheduledDate,omitempty"`
	Read          bool        `json:"read,omitempty"`
	Booking       *Booking    `json:"booking,omitempty"`
	ListEvents    *ListEvents `json:"listEvents,omitempty"`
}

// AnnotationKind discriminates the intent annotation variants.
type AnnotationKind int

const (
	AnnotationNone AnnotationKind = iota
	AnnotationBooking
	AnnotationListEvents
)

// Annotation is the tagged result of intent detection. A message
// carries at most one of booking or listEvents; routing every
// annotation through Apply keeps that exclusive by construction.
type Annotation struct {
	kind    AnnotationKind
	booking *Booking
	email   string
}

func NoAnnotation() Annotation {
	return Annotation{kind: AnnotationNone}
}

// BookingAnnotation records booking intent. The payload may be nil
// when the intent matched but nothing could be extracted.
func BookingAnnotation(booking *Booking) Annotation {
	return Annotation{kind: AnnotationBooking, booking: booking}
}

// ListEventsAnnotation records list-events intent. An empty email
// means the address could not be resolved.
func ListEventsAnnotation(email string) Annotation {
	return Annotation{kind: AnnotationListEvents, email: email}
}

func (a Annotation) Kind() AnnotationKind { return a.kind }

func (a Annotation) Email() string { return a.email }

func (a Annotation) Booking() *Booking { return a.booking }

// Apply sets the matching optional field on the message, clearing the
// other variant.
func (a Annotation) Apply(m *Message) {
	m.Booking = nil
	m.ListEvents = nil

	switch a.kind {
	case AnnotationBooking:
		m.Booking = a.booking
	case AnnotationListEvents:
		m.ListEvents = &ListEvents{Email: a.email}
	}
}

// Conversation is an append-only, chronological message thread.
type Conversation struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Messages          []Message `json:"messages"`
	Timestamp         int64     `json:"timestamp"`
	LastReadTimestamp int64     `json:"lastReadTimestamp,omitempty"`
}

// UnreadCount returns the number of assistant messages not yet marked
// read. User messages never count.
func (c *Conversation) UnreadCount() int {
	count := 0
	for _, msg := range c.Messages {
		if msg.Role == RoleAssistant && !msg.Read {
			count++
		}
	}
	return count
}
