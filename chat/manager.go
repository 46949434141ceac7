package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Ayush10/cal-chatbot/store"
)

const (
	// DefaultTitle is the placeholder title a conversation keeps until
	// its first user message.
	DefaultTitle = "New Conversation"

	conversationsKey = "chatConversations"
	activeIDKey      = "currentConversationId"

	fallbackReply = "Sorry, I encountered an error. Please try again."
	emailPrompt   = "Please provide your email address so I can look up your scheduled events."

	titleMaxLen = 30
)

// BotClient sends a sanitized message history to the conversational
// backend and returns the assistant's reply text.
type BotClient interface {
	SendChat(ctx context.Context, messages []Message) (string, error)
}

// SessionEmails supplies the email of the authenticated session, if
// any. Used as the fallback for list-events intent.
type SessionEmails interface {
	Email() string
}

// Detector classifies an outgoing message. See the intent package for
// the production implementation.
type Detector func(content, sessionEmail string) Annotation

// Manager owns the conversation list, the active conversation id and
// the in-flight send flag. Every mutation is mirrored to the KV store
// before the next observable read.
type Manager struct {
	mu            sync.Mutex
	conversations []*Conversation
	activeID      string
	sending       int
	sendLocks     map[string]*sync.Mutex

	kv      store.KV
	bot     BotClient
	session SessionEmails
	detect  Detector

	now   func() time.Time
	newID func() string
}

// NewManager wires a manager over the given store and backend client.
// session and detect may be nil. Call Load to restore persisted state
// and guarantee an active conversation.
func NewManager(kv store.KV, bot BotClient, session SessionEmails, detect Detector) *Manager {
	if detect == nil {
		detect = func(string, string) Annotation { return NoAnnotation() }
	}
	return &Manager{
		sendLocks: make(map[string]*sync.Mutex),
		kv:        kv,
		bot:       bot,
		session:   session,
		detect:    detect,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Load restores the conversation list and active id from the store.
// Corrupt or missing entries are discarded, never fatal; when nothing
// usable remains a fresh conversation is started.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data, err := m.kv.Get(ctx, conversationsKey); err == nil {
		var conversations []*Conversation
		if err := json.Unmarshal(data, &conversations); err != nil {
			log.Warn().Err(err).Msg("Discarding corrupt conversation store")
		} else {
			m.conversations = conversations
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Msg("Error reading conversation store")
	}

	if data, err := m.kv.Get(ctx, activeIDKey); err == nil {
		m.activeID = string(data)
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Msg("Error reading active conversation id")
	}

	if len(m.conversations) == 0 {
		m.startNewLocked(ctx)
		return
	}
	if m.findLocked(m.activeID) == nil {
		m.activeID = m.conversations[0].ID
		m.persistLocked(ctx)
	}
}

// StartNewConversation creates an empty conversation, inserts it at
// the front of the list and makes it active. Returns the new id.
func (m *Manager) StartNewConversation() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startNewLocked(context.Background())
}

func (m *Manager) startNewLocked(ctx context.Context) string {
	conv := &Conversation{
		ID:        m.newID(),
		Title:     DefaultTitle,
		Messages:  []Message{},
		Timestamp: m.now().UnixMilli(),
	}
	m.conversations = append([]*Conversation{conv}, m.conversations...)
	m.activeID = conv.ID
	m.persistLocked(ctx)

	log.Info().Str("conversation_id", conv.ID).Msg("Started new conversation")

	return conv.ID
}

// LoadConversation makes the given conversation active, falling back
// to the first conversation when the id is unknown and starting a new
// one when the list is empty.
func (m *Manager) LoadConversation(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.findLocked(id) != nil:
		m.activeID = id
		m.persistLocked(ctx)
	case len(m.conversations) > 0:
		m.activeID = m.conversations[0].ID
		m.persistLocked(ctx)
	default:
		m.startNewLocked(ctx)
	}
}

// DeleteConversation removes the conversation with the given id. The
// active id is repaired so it never points at a missing conversation.
func (m *Manager) DeleteConversation(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := m.conversations[:0]
	for _, conv := range m.conversations {
		if conv.ID != id {
			filtered = append(filtered, conv)
		}
	}
	m.conversations = filtered
	delete(m.sendLocks, id)

	if id == m.activeID {
		if len(m.conversations) > 0 {
			m.activeID = m.conversations[0].ID
		} else {
			m.startNewLocked(ctx)
			return
		}
	}
	m.persistLocked(ctx)
}

// SendMessage appends a user message to the active conversation and
// asks the backend for a reply. Failures surface as a fixed fallback
// assistant message; no error escapes. A no-op when content is blank
// and there is neither an attachment nor a scheduled date. Sends on
// one conversation are serialized in invocation order.
func (m *Manager) SendMessage(ctx context.Context, content string, attachment *Attachment, scheduledDate string) {
	if strings.TrimSpace(content) == "" && attachment == nil && scheduledDate == "" {
		return
	}

	m.mu.Lock()
	convID := m.activeID
	if convID == "" || m.findLocked(convID) == nil {
		convID = m.startNewLocked(ctx)
	}
	sendLock := m.sendLockLocked(convID)
	m.mu.Unlock()

	sendLock.Lock()
	defer sendLock.Unlock()

	userMsg := Message{
		Role:          RoleUser,
		Content:       content,
		Timestamp:     m.now().UnixMilli(),
		Attachment:    attachment,
		ScheduledDate: scheduledDate,
	}

	annotation := m.detect(content, m.sessionEmail())
	annotation.Apply(&userMsg)

	// List-events intent without a resolvable email never reaches the
	// backend; the user is asked for an address instead.
	if annotation.Kind() == AnnotationListEvents && annotation.Email() == "" {
		m.appendAssistantMessage(ctx, convID, emailPrompt)
		return
	}

	m.mu.Lock()
	conv := m.findLocked(convID)
	if conv == nil {
		m.mu.Unlock()
		return
	}
	firstMessage := len(conv.Messages) == 0
	conv.Messages = append(conv.Messages, userMsg)
	conv.Timestamp = userMsg.Timestamp
	if firstMessage {
		m.updateTitleLocked(conv, content)
	}
	m.sending++
	outbound := sanitizeMessages(conv.Messages)
	m.persistLocked(ctx)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.sending--
		m.mu.Unlock()
	}()

	reply, err := m.bot.SendChat(ctx, outbound)
	if err != nil {
		log.Error().
			Err(err).
			Str("conversation_id", convID).
			Msg("Error getting backend reply")
		reply = fallbackReply
	}

	m.appendAssistantMessage(ctx, convID, reply)
}

// MarkAllAsRead marks every message of the active conversation read
// and records the read watermark. Invoked whenever the conversation
// becomes the foreground view.
func (m *Manager) MarkAllAsRead(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := m.findLocked(m.activeID)
	if conv == nil {
		return
	}
	for i := range conv.Messages {
		conv.Messages[i].Read = true
	}
	conv.LastReadTimestamp = m.now().UnixMilli()
	m.persistLocked(ctx)
}

// UnreadCount reports the unread assistant messages of a conversation.
func (m *Manager) UnreadCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := m.findLocked(id)
	if conv == nil {
		return 0
	}
	return conv.UnreadCount()
}

// Conversations returns a snapshot of the conversation list.
func (m *Manager) Conversations() []Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Conversation, 0, len(m.conversations))
	for _, conv := range m.conversations {
		copied := *conv
		copied.Messages = append([]Message(nil), conv.Messages...)
		out = append(out, copied)
	}
	return out
}

// ActiveID returns the id of the active conversation.
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// ActiveMessages returns a snapshot of the active conversation's
// messages.
func (m *Manager) ActiveMessages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := m.findLocked(m.activeID)
	if conv == nil {
		return nil
	}
	return append([]Message(nil), conv.Messages...)
}

// Sending reports whether any backend round trip is in flight. Sends
// on different conversations may overlap, so a count backs the flag.
func (m *Manager) Sending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sending > 0
}

func (m *Manager) findLocked(id string) *Conversation {
	for _, conv := range m.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

func (m *Manager) sendLockLocked(id string) *sync.Mutex {
	lock, ok := m.sendLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.sendLocks[id] = lock
	}
	return lock
}

func (m *Manager) sessionEmail() string {
	if m.session == nil {
		return ""
	}
	return m.session.Email()
}

func (m *Manager) appendAssistantMessage(ctx context.Context, convID, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := m.findLocked(convID)
	if conv == nil {
		log.Warn().
			Str("conversation_id", convID).
			Msg("Dropping reply for deleted conversation")
		return
	}
	msg := Message{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: m.now().UnixMilli(),
	}
	conv.Messages = append(conv.Messages, msg)
	conv.Timestamp = msg.Timestamp
	m.persistLocked(ctx)
}

func (m *Manager) updateTitleLocked(conv *Conversation, content string) {
	if conv.Title != "" && conv.Title != DefaultTitle {
		return
	}
	if strings.TrimSpace(content) == "" {
		return
	}
	runes := []rune(content)
	if len(runes) > titleMaxLen {
		conv.Title = string(runes[:titleMaxLen]) + "..."
	} else {
		conv.Title = content
	}
}

func (m *Manager) persistLocked(ctx context.Context) {
	data, err := json.Marshal(m.conversations)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling conversations")
		return
	}
	if err := m.kv.Set(ctx, conversationsKey, data); err != nil {
		log.Error().Err(err).Msg("Error persisting conversations")
	}
	if err := m.kv.Set(ctx, activeIDKey, []byte(m.activeID)); err != nil {
		log.Error().Err(err).Msg("Error persisting active conversation id")
	}
}

// sanitizeMessages strips client-only fields before transmission.
func sanitizeMessages(messages []Message) []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	for i := range out {
		out[i].Read = false
	}
	return out
}
