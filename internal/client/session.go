package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/RichardoC/lingopad/internal/models"
)

var (
	ErrBusy      = errors.New("a reply is still streaming")
	ErrEmptyText = errors.New("message is empty")
)

const errorMarker = "Error: "

// Entry is one displayed turn of a chat.
type Entry struct {
	ID      string
	Role    models.Role
	Content string
}

// ChatSession is an in-memory conversation. Entries live as long as the
// session value; nothing is persisted.
type ChatSession struct {
	client *Client
	model  string

	mu      sync.Mutex
	entries []Entry
	cancel  context.CancelFunc
}

// NewChatSession starts an empty conversation. model may be empty to use the
// server default.
func NewChatSession(c *Client, model string) *ChatSession {
	return &ChatSession{client: c, model: model}
}

// Send appends text as a user turn plus an empty assistant turn, then streams
// the reply into the assistant turn. onUpdate, if set, is called with the
// assistant entry after every chunk.
//
// A stopped reply keeps its partial text and is reported as Cancelled with a
// nil error. A failed reply gets an inline error marker and the error is
// returned as well.
func (s *ChatSession) Send(ctx context.Context, text string, onUpdate func(Entry)) (Entry, Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Entry{}, Failed, ErrEmptyText
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return Entry{}, Failed, ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.entries = append(s.entries, Entry{ID: uuid.NewString(), Role: models.RoleUser, Content: text})
	history := make([]models.Message, 0, len(s.entries))
	for _, e := range s.entries {
		history = append(history, models.Message{Role: e.Role, Content: e.Content})
	}
	assistantID := uuid.NewString()
	s.entries = append(s.entries, Entry{ID: assistantID, Role: models.RoleAssistant})
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
	}()

	res, err := s.client.StreamChat(ctx, ChatRequest{Messages: history, Model: s.model}, func(acc string) {
		e := s.setContent(assistantID, acc)
		if onUpdate != nil {
			onUpdate(e)
		}
	})

	content := res.Text
	if err != nil {
		content = withErrorMarker(res.Text, err)
	}
	final := s.setContent(assistantID, content)
	return final, res.Outcome, err
}

// Stop cancels the reply currently streaming, if any.
func (s *ChatSession) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Busy reports whether a reply is streaming.
func (s *ChatSession) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Entries returns a copy of the conversation so far.
func (s *ChatSession) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *ChatSession) setContent(id, content string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Content = content
			return s.entries[i]
		}
	}
	return Entry{}
}

func withErrorMarker(partial string, err error) string {
	msg := err.Error()
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		msg = reqErr.Message
	}
	if msg == "" {
		msg = defaultRequestFailed
	}
	if partial == "" {
		return errorMarker + msg
	}
	return partial + "\n\n" + errorMarker + msg
}
