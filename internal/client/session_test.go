package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RichardoC/lingopad/internal/models"
)

func TestChatSessionSend(t *testing.T) {
	var mu sync.Mutex
	var requests []ChatRequest
	c := streamingClient(t, func(r *http.Request) *chunkBody {
		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		requests = append(requests, req)
		n := len(requests)
		mu.Unlock()
		if n == 1 {
			return &chunkBody{chunks: textChunks("Hi", " there")}
		}
		return &chunkBody{chunks: textChunks("Fine")}
	})
	s := NewChatSession(c, "gpt-4o")

	var updates []string
	first, outcome, err := s.Send(context.Background(), "  hello ", func(e Entry) {
		updates = append(updates, e.Content)
	})
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)
	assert.Equal(t, "Hi there", first.Content)
	assert.Equal(t, []string{"Hi", "Hi there"}, updates)

	_, _, err = s.Send(context.Background(), "how are you?", nil)
	require.NoError(t, err)

	require.Len(t, requests, 2)
	assert.Equal(t, "gpt-4o", requests[0].Model)
	assert.Equal(t, []models.Message{{Role: models.RoleUser, Content: "hello"}}, requests[0].Messages)
	assert.Equal(t, []models.Message{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "Hi there"},
		{Role: models.RoleUser, Content: "how are you?"},
	}, requests[1].Messages)

	entries := s.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, models.RoleAssistant, entries[3].Role)
	assert.Equal(t, "Fine", entries[3].Content)

	ids := map[string]bool{}
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		ids[e.ID] = true
	}
	assert.Len(t, ids, 4)
	assert.False(t, s.Busy())
}

func TestChatSessionStopKeepsPartialReply(t *testing.T) {
	c := streamingClient(t, func(r *http.Request) *chunkBody {
		return &chunkBody{ctx: r.Context(), chunks: textChunks("hello "), block: true}
	})
	s := NewChatSession(c, "")

	entry, outcome, err := s.Send(context.Background(), "hi", func(Entry) {
		assert.True(t, s.Busy())
		s.Stop()
	})

	require.NoError(t, err)
	assert.Equal(t, Cancelled, outcome)
	assert.Equal(t, "hello ", entry.Content)
	assert.NotContains(t, entry.Content, errorMarker)
	assert.Equal(t, "hello ", s.Entries()[1].Content)
	assert.False(t, s.Busy())
}

func TestChatSessionRequestErrorMarker(t *testing.T) {
	c := New("http://lingopad.test", &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(r, http.StatusInternalServerError, `{"error":"OPENAI_API_KEY is not configured"}`), nil
	})})
	s := NewChatSession(c, "")

	entry, outcome, err := s.Send(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Equal(t, Failed, outcome)
	assert.Equal(t, "Error: OPENAI_API_KEY is not configured", entry.Content)
	assert.Equal(t, entry, s.Entries()[1])
}

func TestChatSessionTruncatedReplyKeepsText(t *testing.T) {
	c := streamingClient(t, func(r *http.Request) *chunkBody {
		return &chunkBody{chunks: textChunks("partial"), tailErr: io.ErrUnexpectedEOF}
	})
	s := NewChatSession(c, "")

	entry, outcome, err := s.Send(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Equal(t, Failed, outcome)
	assert.Contains(t, entry.Content, "partial\n\nError: ")
}

func TestChatSessionRejectsEmptyAndConcurrentSends(t *testing.T) {
	release := make(chan struct{})
	c := streamingClient(t, func(r *http.Request) *chunkBody {
		return &chunkBody{ctx: r.Context(), chunks: textChunks("x"), block: true}
	})
	s := NewChatSession(c, "")

	_, _, err := s.Send(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, s.Entries())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = s.Send(context.Background(), "first", func(Entry) {
			close(release)
		})
	}()

	<-release
	_, _, err = s.Send(context.Background(), "second", nil)
	assert.ErrorIs(t, err, ErrBusy)

	s.Stop()
	<-done
	assert.Len(t, s.Entries(), 2)
}
