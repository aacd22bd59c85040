package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/RichardoC/lingopad/internal/models"
)

const (
	defaultRequestFailed     = "request failed"
	defaultTranslationFailed = "translation failed"
)

// Client talks to the lingopad HTTP endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the server at baseURL. httpClient may be nil.
// It should not carry a Timeout, which would cut long streams short.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type ChatRequest struct {
	Messages []models.Message `json:"messages"`
	Model    string           `json:"model,omitempty"`
}

// Outcome tells how a stream ended.
type Outcome int

const (
	Completed Outcome = iota
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type StreamResult struct {
	Text    string
	Outcome Outcome
}

// RequestError is a non-success response from the server.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// StreamChat sends req and reads the reply as it arrives. onUpdate receives
// the whole text accumulated so far after every chunk that adds to it.
//
// Cancelling ctx stops the read; the result then carries the partial text with
// Outcome Cancelled and a nil error. Any other failure returns Outcome Failed
// together with whatever text was received before it.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest, onUpdate func(text string)) (StreamResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return StreamResult{Outcome: Failed}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return StreamResult{Outcome: Failed}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if cancelled(ctx) {
			return StreamResult{Outcome: Cancelled}, nil
		}
		return StreamResult{Outcome: Failed}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return StreamResult{Outcome: Failed}, readRequestError(resp, defaultRequestFailed)
	}

	var (
		acc strings.Builder
		dec = NewStreamDecoder()
		buf = make([]byte, 4096)
	)
	appendText := func(text string) {
		if text == "" {
			return
		}
		acc.WriteString(text)
		if onUpdate != nil {
			onUpdate(acc.String())
		}
	}

	for {
		n, readErr := resp.Body.Read(buf)
		if cancelled(ctx) {
			return StreamResult{Text: acc.String(), Outcome: Cancelled}, nil
		}
		if n > 0 {
			appendText(dec.Decode(buf[:n], false))
		}
		if errors.Is(readErr, io.EOF) {
			appendText(dec.Decode(nil, true))
			return StreamResult{Text: acc.String(), Outcome: Completed}, nil
		}
		if readErr != nil {
			return StreamResult{Text: acc.String(), Outcome: Failed}, fmt.Errorf("read stream: %w", readErr)
		}
	}
}

// Model returns the server's default model identifier.
func (c *Client) Model(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/chat", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", readRequestError(resp, defaultRequestFailed)
	}

	var out struct {
		Model string `json:"model"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	return out.Model, nil
}

// Translate performs one translate call. Failures are *RequestError when the
// server answered, carrying its message.
func (c *Client) Translate(ctx context.Context, req models.TranslationRequest) (models.TranslationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.TranslationResult{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/translate", bytes.NewReader(body))
	if err != nil {
		return models.TranslationResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return models.TranslationResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.TranslationResult{}, readRequestError(resp, defaultTranslationFailed)
	}

	var result models.TranslationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.TranslationResult{}, fmt.Errorf("decode translation: %w", err)
	}
	return result, nil
}

func readRequestError(resp *http.Response, fallback string) error {
	var payload struct {
		Error string `json:"error"`
	}
	msg := fallback
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &RequestError{Status: resp.StatusCode, Message: msg}
}

// cancelled reports whether the caller abandoned the request. Deadlines are
// failures, not cancellations.
func cancelled(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}
