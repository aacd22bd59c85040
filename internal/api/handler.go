package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/RichardoC/lingopad/internal/llm"
	"github.com/RichardoC/lingopad/internal/models"
)

type Handler struct {
	llm    *llm.Service
	logger *zap.Logger
}

func NewHandler(llmService *llm.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		llm:    llmService,
		logger: logger,
	}
}

type ChatRequest struct {
	Messages json.RawMessage `json:"messages"`
	Model    *string         `json:"model"`
}

type ModelResponse struct {
	Model string `json:"model"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleChat serves GET (configured model) and POST (streamed completion).
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, ModelResponse{Model: h.llm.DefaultModel()})
	case http.MethodPost:
		h.streamChat(w, r)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) streamChat(w http.ResponseWriter, r *http.Request) {
	if err := h.llm.Ready(); err != nil {
		h.fail(w, r, err)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Invalid chat request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	chatReq, err := toChatRequest(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rc := http.NewResponseController(w)
	started := false
	err = h.llm.StreamChat(r.Context(), chatReq, func(fragment string) error {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := w.Write([]byte(fragment)); err != nil {
			return err
		}
		return rc.Flush()
	})

	switch {
	case err == nil && !started:
		// Upstream finished without a single fragment.
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	case err == nil:
	case !started:
		h.fail(w, r, err)
	case r.Context().Err() != nil:
		h.logger.Debug("Client left during chat stream", zap.String("path", r.URL.Path))
	default:
		// The status line is gone; drop the connection so the client sees a
		// truncated stream rather than a clean end.
		h.logger.Error("Chat stream interrupted",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		panic(http.ErrAbortHandler)
	}
}

// toChatRequest validates the raw payload. Roles are passed through as sent.
func toChatRequest(req ChatRequest) (llm.ChatRequest, error) {
	var messages []models.Message
	if len(req.Messages) == 0 || json.Unmarshal(req.Messages, &messages) != nil || len(messages) == 0 {
		return llm.ChatRequest{}, llm.ErrInvalidMessages
	}

	out := llm.ChatRequest{Messages: messages}
	if req.Model != nil {
		out.Model = *req.Model
	}
	return out, nil
}

// HandleTranslate serves POST /api/translate.
func (h *Handler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := h.llm.Ready(); err != nil {
		h.fail(w, r, err)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Debug("Invalid translate request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.llm.Translate(r.Context(), models.TranslationRequest{
		Text:       stringField(body, "text", ""),
		SourceLang: stringField(body, "sourceLang", models.DefaultSourceLang),
		TargetLang: stringField(body, "targetLang", models.DefaultTargetLang),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// stringField returns body[key] when it is a string, else def.
func stringField(body map[string]any, key, def string) string {
	if s, ok := body[key].(string); ok {
		return s
	}
	return def
}

// fail maps a gateway error onto the JSON error shape.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "request failed"

	var upErr *llm.UpstreamError
	switch {
	case llm.IsValidation(err):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, llm.ErrMissingCredential):
		msg = err.Error()
	case errors.As(err, &upErr):
		msg = upErr.Error()
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
	}
	h.writeError(w, status, msg)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
