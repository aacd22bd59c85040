package llm

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/RichardoC/lingopad/internal/config"
	"github.com/RichardoC/lingopad/internal/models"
	"github.com/RichardoC/lingopad/internal/tracer"
)

// Service relays chat and translation requests to the upstream completion API.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	cfg      config.LLMConfig
	upstream Upstream
	logger   *zap.Logger
}

type ChatRequest struct {
	Messages []models.Message
	Model    string // optional per-request override
}

// New returns a Service. upstream may be nil when cfg carries no credential;
// every call then fails with ErrMissingCredential.
func New(cfg config.LLMConfig, upstream Upstream, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, upstream: upstream, logger: logger}
}

// DefaultModel is the model used when a request does not name one.
func (s *Service) DefaultModel() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return config.DefaultModel
}

// Ready fails with ErrMissingCredential when no upstream is configured.
func (s *Service) Ready() error {
	if !s.cfg.HasCredential() || s.upstream == nil {
		return ErrMissingCredential
	}
	return nil
}

// StreamChat forwards req upstream with streaming enabled and calls emit for
// every non-empty fragment in arrival order. Fragments already emitted are not
// retracted when the upstream fails part way through.
func (s *Service) StreamChat(ctx context.Context, req ChatRequest, emit func(fragment string) error) error {
	if err := s.Ready(); err != nil {
		return err
	}
	if len(req.Messages) == 0 {
		return ErrInvalidMessages
	}

	model := req.Model
	if model == "" {
		model = s.DefaultModel()
	}

	ctx, span := tracer.StartSpan(ctx, "llm.stream_chat",
		attribute.String("llm.model", model),
		attribute.Int("llm.messages", len(req.Messages)),
	)
	defer span.End()

	var (
		fragments int
		emitErr   error
	)
	err := s.upstream.StreamCompletion(ctx, model, req.Messages, func(fragment string) error {
		if fragment == "" {
			return nil
		}
		fragments++
		if err := emit(fragment); err != nil {
			emitErr = err
			return err
		}
		return nil
	})
	span.SetAttributes(attribute.Int("llm.fragments", fragments))

	if emitErr != nil {
		tracer.RecordError(span, emitErr)
		return emitErr
	}
	if err != nil {
		tracer.RecordError(span, err)
		s.logger.Error("Upstream stream failed",
			zap.Error(err),
			zap.String("model", model),
			zap.Int("fragments", fragments))
		return upstreamError("stream chat", err)
	}

	tracer.SetOK(span)
	s.logger.Debug("Stream completed",
		zap.String("model", model),
		zap.Int("fragments", fragments))
	return nil
}

// Translate performs one non-streaming completion and parses its structured
// output. A response that is not the expected JSON still yields a result.
func (s *Service) Translate(ctx context.Context, req models.TranslationRequest) (models.TranslationResult, error) {
	if err := s.Ready(); err != nil {
		return models.TranslationResult{}, err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return models.TranslationResult{}, ErrEmptyText
	}
	source := req.SourceLang
	if source == "" {
		source = models.DefaultSourceLang
	}
	target := req.TargetLang
	if target == "" {
		target = models.DefaultTargetLang
	}

	model := s.DefaultModel()
	ctx, span := tracer.StartSpan(ctx, "llm.translate",
		attribute.String("llm.model", model),
		attribute.String("translate.source", source),
		attribute.String("translate.target", target),
	)
	defer span.End()

	prompt := BuildTranslatePrompt(text, source, target)
	raw, err := s.upstream.Completion(ctx, model, []models.Message{
		{Role: models.RoleUser, Content: prompt},
	})
	if err != nil {
		tracer.RecordError(span, err)
		s.logger.Error("Upstream completion failed", zap.Error(err), zap.String("model", model))
		return models.TranslationResult{}, upstreamError("translate", err)
	}

	result, structured := parseTranslation(raw)
	if !structured {
		s.logger.Debug("Translation output was not structured, using raw text",
			zap.Int("length", len(raw)))
	}
	span.SetAttributes(attribute.Bool("translate.structured", structured))
	tracer.SetOK(span)
	return result, nil
}
