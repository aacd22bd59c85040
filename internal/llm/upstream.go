package llm

import (
	"context"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/RichardoC/lingopad/internal/config"
	"github.com/RichardoC/lingopad/internal/models"
)

// Upstream is the completion API as seen by the gateways.
type Upstream interface {
	// StreamCompletion calls fn once per fragment, in arrival order, and returns
	// when the upstream stream ends.
	StreamCompletion(ctx context.Context, model string, messages []models.Message, fn func(fragment string) error) error
	Completion(ctx context.Context, model string, messages []models.Message) (string, error)
}

type openAIUpstream struct {
	llm *openai.LLM
}

// NewUpstream builds an OpenAI-compatible client. httpClient may be nil.
func NewUpstream(cfg config.LLMConfig, httpClient *http.Client) (Upstream, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(httpClient))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &openAIUpstream{llm: client}, nil
}

func (u *openAIUpstream) StreamCompletion(ctx context.Context, model string, messages []models.Message, fn func(fragment string) error) error {
	_, err := u.llm.GenerateContent(ctx, toMessageContent(messages),
		llms.WithModel(model),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			return fn(string(chunk))
		}),
	)
	return err
}

func (u *openAIUpstream) Completion(ctx context.Context, model string, messages []models.Message) (string, error) {
	resp, err := u.llm.GenerateContent(ctx, toMessageContent(messages), llms.WithModel(model))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

func toMessageContent(messages []models.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		out = append(out, llms.TextParts(chatMessageType(m.Role), m.Content))
	}
	return out
}

func chatMessageType(role models.Role) schema.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return schema.ChatMessageTypeSystem
	case models.RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}
