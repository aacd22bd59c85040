// Package llmtest provides a testify mock of llm.Upstream.
package llmtest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/RichardoC/lingopad/internal/models"
)

// MockUpstream replays the fragments given to Return for StreamCompletion:
//
//	m.On("StreamCompletion", mock.Anything, "gpt-4o-mini", msgs).Return([]string{"a", "b"}, nil)
type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) StreamCompletion(ctx context.Context, model string, messages []models.Message, fn func(fragment string) error) error {
	args := m.Called(ctx, model, messages)
	if fragments, ok := args.Get(0).([]string); ok {
		for _, f := range fragments {
			if err := fn(f); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

func (m *MockUpstream) Completion(ctx context.Context, model string, messages []models.Message) (string, error) {
	args := m.Called(ctx, model, messages)
	return args.String(0), args.Error(1)
}
