package llm

import "errors"

var (
	ErrMissingCredential = errors.New("OPENAI_API_KEY is not configured")
	ErrInvalidMessages   = errors.New("messages is required and must be a non-empty array")
	ErrEmptyText         = errors.New("text to translate is required")
)

// UpstreamError wraps a failure reported by the completion API. Its message is
// the upstream's own, so it can be shown to callers unchanged.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstreamError(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}

// IsValidation reports whether err was caused by caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidMessages) || errors.Is(err, ErrEmptyText)
}
