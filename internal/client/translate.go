package client

import (
	"context"
	"errors"
	"strings"

	"github.com/RichardoC/lingopad/internal/models"
)

// TranslateForm holds the state behind the translate tool: the language pair,
// the input text, the last result and the last error message.
type TranslateForm struct {
	client *Client

	SourceLang string
	TargetLang string
	Text       string
	Result     models.TranslationResult
	Err        string
}

func NewTranslateForm(c *Client) *TranslateForm {
	return &TranslateForm{
		client:     c,
		SourceLang: models.DefaultSourceLang,
		TargetLang: models.DefaultTargetLang,
	}
}

// Translate replaces Result with a fresh translation of Text. Nothing is sent
// when Text is blank. On failure Result stays empty and Err holds the message.
func (f *TranslateForm) Translate(ctx context.Context) error {
	text := strings.TrimSpace(f.Text)
	if text == "" {
		return nil
	}

	f.Err = ""
	f.Result = models.TranslationResult{}

	result, err := f.client.Translate(ctx, models.TranslationRequest{
		Text:       text,
		SourceLang: f.SourceLang,
		TargetLang: f.TargetLang,
	})
	if err != nil {
		f.Err = defaultTranslationFailed
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.Message != "" {
			f.Err = reqErr.Message
		}
		return err
	}

	f.Result = result
	return nil
}

// Swap reverses the direction: languages trade places, the translation becomes
// the input and the input takes the result slot with the other fields cleared.
func (f *TranslateForm) Swap() {
	f.SourceLang, f.TargetLang = f.TargetLang, f.SourceLang
	input := f.Text
	f.Text = f.Result.Result
	f.Result = models.TranslationResult{Result: input}
}
