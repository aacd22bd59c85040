package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RichardoC/lingopad/internal/models"
)

func translateClient(status int, body string, calls *int) *Client {
	return New("http://lingopad.test", &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		*calls++
		return jsonResponse(r, status, body), nil
	})})
}

func TestTranslateFormDefaults(t *testing.T) {
	f := NewTranslateForm(New("http://lingopad.test", nil))
	assert.Equal(t, "auto", f.SourceLang)
	assert.Equal(t, "en", f.TargetLang)
}

func TestTranslateFormReplacesResult(t *testing.T) {
	calls := 0
	f := NewTranslateForm(translateClient(http.StatusOK, `{"result":"Hello","pronunciation":"","usage":"Hello!","explanation":""}`, &calls))
	f.Text = "你好"
	f.Result = models.TranslationResult{Result: "old", Pronunciation: "old", Usage: "old", Explanation: "old"}
	f.Err = "previous failure"

	require.NoError(t, f.Translate(context.Background()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, models.TranslationResult{Result: "Hello", Usage: "Hello!"}, f.Result)
	assert.Empty(t, f.Err)
}

func TestTranslateFormBlankTextSendsNothing(t *testing.T) {
	calls := 0
	f := NewTranslateForm(translateClient(http.StatusOK, `{}`, &calls))
	f.Text = "  \n "

	require.NoError(t, f.Translate(context.Background()))
	assert.Equal(t, 0, calls)
}

func TestTranslateFormErrors(t *testing.T) {
	calls := 0
	f := NewTranslateForm(translateClient(http.StatusBadRequest, `{"error":"text to translate is required"}`, &calls))
	f.Text = "x"
	f.Result = models.TranslationResult{Result: "stale"}

	require.Error(t, f.Translate(context.Background()))
	assert.Equal(t, "text to translate is required", f.Err)
	assert.Equal(t, models.TranslationResult{}, f.Result)

	f = NewTranslateForm(New("http://lingopad.test", &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}))
	f.Text = "x"
	require.Error(t, f.Translate(context.Background()))
	assert.Equal(t, "translation failed", f.Err)
}

func TestTranslateFormSwap(t *testing.T) {
	f := NewTranslateForm(New("http://lingopad.test", nil))
	f.SourceLang, f.TargetLang = "zh", "en"
	f.Text = "你好"
	f.Result = models.TranslationResult{Result: "Hello", Pronunciation: "/həˈləʊ/", Usage: "Hello!", Explanation: "greeting"}

	f.Swap()
	assert.Equal(t, "en", f.SourceLang)
	assert.Equal(t, "zh", f.TargetLang)
	assert.Equal(t, "Hello", f.Text)
	assert.Equal(t, models.TranslationResult{Result: "你好"}, f.Result)

	f.Swap()
	assert.Equal(t, "zh", f.SourceLang)
	assert.Equal(t, "en", f.TargetLang)
	assert.Equal(t, "你好", f.Text)
	assert.Equal(t, models.TranslationResult{Result: "Hello"}, f.Result)
}

func TestTranslateFormSwapTwiceRestoresLanguages(t *testing.T) {
	pairs := [][2]string{{"auto", "en"}, {"ja", "ko"}, {"xx", "fr"}, {"en", "en"}}
	for _, p := range pairs {
		f := NewTranslateForm(New("http://lingopad.test", nil))
		f.SourceLang, f.TargetLang = p[0], p[1]
		f.Swap()
		f.Swap()
		assert.Equal(t, p[0], f.SourceLang)
		assert.Equal(t, p[1], f.TargetLang)
	}
}
