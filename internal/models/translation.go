package models

const (
	DefaultSourceLang = "auto"
	DefaultTargetLang = "en"
)

type TranslationRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

// TranslationResult is the fixed four-field record produced per translate call.
// Only Result is expected to be non-empty.
type TranslationResult struct {
	Result        string `json:"result"`
	Pronunciation string `json:"pronunciation"`
	Usage         string `json:"usage"`
	Explanation   string `json:"explanation"`
}
