package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RichardoC/lingopad/internal/models"
)

const translatePromptFormat = `You are a professional translator. %s, then add pronunciation, usage and a brief explanation.

Requirements: output strictly the JSON object below and nothing else. Use an empty string for any field that does not apply.
{
  "result": "the translated text, keeping the original line breaks",
  "pronunciation": "pronunciation of the translation (pinyin for Chinese, phonetic symbols or a pronunciation note for English and other languages; required for words and phrases, optional for long sentences)",
  "usage": "usage scenarios or examples (1-2 short example sentences or situations)",
  "explanation": "a brief explanation (meaning, usage, easily confused points; one or two sentences)"
}

Source text:
%s`

// BuildTranslatePrompt renders the single instruction sent for a translation.
// Unknown language codes are used verbatim as language names.
func BuildTranslatePrompt(text, sourceLang, targetLang string) string {
	targetName := models.LanguageName(targetLang)

	var instruction string
	if sourceLang == models.DefaultSourceLang {
		instruction = fmt.Sprintf("Detect the language of the text below automatically and translate it into %s", targetName)
	} else {
		instruction = fmt.Sprintf("Translate the text below from %s into %s", models.LanguageName(sourceLang), targetName)
	}

	return fmt.Sprintf(translatePromptFormat, instruction, text)
}

// ParseTranslation extracts the four-field record from raw model output. It
// never fails: output without a usable JSON object becomes the Result as is.
func ParseTranslation(raw string) models.TranslationResult {
	result, _ := parseTranslation(raw)
	return result
}

// parseTranslation also reports whether a JSON object was found.
func parseTranslation(raw string) (models.TranslationResult, bool) {
	trimmed := strings.TrimSpace(raw)

	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start >= 0 && end > start {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &obj); err == nil {
			return fromObject(obj), true
		}
		// The greedy span also swallowed prose with braces; take the first
		// complete object instead.
		for i := start; i >= 0 && i < end; {
			if obj, ok := decodeFirstObject(trimmed[i:]); ok {
				return fromObject(obj), true
			}
			next := strings.IndexByte(trimmed[i+1:], '{')
			if next < 0 {
				break
			}
			i += next + 1
		}
	}

	return models.TranslationResult{Result: trimmed}, false
}

func decodeFirstObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.NewDecoder(strings.NewReader(s)).Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func fromObject(obj map[string]any) models.TranslationResult {
	field := func(key string) string {
		if s, ok := obj[key].(string); ok {
			return s
		}
		return ""
	}
	return models.TranslationResult{
		Result:        field("result"),
		Pronunciation: field("pronunciation"),
		Usage:         field("usage"),
		Explanation:   field("explanation"),
	}
}
