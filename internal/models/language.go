package models

type Language struct {
	Code string
	Name string
}

// Languages is the fixed, ordered set offered to users. Codes outside it are
// still accepted and used verbatim.
var Languages = []Language{
	{Code: "auto", Name: "the source language (auto-detected)"},
	{Code: "zh", Name: "Chinese"},
	{Code: "en", Name: "English"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "es", Name: "Spanish"},
	{Code: "ru", Name: "Russian"},
	{Code: "ar", Name: "Arabic"},
}

// LanguageName resolves a code to its display name, falling back to the code itself.
func LanguageName(code string) string {
	for _, l := range Languages {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

func IsKnownLanguage(code string) bool {
	return LanguageName(code) != code
}
