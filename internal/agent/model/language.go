package model

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported display language, identified by its ISO 639-1 code.
type Language string

const (
	English   Language = "en"
	Hindi     Language = "hi"
	Bengali   Language = "bn"
	Telugu    Language = "te"
	Marathi   Language = "mr"
	Tamil     Language = "ta"
	Gujarati  Language = "gu"
	Kannada   Language = "kn"
	Malayalam Language = "ml"
	Punjabi   Language = "pa"
)

// LanguageInfo carries the per-locale details the core needs: the name the model
// is asked to answer in, the punctuation used when narrating lists, and a voice.
type LanguageInfo struct {
	Code          Language
	Name          string
	NativeName    string
	ListSeparator string
	SentenceEnd   string
	Voice         string
}

// English must stay first: the matcher falls back to the first tag.
var languageTable = []LanguageInfo{
	{Code: English, Name: "English", NativeName: "English", ListSeparator: ", ", SentenceEnd: ". ", Voice: "Kore"},
	{Code: Hindi, Name: "Hindi", NativeName: "हिन्दी", ListSeparator: ", ", SentenceEnd: "। ", Voice: "Kore"},
	{Code: Bengali, Name: "Bengali", NativeName: "বাংলা", ListSeparator: ", ", SentenceEnd: "। ", Voice: "Kore"},
	{Code: Telugu, Name: "Telugu", NativeName: "తెలుగు", ListSeparator: ", ", SentenceEnd: ". ", Voice: "Puck"},
	{Code: Marathi, Name: "Marathi", NativeName: "मराठी", ListSeparator: ", ", SentenceEnd: ". ", Voice: "Kore"},
	{Code: Tamil, Name: "Tamil", NativeName: "தமிழ்", ListSeparator: ", ", SentenceEnd: ". ", Voice: "Puck"},
	{Code: Gujarati, Name: "Gujarati", NativeName: "ગુજરાતી", ListSeparator: ", ", SentenceEnd: ". ", Voice: "Kore"},
	{Code: Kannada, Name: "Kannada", NativeName: "ಕನ್ನಡ", ListSeparator: ", ", SentenceEnd: ". ", Voice: "Puck"},
	{Code: Malayalam, Name: "Malayalam", NativeName: "മലയാളം", ListSeparator: ", ", SentenceEnd: ". ", Voice: "Puck"},
	{Code: Punjabi, Name: "Punjabi", NativeName: "ਪੰਜਾਬੀ", ListSeparator: ", ", SentenceEnd: "। ", Voice: "Kore"},
}

var languageMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(languageTable))
	for i, l := range languageTable {
		tags[i] = language.MustParse(string(l.Code))
	}
	return language.NewMatcher(tags)
}()

// Languages returns the supported languages in display order.
func Languages() []LanguageInfo {
	out := make([]LanguageInfo, len(languageTable))
	copy(out, languageTable)
	return out
}

// ParseLanguage accepts an exact supported code ("hi", "HI").
func ParseLanguage(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range languageTable {
		if string(l.Code) == code {
			return l.Code, true
		}
	}
	return "", false
}

// MatchLanguage resolves a BCP-47 preference or Accept-Language style list
// ("hi-IN", "ta-IN,en;q=0.8") to the closest supported language. Anything
// unrecognised resolves to English.
func MatchLanguage(pref string) Language {
	if l, ok := ParseLanguage(pref); ok {
		return l
	}
	tags, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := languageMatcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(languageTable) {
		return English
	}
	return languageTable[idx].Code
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	_, ok := ParseLanguage(string(l))
	return ok
}

// Info returns the locale details of l, or English's when l is unsupported.
func (l Language) Info() LanguageInfo {
	for _, info := range languageTable {
		if info.Code == l {
			return info
		}
	}
	return languageTable[0]
}

func (l Language) String() string {
	return string(l)
}
