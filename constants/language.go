package constants

import "strings"

// Spoken-language routing table. Codes are ISO-639-1, compared
// case-insensitively.
const (
	LangWolof   = "wo"
	LangFrench  = "fr"
	LangArabic  = "ar"
	LangEnglish = "en"
)

// draftLanguages are the languages for which the auto-detect pass's own
// transcript is authoritative and no second transcription call is made.
var draftLanguages = map[string]struct{}{
	LangArabic:  {},
	LangFrench:  {},
	LangEnglish: {},
}

// IsWolof reports whether code names Wolof, in either short or long form.
func IsWolof(code string) bool {
	c := strings.ToLower(strings.TrimSpace(code))
	return c == LangWolof || c == "wolof"
}

// IsDraftLanguage reports whether the draft transcript for code can be
// accepted as final.
func IsDraftLanguage(code string) bool {
	_, ok := draftLanguages[strings.ToLower(strings.TrimSpace(code))]
	return ok
}
