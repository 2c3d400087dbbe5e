package llm

import (
	"regexp"
	"strings"
)

var reHTMLTag = regexp.MustCompile(`<[^>]*>`)

// RepairJSON isolates a JSON object candidate from a free-form model reply.
// It trims surrounding whitespace and backtick fences, then takes the span
// from the first '{' to the last '}'. If no such span exists it returns the
// literal empty object "{}" so the caller always has something to parse.
//
// This is a greedy heuristic, not a balanced-brace scanner: a reply holding
// several independent JSON objects collapses into one span. Idempotent on a
// reply already reduced to a bare object.
func RepairJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "{}"
	}
	return s[start : end+1]
}

// StripHTML removes markup tags from text. Transcripts occasionally come back
// wrapped in tags; they must not reach the text model's prompt.
func StripHTML(text string) string {
	return reHTMLTag.ReplaceAllString(text, "")
}
