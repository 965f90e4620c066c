package quiztext

import (
	"regexp"
	"strings"
)

// Answer is one parsed answer-key record.
type Answer struct {
	ID string
	// CorrectKeys keeps source order and duplicates; consumers compare
	// them as a set.
	CorrectKeys []string
	Explanation string
}

var (
	answerStartRe      = regexp.MustCompile(`(?i)^(\d+)[.:\s]*correct:\s*([a-z](?:\s*,\s*[a-z])*)\b`)
	explanationStartRe = regexp.MustCompile(`(?i)^explanation:\s*(.*)$`)
)

// ParseAnswers converts a raw answer document into a map keyed by question
// id, last write winning on duplicates. An answer-start line flushes the
// previous record; an explanation line sets the open record's explanation;
// any other non-blank line continues it. An empty map signals failure to
// the caller.
func ParseAnswers(text string) map[string]Answer {
	out := make(map[string]Answer)
	var open *Answer
	flush := func() {
		if open != nil {
			out[open.ID] = *open
			open = nil
		}
	}
	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := answerStartRe.FindStringSubmatch(line); m != nil {
			flush()
			open = &Answer{ID: m[1], CorrectKeys: splitKeys(m[2])}
			continue
		}
		if open == nil {
			continue
		}
		if m := explanationStartRe.FindStringSubmatch(line); m != nil {
			open.Explanation = strings.TrimSpace(m[1])
			continue
		}
		open.Explanation = joinLines(open.Explanation, line)
	}
	flush()
	return out
}

func splitKeys(list string) []string {
	parts := strings.Split(list, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		keys = append(keys, strings.ToUpper(strings.TrimSpace(p)))
	}
	return keys
}
