package speech_to_text

import (
	"strings"
)

// FilterSegments drops annotation segments such as "[BLANK_AUDIO]" or
// "(music)" and repeats of text already seen.
func FilterSegments(segments []Segment) []Segment {
	seenText := make(map[string]bool)

	filtered := make([]Segment, 0, len(segments))

	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}

		if text[0] == '(' || text[0] == '[' ||
			text[len(text)-1] == ')' || text[len(text)-1] == ']' {
			continue
		}

		if seenText[text] {
			continue
		}
		seenText[text] = true

		filtered = append(filtered, segment)
	}

	return filtered
}

// Transcript joins segment texts with single spaces.
func Transcript(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " ")
}

var exitPhrases = map[string]bool{
	"exit":    true,
	"quit":    true,
	"goodbye": true,
	"bye":     true,
}

// IsExitPhrase reports whether the whole utterance asks to end the
// conversation. Punctuation and case are ignored.
func IsExitPhrase(text string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == ' ' {
			return r
		}

		return -1
	}, text)

	return exitPhrases[strings.ToLower(strings.TrimSpace(cleaned))]
}
