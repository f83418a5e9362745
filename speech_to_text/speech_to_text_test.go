package speech_to_text

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterSegments(t *testing.T) {
	segments := []Segment{
		{Text: " [BLANK_AUDIO]"},
		{Text: " turn on the lights", Start: time.Second},
		{Text: "(music)"},
		{Text: " turn on the lights"},
		{Text: "  "},
		{Text: " please"},
	}

	filtered := FilterSegments(segments)

	assert.Len(t, filtered, 2)
	assert.Equal(t, time.Second, filtered[0].Start)
	assert.Equal(t, "turn on the lights please", Transcript(filtered))
}

func TestIsExitPhrase(t *testing.T) {
	for _, text := range []string{"exit", " Quit.", "Goodbye!", "BYE"} {
		assert.True(t, IsExitPhrase(text), text)
	}

	for _, text := range []string{"", "goodbye for now", "exiting", "say bye to the dog"} {
		assert.False(t, IsExitPhrase(text), text)
	}
}
