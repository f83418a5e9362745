package speech_to_text

import (
	"time"

	"github.com/go-audio/audio"
)

// Segment is one recognized span of speech.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

type Interface interface {
	Process(wavBuffer audio.Buffer) ([]Segment, error)
}
