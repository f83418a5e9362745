package speech_extraction

import (
	"time"

	"voice-capture/sample_conversion"
)

type StopReason string

const (
	StopSilence     StopReason = "silence"
	StopDuration    StopReason = "duration"
	StopInterrupted StopReason = "interrupted"
)

// RecordResult is what one Record call produced.
type RecordResult struct {
	Samples    []float32
	SampleRate int
	Reason     StopReason
	// Chunks is the number of chunks concatenated into Samples.
	Chunks int
	// Dropped counts chunks lost because the queue was full.
	Dropped  int
	Duration time.Duration
}

// captureSession is the mutable state of one Record call. Only the consumer
// loop touches it.
type captureSession struct {
	chunks       []sample_conversion.RawChunk
	silentChunks int
	processed    int
	started      time.Time
}

func newCaptureSession(started time.Time) *captureSession {
	return &captureSession{started: started}
}

func (s *captureSession) append(chunk sample_conversion.RawChunk) {
	s.chunks = append(s.chunks, chunk)
}

func (s *captureSession) observe(silent bool) {
	if silent {
		s.silentChunks++
	} else {
		s.silentChunks = 0
	}
}

func (s *captureSession) shouldStop(maxSilentChunks, minChunks int) bool {
	return s.silentChunks > maxSilentChunks && len(s.chunks) > minChunks
}

func (s *captureSession) expired(now time.Time, maxDuration time.Duration) bool {
	return maxDuration > 0 && now.Sub(s.started) > maxDuration
}
