package speech_extraction

import (
	"fmt"
	"time"

	"voice-capture/sample_conversion"
)

const (
	DefaultSampleRate          = 16000
	DefaultChannels            = 1
	DefaultChunkSize           = 1024
	DefaultSilenceThreshold    = 0.01
	DefaultMaxSilentChunks     = 30
	DefaultMinChunksBeforeStop = 5
	DefaultQueueCapacity       = 256
	DefaultPollInterval        = 10 * time.Millisecond
)

// CaptureConfig is fixed for the lifetime of an engine.
type CaptureConfig struct {
	SampleRate int
	Channels   int
	// ChunkSize is the number of frames the driver delivers per callback.
	ChunkSize int
	Format    sample_conversion.SampleFormat
	// SilenceThreshold is the RMS energy below which a chunk is silent.
	SilenceThreshold float64
	// MaxSilentChunks is how many consecutive silent chunks are tolerated;
	// one more ends the session.
	MaxSilentChunks int
	// MinChunksBeforeStop keeps silence from ending a session before
	// anything was said.
	MinChunksBeforeStop int
	// QueueCapacity bounds the chunks waiting between driver and consumer.
	QueueCapacity int
	// PollInterval is how long the consumer waits on an empty queue before
	// re-checking the duration cap.
	PollInterval time.Duration
}

func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		SampleRate:          DefaultSampleRate,
		Channels:            DefaultChannels,
		ChunkSize:           DefaultChunkSize,
		Format:              sample_conversion.Int16,
		SilenceThreshold:    DefaultSilenceThreshold,
		MaxSilentChunks:     DefaultMaxSilentChunks,
		MinChunksBeforeStop: DefaultMinChunksBeforeStop,
		QueueCapacity:       DefaultQueueCapacity,
		PollInterval:        DefaultPollInterval,
	}
}

func (c CaptureConfig) Validate() error {
	if c.SampleRate < 1 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}

	if c.Channels < 1 {
		return fmt.Errorf("channels must be positive, got %d", c.Channels)
	}

	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}

	if err := c.Format.Validate(); err != nil {
		return err
	}

	if c.SilenceThreshold < 0 {
		return fmt.Errorf("silence threshold cannot be negative, got %f", c.SilenceThreshold)
	}

	if c.MaxSilentChunks < 0 {
		return fmt.Errorf("max silent chunks cannot be negative, got %d", c.MaxSilentChunks)
	}

	if c.MinChunksBeforeStop < 0 {
		return fmt.Errorf("min chunks before stop cannot be negative, got %d", c.MinChunksBeforeStop)
	}

	if c.QueueCapacity < 1 {
		return fmt.Errorf("queue capacity must be positive, got %d", c.QueueCapacity)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}

	return nil
}

// RecordOptions are chosen per call.
type RecordOptions struct {
	// MaxDuration caps the session; zero means no cap.
	MaxDuration time.Duration
	// AutoStop ends the session after sustained silence.
	AutoStop bool
}
