package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"voice-capture/audio_device"
	"voice-capture/metrics"
	"voice-capture/sample_conversion"
)

const DefaultFramesPerBuffer = 1024

type playbackImpl struct {
	// mu keeps two calls from sharing the output device.
	mu              sync.Mutex
	device          audio_device.OutputOpener
	framesPerBuffer int
	logger          *slog.Logger
	metrics         *metrics.Metrics
}

type Config struct {
	Device          audio_device.OutputOpener
	FramesPerBuffer int
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Device == nil {
		return nil, fmt.Errorf("device is nil")
	}

	if cfg.FramesPerBuffer < 0 {
		return nil, fmt.Errorf("frames per buffer cannot be negative, got %d", cfg.FramesPerBuffer)
	}

	frames := cfg.FramesPerBuffer
	if frames == 0 {
		frames = DefaultFramesPerBuffer
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.New(nil)
	}

	return &playbackImpl{
		device:          cfg.Device,
		framesPerBuffer: frames,
		logger:          logger.With("component", "playback"),
		metrics:         m,
	}, nil
}

func (p *playbackImpl) Play(ctx context.Context, samples []float32, sampleRate int) (err error) {
	if len(samples) == 0 {
		return nil
	}

	if sampleRate < 1 {
		return fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	limited := sample_conversion.SoftLimit(samples)

	stream, err := p.device.OpenOutput(audio_device.OutputParams{
		SampleRate:      sampleRate,
		Channels:        1,
		FramesPerBuffer: p.framesPerBuffer,
	})
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}

	defer func() {
		if stopErr := stream.Stop(); stopErr != nil {
			p.logger.Warn("failed to stop output stream", "error", stopErr)
		}

		if closeErr := stream.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output stream: %w", closeErr)
		}
	}()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}

	started := time.Now()

	for offset := 0; offset < len(limited); offset += p.framesPerBuffer {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := offset + p.framesPerBuffer
		if end > len(limited) {
			end = len(limited)
		}

		if err := stream.Write(limited[offset:end]); err != nil {
			return fmt.Errorf("failed to write output stream: %w", err)
		}
	}

	p.metrics.PlaybackTotal.Inc()
	p.metrics.PlaybackDuration.Observe(time.Since(started).Seconds())

	p.logger.Debug("playback finished",
		"samples", len(limited),
		"sample_rate", sampleRate,
	)

	return nil
}
