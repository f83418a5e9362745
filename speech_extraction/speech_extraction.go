package speech_extraction

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"voice-capture/audio_device"
	"voice-capture/metrics"
	"voice-capture/ring_buffer"
	"voice-capture/sample_conversion"
	"voice-capture/voice_activity_detection"
)

type captureImpl struct {
	capture CaptureConfig
	device  audio_device.InputOpener
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Config struct {
	Capture CaptureConfig
	Device  audio_device.InputOpener
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Device == nil {
		return nil, fmt.Errorf("device is nil")
	}

	if err := cfg.Capture.Validate(); err != nil {
		return nil, fmt.Errorf("capture config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.New(nil)
	}

	return &captureImpl{
		capture: cfg.Capture,
		device:  cfg.Device,
		logger:  logger.With("component", "capture"),
		metrics: m,
	}, nil
}

func (v *captureImpl) Record(ctx context.Context, opts RecordOptions) ([]float32, error) {
	result, err := v.RecordDetailed(ctx, opts)
	if err != nil {
		return nil, err
	}

	return result.Samples, nil
}

func (v *captureImpl) RecordDetailed(ctx context.Context, opts RecordOptions) (RecordResult, error) {
	queue := ring_buffer.New[sample_conversion.RawChunk](v.capture.QueueCapacity)

	var dropped atomic.Int64

	// Runs on the driver thread: hand the chunk over and return.
	onChunk := func(chunk sample_conversion.RawChunk) {
		if !queue.Push(chunk) {
			dropped.Add(1)
		}
	}

	stream, err := v.device.OpenInput(audio_device.InputParams{
		SampleRate:      v.capture.SampleRate,
		Channels:        v.capture.Channels,
		FramesPerBuffer: v.capture.ChunkSize,
		Format:          v.capture.Format,
	}, onChunk)
	if err != nil {
		v.metrics.SessionsTotal.WithLabelValues(metrics.ReasonError).Inc()
		return RecordResult{}, &DeviceOpenError{Err: err}
	}

	release := v.releaseOnce(stream)
	defer release()

	if err := stream.Start(); err != nil {
		v.metrics.SessionsTotal.WithLabelValues(metrics.ReasonError).Inc()
		return RecordResult{}, &DeviceOpenError{Err: fmt.Errorf("start: %w", err)}
	}

	v.logger.Info("recording started",
		"sample_rate", v.capture.SampleRate,
		"channels", v.capture.Channels,
		"format", v.capture.Format.String(),
		"auto_stop", opts.AutoStop,
		"max_duration", opts.MaxDuration,
	)

	session := newCaptureSession(time.Now())
	reason := v.consume(ctx, queue, session, opts)

	release()

	elapsed := time.Since(session.started)
	lost := int(dropped.Load())

	v.metrics.SessionsTotal.WithLabelValues(string(reason)).Inc()
	v.metrics.SessionDuration.Observe(elapsed.Seconds())
	if lost > 0 {
		v.metrics.ChunksDropped.Add(float64(lost))
		v.logger.Warn("capture queue overflowed, chunks dropped", "dropped", lost)
	}

	v.logger.Info("recording finished",
		"reason", string(reason),
		"chunks", len(session.chunks),
		"duration", elapsed,
	)

	result := RecordResult{
		Samples:    []float32{},
		SampleRate: v.capture.SampleRate,
		Reason:     reason,
		Chunks:     len(session.chunks),
		Dropped:    lost,
		Duration:   elapsed,
	}

	if len(session.chunks) == 0 {
		return result, nil
	}

	recording, err := sample_conversion.Concat(session.chunks)
	if err != nil {
		return RecordResult{}, fmt.Errorf("concatenate chunks: %w", err)
	}

	samples, err := sample_conversion.Normalize(recording)
	if err != nil {
		return RecordResult{}, fmt.Errorf("normalize recording: %w", err)
	}

	result.Samples = samples

	return result, nil
}

// consume drains the queue until the session stops and reports why.
func (v *captureImpl) consume(ctx context.Context, queue *ring_buffer.Buffer[sample_conversion.RawChunk], session *captureSession, opts RecordOptions) StopReason {
	for {
		if ctx.Err() != nil {
			return StopInterrupted
		}

		if session.expired(time.Now(), opts.MaxDuration) {
			return StopDuration
		}

		chunk, ok, err := queue.Pop(ctx, v.capture.PollInterval)
		if err != nil {
			return StopInterrupted
		}

		if !ok {
			continue
		}

		session.processed++
		v.metrics.ChunksCaptured.Inc()

		samples, err := sample_conversion.Normalize(chunk)
		if err != nil {
			v.chunkFailed(&ChunkProcessingError{Chunk: session.processed, Err: err})
		} else {
			session.append(chunk)
		}

		if !opts.AutoStop {
			continue
		}

		silent := true
		if err == nil {
			silent, err = v.isSilent(samples)
			if err != nil {
				v.chunkFailed(&ChunkProcessingError{Chunk: session.processed, Err: err})
			}
		}

		session.observe(silent)

		if session.shouldStop(v.capture.MaxSilentChunks, v.capture.MinChunksBeforeStop) {
			return StopSilence
		}
	}
}

// isSilent analyzes the whole chunk as a single window.
func (v *captureImpl) isSilent(samples []float32) (bool, error) {
	trace, err := voice_activity_detection.Analyze(samples, len(samples), v.capture.SilenceThreshold)
	if err != nil {
		return true, err
	}

	if len(trace) != 1 {
		return true, fmt.Errorf("expected a single window, got %d", len(trace))
	}

	return trace[0].Silent, nil
}

func (v *captureImpl) chunkFailed(err *ChunkProcessingError) {
	v.metrics.ChunkErrors.Inc()
	v.logger.Warn("chunk treated as silent", "error", err)
}

// releaseOnce stops and closes the stream exactly once, whichever exit path
// gets there first.
func (v *captureImpl) releaseOnce(stream audio_device.InputStream) func() {
	var once sync.Once

	return func() {
		once.Do(func() {
			if err := stream.Stop(); err != nil {
				v.logger.Warn("failed to stop input stream", "error", err)
			}

			if err := stream.Close(); err != nil {
				v.logger.Warn("failed to close input stream", "error", err)
			}
		})
	}
}
