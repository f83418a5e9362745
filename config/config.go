package config

import (
	"fmt"
	"time"

	"voice-capture/sample_conversion"
	"voice-capture/speech_extraction"
	"voice-capture/voice_activity_detection"
)

const (
	DefaultTrimWindowSize = 1024
	DefaultTrimThreshold  = 0.01
	DefaultLogLevel       = "info"
	DefaultPlaybackBuffer = 1024
)

// Config is the complete application configuration.
type Config struct {
	Audio   AudioConfig   `yaml:"audio"`
	VAD     VADConfig     `yaml:"vad"`
	Trim    TrimConfig    `yaml:"trim"`
	Whisper WhisperConfig `yaml:"whisper"`
	Logging LoggingConfig `yaml:"log"`
}

type AudioConfig struct {
	SampleRate     int    `yaml:"sample_rate"`
	Channels       int    `yaml:"channels"`
	ChunkSize      int    `yaml:"chunk_size"`
	Format         string `yaml:"format"`
	QueueCapacity  int    `yaml:"queue_capacity"`
	PlaybackBuffer int    `yaml:"playback_buffer"`
}

// VADConfig drives the capture auto-stop policy.
type VADConfig struct {
	AutoStop            bool          `yaml:"auto_stop"`
	SilenceThreshold    float64       `yaml:"silence_threshold"`
	MaxSilentChunks     int           `yaml:"max_silent_chunks"`
	MinChunksBeforeStop int           `yaml:"min_chunks_before_stop"`
	MaxDuration         time.Duration `yaml:"max_duration"`
	PollInterval        time.Duration `yaml:"poll_interval"`
}

// TrimConfig drives the post-capture silence trimming.
type TrimConfig struct {
	WindowSize int     `yaml:"window_size"`
	Threshold  float64 `yaml:"threshold"`
}

type WhisperConfig struct {
	ModelPath string `yaml:"model_path"`
	Language  string `yaml:"language"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default mirrors speech_extraction.DefaultCaptureConfig.
func Default() Config {
	capture := speech_extraction.DefaultCaptureConfig()

	return Config{
		Audio: AudioConfig{
			SampleRate:     capture.SampleRate,
			Channels:       capture.Channels,
			ChunkSize:      capture.ChunkSize,
			Format:         capture.Format.String(),
			QueueCapacity:  capture.QueueCapacity,
			PlaybackBuffer: DefaultPlaybackBuffer,
		},
		VAD: VADConfig{
			AutoStop:            true,
			SilenceThreshold:    capture.SilenceThreshold,
			MaxSilentChunks:     capture.MaxSilentChunks,
			MinChunksBeforeStop: capture.MinChunksBeforeStop,
			PollInterval:        capture.PollInterval,
		},
		Trim: TrimConfig{
			WindowSize: DefaultTrimWindowSize,
			Threshold:  DefaultTrimThreshold,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate performs validation of every section.
func (c Config) Validate() error {
	if _, err := c.CaptureConfig(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if c.Audio.PlaybackBuffer < 1 {
		return fmt.Errorf("audio config: playback_buffer must be positive, got %d", c.Audio.PlaybackBuffer)
	}

	if c.VAD.MaxDuration < 0 {
		return fmt.Errorf("vad config: max_duration cannot be negative, got %s", c.VAD.MaxDuration)
	}

	if c.Trim.WindowSize < 1 {
		return fmt.Errorf("trim config: window_size must be positive, got %d", c.Trim.WindowSize)
	}

	if c.Trim.Threshold < 0 {
		return fmt.Errorf("trim config: threshold cannot be negative, got %f", c.Trim.Threshold)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging config: level must be one of [debug, info, warn, error], got '%s'", c.Logging.Level)
	}

	return nil
}

// CaptureConfig builds the capture engine configuration. An unknown sample
// format is an error here rather than a silent fallback to int16.
func (c Config) CaptureConfig() (speech_extraction.CaptureConfig, error) {
	format, err := sample_conversion.ParseSampleFormat(c.Audio.Format)
	if err != nil {
		return speech_extraction.CaptureConfig{}, err
	}

	capture := speech_extraction.CaptureConfig{
		SampleRate:          c.Audio.SampleRate,
		Channels:            c.Audio.Channels,
		ChunkSize:           c.Audio.ChunkSize,
		Format:              format,
		SilenceThreshold:    c.VAD.SilenceThreshold,
		MaxSilentChunks:     c.VAD.MaxSilentChunks,
		MinChunksBeforeStop: c.VAD.MinChunksBeforeStop,
		QueueCapacity:       c.Audio.QueueCapacity,
		PollInterval:        c.VAD.PollInterval,
	}

	if err := capture.Validate(); err != nil {
		return speech_extraction.CaptureConfig{}, err
	}

	return capture, nil
}

func (c Config) RecordOptions() speech_extraction.RecordOptions {
	return speech_extraction.RecordOptions{
		MaxDuration: c.VAD.MaxDuration,
		AutoStop:    c.VAD.AutoStop,
	}
}

// TrimSilence applies the configured trimming to a captured signal.
func (c Config) TrimSilence(samples []float32) ([]float32, error) {
	return voice_activity_detection.Trim(samples, c.Trim.WindowSize, c.Trim.Threshold)
}
