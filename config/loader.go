package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Loader reads an optional YAML file and then applies environment
// overrides. Tests can swap Fs and Lookup for in-memory versions.
type Loader struct {
	Fs     afero.Fs
	Lookup func(string) (string, bool)
}

// Load is shorthand for a Loader over fs and lookup.
func Load(fs afero.Fs, path string, lookup func(string) (string, bool)) (Config, error) {
	return Loader{Fs: fs, Lookup: lookup}.Load(path)
}

// Load returns defaults, overlaid by the file at path (if path is not empty),
// overlaid by VOICE_CAPTURE_* variables, validated.
func (l Loader) Load(path string) (Config, error) {
	if l.Fs == nil {
		l.Fs = afero.NewOsFs()
	}

	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	cfg := Default()

	if path != "" {
		data, err := afero.ReadFile(l.Fs, path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := l.applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (l Loader) applyEnv(cfg *Config) error {
	overrideString(l.Lookup, "VOICE_CAPTURE_FORMAT", &cfg.Audio.Format)
	overrideString(l.Lookup, "VOICE_CAPTURE_WHISPER_MODEL", &cfg.Whisper.ModelPath)
	overrideString(l.Lookup, "VOICE_CAPTURE_WHISPER_LANGUAGE", &cfg.Whisper.Language)
	overrideString(l.Lookup, "VOICE_CAPTURE_LOG_LEVEL", &cfg.Logging.Level)

	ints := map[string]*int{
		"VOICE_CAPTURE_SAMPLE_RATE":       &cfg.Audio.SampleRate,
		"VOICE_CAPTURE_CHANNELS":          &cfg.Audio.Channels,
		"VOICE_CAPTURE_CHUNK_SIZE":        &cfg.Audio.ChunkSize,
		"VOICE_CAPTURE_MAX_SILENT_CHUNKS": &cfg.VAD.MaxSilentChunks,
		"VOICE_CAPTURE_MIN_CHUNKS":        &cfg.VAD.MinChunksBeforeStop,
		"VOICE_CAPTURE_TRIM_WINDOW":       &cfg.Trim.WindowSize,
	}
	for key, target := range ints {
		if err := overrideInt(l.Lookup, key, target); err != nil {
			return err
		}
	}

	if err := overrideFloat(l.Lookup, "VOICE_CAPTURE_SILENCE_THRESHOLD", &cfg.VAD.SilenceThreshold); err != nil {
		return err
	}

	if err := overrideFloat(l.Lookup, "VOICE_CAPTURE_TRIM_THRESHOLD", &cfg.Trim.Threshold); err != nil {
		return err
	}

	if err := overrideDuration(l.Lookup, "VOICE_CAPTURE_MAX_DURATION", &cfg.VAD.MaxDuration); err != nil {
		return err
	}

	return overrideBool(l.Lookup, "VOICE_CAPTURE_AUTO_STOP", &cfg.VAD.AutoStop)
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideFloat(lookup func(string) (string, bool), key string, target *float64) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}

func overrideDuration(lookup func(string) (string, bool), key string, target *time.Duration) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}

func overrideBool(lookup func(string) (string, bool), key string, target *bool) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}
