package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-capture/audio_device/mock"
	"voice-capture/config"
	"voice-capture/metrics"
	"voice-capture/playback"
	"voice-capture/sample_conversion"
	"voice-capture/speech_extraction"
	"voice-capture/speech_to_text"
	"voice-capture/wav_file"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func noEnv(string) (string, bool) { return "", false }

// speechSignal is silence, then a loud square wave, then silence, each part
// the given number of samples long.
func speechSignal(part int) []float32 {
	samples := make([]float32, 3*part)
	for i := part; i < 2*part; i++ {
		if i%2 == 0 {
			samples[i] = 0.5
		} else {
			samples[i] = -0.5
		}
	}

	return samples
}

func writeWav(t *testing.T, fs afero.Fs, path string, samples []float32) {
	t.Helper()

	require.NoError(t, wav_file.Save(fs, path, wav_file.Waveform{Samples: samples, SampleRate: 16000}))
}

type scriptedRecorder struct {
	results []speech_extraction.RecordResult
	err     error
	calls   int
}

func (r *scriptedRecorder) Record(ctx context.Context, opts speech_extraction.RecordOptions) ([]float32, error) {
	result, err := r.RecordDetailed(ctx, opts)
	return result.Samples, err
}

func (r *scriptedRecorder) RecordDetailed(_ context.Context, _ speech_extraction.RecordOptions) (speech_extraction.RecordResult, error) {
	r.calls++
	if r.err != nil {
		return speech_extraction.RecordResult{}, r.err
	}

	if len(r.results) == 0 {
		return speech_extraction.RecordResult{Reason: speech_extraction.StopInterrupted}, nil
	}

	result := r.results[0]
	r.results = r.results[1:]

	return result, nil
}

type scriptedSTT struct {
	texts   []string
	err     error
	buffers []audio.Buffer
}

func (s *scriptedSTT) Process(buf audio.Buffer) ([]speech_to_text.Segment, error) {
	s.buffers = append(s.buffers, buf)
	if s.err != nil {
		return nil, s.err
	}

	text := s.texts[0]
	s.texts = s.texts[1:]

	return []speech_to_text.Segment{{Text: text}}, nil
}

func spoken(samples []float32) speech_extraction.RecordResult {
	return speech_extraction.RecordResult{
		Samples:    samples,
		SampleRate: 16000,
		Reason:     speech_extraction.StopSilence,
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Trim.WindowSize = 160

	return cfg
}

func TestConversation(t *testing.T) {
	t.Run("retries on silence and stops on exit phrase", func(t *testing.T) {
		recorder := &scriptedRecorder{results: []speech_extraction.RecordResult{
			spoken(make([]float32, 1600)),
			spoken(speechSignal(320)),
			spoken(speechSignal(320)),
		}}
		stt := &scriptedSTT{texts: []string{"hello there", "Goodbye."}}
		var out bytes.Buffer

		c := &conversation{recorder: recorder, stt: stt, cfg: testConfig(), out: &out, logger: discard}
		require.NoError(t, c.run(context.Background()))

		assert.Equal(t, 3, recorder.calls)
		assert.Equal(t, strings.Join([]string{
			"Listening...",
			notUnderstood,
			"Listening...",
			"You said: hello there",
			"Listening...",
			"You said: Goodbye.",
			"Goodbye!",
			"",
		}, "\n"), out.String())

		require.Len(t, stt.buffers, 2)
		assert.Equal(t, 320, stt.buffers[0].NumFrames())
		assert.Equal(t, 16000, stt.buffers[0].PCMFormat().SampleRate)
	})

	t.Run("interrupted session ends the loop", func(t *testing.T) {
		stt := &scriptedSTT{}
		c := &conversation{recorder: &scriptedRecorder{}, stt: stt, cfg: testConfig(), out: io.Discard, logger: discard}

		require.NoError(t, c.run(context.Background()))
		assert.Empty(t, stt.buffers)
	})

	t.Run("recorder error is returned", func(t *testing.T) {
		boom := errors.New("no microphone")
		c := &conversation{recorder: &scriptedRecorder{err: boom}, stt: &scriptedSTT{}, cfg: testConfig(), out: io.Discard, logger: discard}

		assert.ErrorIs(t, c.run(context.Background()), boom)
	})

	t.Run("transcription error is returned", func(t *testing.T) {
		boom := errors.New("model crashed")
		recorder := &scriptedRecorder{results: []speech_extraction.RecordResult{spoken(speechSignal(320))}}
		c := &conversation{recorder: recorder, stt: &scriptedSTT{err: boom}, cfg: testConfig(), out: io.Discard, logger: discard}

		assert.ErrorIs(t, c.run(context.Background()), boom)
	})

	t.Run("echo plays the trimmed capture", func(t *testing.T) {
		device := &mock.Output{}
		player, err := playback.New(&playback.Config{Device: device, FramesPerBuffer: 128, Logger: discard})
		require.NoError(t, err)

		recorder := &scriptedRecorder{results: []speech_extraction.RecordResult{spoken(speechSignal(320))}}
		c := &conversation{
			recorder: recorder,
			stt:      &scriptedSTT{texts: []string{"bye"}},
			player:   player,
			cfg:      testConfig(),
			out:      io.Discard,
			logger:   discard,
		}
		require.NoError(t, c.run(context.Background()))

		assert.Equal(t, 1, device.Opened())
		assert.GreaterOrEqual(t, len(device.Written()), 320)
	})
}

func TestConversationWithCaptureEngine(t *testing.T) {
	loud := make([]int16, 160)
	for i := range loud {
		if i%2 == 0 {
			loud[i] = 16000
		} else {
			loud[i] = -16000
		}
	}

	var chunks []sample_conversion.RawChunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, sample_conversion.FromInt16(loud, 1, 16000))
	}
	for i := 0; i < 4; i++ {
		chunks = append(chunks, sample_conversion.FromInt16(make([]int16, 160), 1, 16000))
	}

	cfg := testConfig()
	cfg.Audio.ChunkSize = 160
	cfg.VAD.MaxSilentChunks = 3
	cfg.VAD.PollInterval = 2 * time.Millisecond

	capture, err := cfg.CaptureConfig()
	require.NoError(t, err)

	recorder, err := speech_extraction.New(&speech_extraction.Config{
		Capture: capture,
		Device:  &mock.Input{Chunks: chunks},
		Logger:  discard,
		Metrics: metrics.New(prometheus.NewRegistry()),
	})
	require.NoError(t, err)

	stt := &scriptedSTT{texts: []string{"quit"}}
	var out bytes.Buffer

	c := &conversation{recorder: recorder, stt: stt, cfg: cfg, out: &out, logger: discard}
	require.NoError(t, c.run(context.Background()))

	require.Len(t, stt.buffers, 1)
	assert.Equal(t, 1600, stt.buffers[0].NumFrames())
	assert.Contains(t, out.String(), "You said: quit")
}

func TestTrimFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeWav(t, fs, "in.wav", speechSignal(2048))

	before, after, err := trimFile(fs, config.Default(), "in.wav", "out.wav")
	require.NoError(t, err)
	assert.Equal(t, 6144, before)
	assert.Equal(t, 2048, after)

	trimmed, err := wav_file.Load(fs, "out.wav")
	require.NoError(t, err)
	assert.Len(t, trimmed.Samples, 2048)
	assert.Equal(t, 16000, trimmed.SampleRate)

	_, _, err = trimFile(fs, config.Default(), "missing.wav", "out.wav")
	assert.Error(t, err)
}

func TestAnalyzeFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeWav(t, fs, "speech.wav", speechSignal(2048))
	writeWav(t, fs, "quiet.wav", make([]float32, 4096))

	var out bytes.Buffer
	require.NoError(t, analyzeFile(&out, fs, config.Default(), "speech.wav"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "WINDOW")
	assert.Contains(t, lines[1], "true")
	assert.Contains(t, lines[3], "false")
	assert.Equal(t, "speech from sample 2048 to 4096 of 6144", lines[7])

	out.Reset()
	require.NoError(t, analyzeFile(&out, fs, config.Default(), "quiet.wav"))
	assert.Contains(t, out.String(), "all windows silent")
}

func TestPlayFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeWav(t, fs, "in.wav", speechSignal(256))

	device := &mock.Output{}
	player, err := playback.New(&playback.Config{Device: device, FramesPerBuffer: 256, Logger: discard})
	require.NoError(t, err)

	require.NoError(t, playFile(context.Background(), fs, player, "in.wav"))
	assert.Equal(t, 16000, device.Params().SampleRate)
	assert.Len(t, device.Written(), 768)
}

func TestRootCommand(t *testing.T) {
	t.Run("trim through the command line", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeWav(t, fs, "in.wav", speechSignal(2048))

		var out bytes.Buffer
		root := newRootCommand(&app{fs: fs}, noEnv)
		root.SetOut(&out)
		root.SetErr(io.Discard)
		root.SetArgs([]string{"trim", "in.wav", "out.wav", "--log-level", "error"})

		require.NoError(t, root.ExecuteContext(context.Background()))
		assert.Equal(t, "kept 2048 of 6144 samples\n", out.String())

		exists, err := afero.Exists(fs, "out.wav")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("config errors stop the command", func(t *testing.T) {
		root := newRootCommand(&app{fs: afero.NewMemMapFs()}, func(key string) (string, bool) {
			if key == "VOICE_CAPTURE_FORMAT" {
				return "int8", true
			}
			return "", false
		})
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs([]string{"analyze", "in.wav"})

		assert.Error(t, root.ExecuteContext(context.Background()))
	})

	t.Run("listen needs a model", func(t *testing.T) {
		root := newRootCommand(&app{fs: afero.NewMemMapFs()}, noEnv)
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs([]string{"listen"})

		assert.EqualError(t, root.ExecuteContext(context.Background()), "model file not specified")
	})

	t.Run("invalid log level flag", func(t *testing.T) {
		root := newRootCommand(&app{fs: afero.NewMemMapFs()}, noEnv)
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs([]string{"analyze", "in.wav", "--log-level", "chatty"})

		assert.Error(t, root.ExecuteContext(context.Background()))
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "key=value")
}
