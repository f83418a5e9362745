package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/spf13/cobra"

	"voice-capture/audio_device"
	"voice-capture/config"
	"voice-capture/playback"
	"voice-capture/sample_conversion"
	"voice-capture/speech_extraction"
	"voice-capture/speech_to_text"
	"voice-capture/speech_to_text/whisper"
)

const notUnderstood = "Sorry, I could not understand that."

func newListenCommand(a *app) *cobra.Command {
	var (
		modelPath string
		echo      bool
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Run the conversation loop: record, trim, transcribe, repeat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if modelPath != "" {
				a.cfg.Whisper.ModelPath = modelPath
			}

			if a.cfg.Whisper.ModelPath == "" {
				return errors.New("model file not specified")
			}

			return runListen(cmd.Context(), a, echo)
		},
	}

	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "model file for whisper")
	cmd.Flags().BoolVar(&echo, "echo", false, "play each trimmed capture back before transcribing it")

	return cmd
}

func runListen(ctx context.Context, a *app, echo bool) error {
	device := audio_device.NewPortAudio()
	if err := device.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := device.Terminate(); err != nil {
			a.logger.Warn("failed to terminate portaudio", "error", err)
		}
	}()

	model, err := whisperlib.New(a.cfg.Whisper.ModelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	defer model.Close()

	stt, err := whisper.New(&whisper.Config{
		Model:    model,
		Language: a.cfg.Whisper.Language,
	})
	if err != nil {
		return err
	}

	capture, err := a.cfg.CaptureConfig()
	if err != nil {
		return err
	}

	recorder, err := speech_extraction.New(&speech_extraction.Config{
		Capture: capture,
		Device:  device,
		Logger:  a.logger,
		Metrics: a.metrics,
	})
	if err != nil {
		return err
	}

	var player playback.Interface
	if echo {
		player, err = playback.New(&playback.Config{
			Device:          device,
			FramesPerBuffer: a.cfg.Audio.PlaybackBuffer,
			Logger:          a.logger,
			Metrics:         a.metrics,
		})
		if err != nil {
			return err
		}
	}

	c := &conversation{
		recorder: recorder,
		stt:      stt,
		player:   player,
		cfg:      a.cfg,
		out:      a.out,
		logger:   a.logger,
	}

	return c.run(ctx)
}

// conversation repeats record, trim and transcribe until an exit phrase is
// heard or the context ends.
type conversation struct {
	recorder speech_extraction.Interface
	stt      speech_to_text.Interface
	// player is optional; nil disables echo.
	player playback.Interface
	cfg    config.Config
	out    io.Writer
	logger *slog.Logger
}

func (c *conversation) run(ctx context.Context) error {
	for {
		fmt.Fprintln(c.out, "Listening...")

		result, err := c.recorder.RecordDetailed(ctx, c.cfg.RecordOptions())
		if err != nil {
			return err
		}

		if result.Reason == speech_extraction.StopInterrupted {
			c.logger.Info("conversation interrupted")
			return nil
		}

		text, err := c.turn(ctx, result)
		if err != nil {
			return err
		}

		if text == "" {
			fmt.Fprintln(c.out, notUnderstood)
			continue
		}

		fmt.Fprintf(c.out, "You said: %s\n", text)

		if speech_to_text.IsExitPhrase(text) {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}
	}
}

// turn prepares one capture and returns its transcript, or "" when nothing
// usable was said.
func (c *conversation) turn(ctx context.Context, result speech_extraction.RecordResult) (string, error) {
	samples := sample_conversion.SoftLimit(result.Samples)

	trimmed, err := c.cfg.TrimSilence(samples)
	if err != nil {
		return "", err
	}

	c.logger.Debug("capture trimmed",
		"captured", len(samples),
		"kept", len(trimmed),
		"reason", string(result.Reason),
	)

	if len(trimmed) == 0 {
		return "", nil
	}

	if c.player != nil {
		if err := c.player.Play(ctx, trimmed, result.SampleRate); err != nil {
			c.logger.Warn("echo playback failed", "error", err)
		}
	}

	segments, err := c.stt.Process(sample_conversion.ToFloat32Buffer(trimmed, result.SampleRate))
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	return speech_to_text.Transcript(segments), nil
}
