package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"voice-capture/audio_device"
	"voice-capture/config"
	"voice-capture/playback"
	"voice-capture/voice_activity_detection"
	"voice-capture/wav_file"
)

func newTrimCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "trim <in.wav> <out.wav>",
		Short: "Remove leading and trailing silence from a WAV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			before, after, err := trimFile(a.fs, a.cfg, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "kept %d of %d samples\n", after, before)
			return nil
		},
	}
}

func newAnalyzeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <in.wav>",
		Short: "Print per-window energy, silence and spectral flux of a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return analyzeFile(a.out, a.fs, a.cfg, args[0])
		},
	}
}

func newPlayCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play <in.wav>",
		Short: "Play a WAV file on the default output device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			device := audio_device.NewPortAudio()
			if err := device.Initialize(); err != nil {
				return err
			}
			defer func() {
				if err := device.Terminate(); err != nil {
					a.logger.Warn("failed to terminate portaudio", "error", err)
				}
			}()

			player, err := playback.New(&playback.Config{
				Device:          device,
				FramesPerBuffer: a.cfg.Audio.PlaybackBuffer,
				Logger:          a.logger,
				Metrics:         a.metrics,
			})
			if err != nil {
				return err
			}

			return playFile(cmd.Context(), a.fs, player, args[0])
		},
	}
}

func playFile(ctx context.Context, fs afero.Fs, player playback.Interface, path string) error {
	waveform, err := wav_file.Load(fs, path)
	if err != nil {
		return err
	}

	return player.Play(ctx, waveform.Samples, waveform.SampleRate)
}

// trimFile writes the trimmed signal of in to out and returns the sample
// counts before and after.
func trimFile(fs afero.Fs, cfg config.Config, in, out string) (int, int, error) {
	waveform, err := wav_file.Load(fs, in)
	if err != nil {
		return 0, 0, err
	}

	trimmed, err := cfg.TrimSilence(waveform.Samples)
	if err != nil {
		return 0, 0, err
	}

	if err := wav_file.Save(fs, out, wav_file.Waveform{Samples: trimmed, SampleRate: waveform.SampleRate}); err != nil {
		return 0, 0, err
	}

	return len(waveform.Samples), len(trimmed), nil
}

func analyzeFile(w io.Writer, fs afero.Fs, cfg config.Config, path string) error {
	waveform, err := wav_file.Load(fs, path)
	if err != nil {
		return err
	}

	size := cfg.Trim.WindowSize

	trace, err := voice_activity_detection.Analyze(waveform.Samples, size, cfg.Trim.Threshold)
	if err != nil {
		return err
	}

	flux := voice_activity_detection.NewFluxDetector(size)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WINDOW\tOFFSET\tRMS\tSILENT\tFLUX")
	for i, window := range trace {
		start := i * size
		fmt.Fprintf(tw, "%d\t%.3fs\t%.5f\t%t\t%.4f\n",
			i,
			float64(start)/float64(waveform.SampleRate),
			window.Energy,
			window.Silent,
			flux.Flux(waveform.Samples[start:start+size]),
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	start, end, ok := voice_activity_detection.Bounds(trace, size, len(waveform.Samples))
	if !ok {
		fmt.Fprintln(w, "all windows silent")
		return nil
	}

	fmt.Fprintf(w, "speech from sample %d to %d of %d\n", start, end, len(waveform.Samples))
	return nil
}
