// Package wav_file reads and writes PCM WAV files through an afero
// filesystem for the offline trim and analyze commands.
package wav_file

import (
	"fmt"

	"github.com/go-audio/wav"
	"github.com/spf13/afero"
	"github.com/zenwerk/go-wave"

	"voice-capture/sample_conversion"
)

// Waveform is a normalized mono signal and its sample rate.
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// Load decodes a 16 or 32 bit PCM WAV file, mixing it down to mono.
func Load(fs afero.Fs, path string) (Waveform, error) {
	file, err := fs.Open(path)
	if err != nil {
		return Waveform{}, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return Waveform{}, fmt.Errorf("%s is not a valid wav file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("decode %s: %w", path, err)
	}

	samples, err := sample_conversion.FromIntBuffer(buf)
	if err != nil {
		return Waveform{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return Waveform{
		Samples:    samples,
		SampleRate: int(decoder.SampleRate),
	}, nil
}

// Save writes w as 16-bit mono PCM.
func Save(fs afero.Fs, path string, w Waveform) error {
	if w.SampleRate < 1 {
		return fmt.Errorf("sample rate must be positive, got %d", w.SampleRate)
	}

	waveFile, err := fs.Create(path)
	if err != nil {
		return err
	}

	param := wave.WriterParam{
		Out:           waveFile,
		Channel:       1,
		SampleRate:    w.SampleRate,
		BitsPerSample: 16,
	}

	waveWriter, err := wave.NewWriter(param)
	if err != nil {
		waveFile.Close()
		return err
	}

	if _, err := waveWriter.WriteSample16(sample_conversion.ToInt16(w.Samples)); err != nil {
		waveWriter.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	// Close writes the header and closes the file.
	return waveWriter.Close()
}
