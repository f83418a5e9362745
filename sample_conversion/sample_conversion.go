package sample_conversion

import (
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

// Normalize turns a raw chunk into mono samples in [-1, 1]. Channels are
// averaged per frame, the result is scaled by the format's full-scale value
// and then soft limited.
func Normalize(chunk RawChunk) ([]float32, error) {
	width, err := chunk.Format.BytesPerSample()
	if err != nil {
		return nil, err
	}

	if chunk.Channels < 1 {
		return nil, fmt.Errorf("channel count must be positive, got %d", chunk.Channels)
	}

	frameBytes := width * chunk.Channels
	if len(chunk.Data)%frameBytes != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %d-byte frames", len(chunk.Data), frameBytes)
	}

	frames := len(chunk.Data) / frameBytes
	divisor := chunk.Format.fullScale() * float64(chunk.Channels)

	out := make([]float32, frames)
	for f := 0; f < frames; f++ {
		var sum float64
		for c := 0; c < chunk.Channels; c++ {
			sum += sampleAt(chunk.Data, chunk.Format, f*chunk.Channels+c)
		}
		out[f] = float32(sum / divisor)
	}

	limit(out)

	return out, nil
}

// SoftLimit is the generic normalization pass run on an already decoded
// signal before analysis or playback. If the peak magnitude exceeds 1.0 every
// sample is divided by it. The input is never modified.
func SoftLimit(samples []float32) []float32 {
	out := make([]float32, len(samples))
	copy(out, samples)

	limit(out)

	return out
}

// Peak returns the largest absolute sample value.
func Peak(samples []float32) float64 {
	var peak float64
	for _, s := range samples {
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}

	return peak
}

func limit(samples []float32) {
	peak := Peak(samples)
	if peak <= 1.0 {
		return
	}

	for i, s := range samples {
		samples[i] = float32(float64(s) / peak)
	}
}

// MonoMix averages interleaved float samples across channels.
func MonoMix(interleaved []float32, channels int) ([]float32, error) {
	if channels < 1 {
		return nil, fmt.Errorf("channel count must be positive, got %d", channels)
	}

	if len(interleaved)%channels != 0 {
		return nil, fmt.Errorf("%d samples is not a whole number of %d-channel frames", len(interleaved), channels)
	}

	out := make([]float32, len(interleaved)/channels)
	for f := range out {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(interleaved[f*channels+c])
		}
		out[f] = float32(sum / float64(channels))
	}

	return out, nil
}

// FromIntBuffer normalizes a decoded PCM buffer, e.g. one read from a WAV
// file. Only 16 and 32 bit sources are accepted.
func FromIntBuffer(buf *audio.IntBuffer) ([]float32, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("buffer has no format")
	}

	var format SampleFormat
	switch buf.SourceBitDepth {
	case 16:
		format = Int16
	case 32:
		format = Int32
	default:
		return nil, &UnsupportedFormatError{Name: fmt.Sprintf("%d-bit pcm", buf.SourceBitDepth)}
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("channel count must be positive, got %d", channels)
	}

	frames := len(buf.Data) / channels
	divisor := format.fullScale() * float64(channels)

	out := make([]float32, frames)
	for f := 0; f < frames; f++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[f*channels+c])
		}
		out[f] = float32(sum / divisor)
	}

	limit(out)

	return out, nil
}

// ToFloat32Buffer wraps mono samples in the buffer type the speech-to-text
// layer consumes. The samples are copied.
func ToFloat32Buffer(samples []float32, sampleRate int) *audio.Float32Buffer {
	data := make([]float32, len(samples))
	copy(data, samples)

	return &audio.Float32Buffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 32,
	}
}

// ToInt16 quantizes normalized samples back to 16-bit PCM for writers and
// devices that only take integers.
func ToInt16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * 32767.0)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}

	return out
}
