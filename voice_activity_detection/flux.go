package voice_activity_detection

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// FluxDetector measures spectral flux between successive frames: the sum of
// the magnitude increases across frequency bins. Onsets of speech show up as
// flux spikes even when overall energy changes little.
type FluxDetector struct {
	size     int
	window   []float64
	frame    []float64
	previous []float64
}

func NewFluxDetector(size int) *FluxDetector {
	if size < 2 {
		size = 2
	}

	return &FluxDetector{
		size:     size,
		window:   window.Hann(size),
		frame:    make([]float64, size),
		previous: make([]float64, size/2+1),
	}
}

// Flux consumes one frame. Samples beyond the detector size are ignored and
// short frames are zero padded.
func (d *FluxDetector) Flux(samples []float32) float64 {
	for i := range d.frame {
		d.frame[i] = 0
		if i < len(samples) {
			d.frame[i] = float64(samples[i]) * d.window[i]
		}
	}

	spectrum := fft.FFTReal(d.frame)

	var flux float64
	for bin := range d.previous {
		magnitude := cmplx.Abs(spectrum[bin])
		if diff := magnitude - d.previous[bin]; diff > 0 {
			flux += diff
		}
		d.previous[bin] = magnitude
	}

	return flux
}

// Reset forgets the previous spectrum.
func (d *FluxDetector) Reset() {
	for i := range d.previous {
		d.previous[i] = 0
	}
}
