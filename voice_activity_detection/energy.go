package voice_activity_detection

import (
	"fmt"
	"math"
)

// WindowEnergy is the RMS energy of one fixed-size window and whether it
// fell below the silence threshold.
type WindowEnergy struct {
	Energy float64
	Silent bool
}

// Trace holds one WindowEnergy per full window, in recording order.
type Trace []WindowEnergy

// AllSilent reports whether no window carries energy at or above the
// threshold. An empty trace counts as silent.
func (t Trace) AllSilent() bool {
	for _, w := range t {
		if !w.Silent {
			return false
		}
	}

	return true
}

// RMS returns the root-mean-square of samples, or 0 for an empty slice.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}

	return math.Sqrt(sum / float64(len(samples)))
}

// Analyze splits samples into windows of windowSize and classifies each one.
// A window is silent when its energy is strictly below threshold. A trailing
// partial window is dropped, so the trace has len(samples)/windowSize entries.
func Analyze(samples []float32, windowSize int, threshold float64) (Trace, error) {
	if windowSize < 1 {
		return nil, fmt.Errorf("window size must be positive, got %d", windowSize)
	}

	windows := len(samples) / windowSize
	trace := make(Trace, windows)
	for i := 0; i < windows; i++ {
		energy := RMS(samples[i*windowSize : (i+1)*windowSize])
		trace[i] = WindowEnergy{
			Energy: energy,
			Silent: energy < threshold,
		}
	}

	return trace, nil
}
