package voice_activity_detection

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func join(parts ...[]float32) []float32 {
	var out []float32
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

func TestRMS(t *testing.T) {
	assert.Equal(t, 0.0, RMS(nil))
	assert.InDelta(t, 0.5, RMS(constant(8, -0.5)), 1e-9)
	assert.InDelta(t, math.Sqrt(0.5), RMS([]float32{1, 0}), 1e-9)
}

func TestAnalyze(t *testing.T) {
	t.Run("trailing partial window is dropped", func(t *testing.T) {
		for _, n := range []int{0, 3, 4, 7, 8, 9, 1023} {
			trace, err := Analyze(constant(n, 0.2), 4, 0.01)
			require.NoError(t, err)

			assert.Len(t, trace, n/4, "samples=%d", n)
		}
	})

	t.Run("threshold is strict", func(t *testing.T) {
		trace, err := Analyze(join(constant(4, 0.5), constant(4, 0.25)), 4, 0.5)
		require.NoError(t, err)
		require.Len(t, trace, 2)

		assert.False(t, trace[0].Silent, "energy equal to threshold is not silent")
		assert.True(t, trace[1].Silent)
		assert.InDelta(t, 0.25, trace[1].Energy, 1e-9)
	})

	t.Run("window size must be positive", func(t *testing.T) {
		_, err := Analyze(constant(4, 0), 0, 0.01)
		assert.Error(t, err)
	})
}

func TestTrim(t *testing.T) {
	t.Run("leading and trailing silence removed", func(t *testing.T) {
		signal := join(constant(8, 0), constant(4, 0.5), constant(4, 0.001), constant(4, 0.3), constant(10, 0))

		trimmed, err := Trim(signal, 4, 0.01)
		require.NoError(t, err)

		assert.Equal(t, join(constant(4, 0.5), constant(4, 0.001), constant(4, 0.3)), trimmed)
	})

	t.Run("all silent trims to empty", func(t *testing.T) {
		trimmed, err := Trim(constant(64, 0.001), 8, 0.01)
		require.NoError(t, err)

		assert.NotNil(t, trimmed)
		assert.Empty(t, trimmed)
	})

	t.Run("shorter than one window trims to empty", func(t *testing.T) {
		trimmed, err := Trim(constant(3, 0.9), 8, 0.01)
		require.NoError(t, err)

		assert.Empty(t, trimmed)
	})

	t.Run("loud last window keeps the partial tail out", func(t *testing.T) {
		signal := join(constant(4, 0), constant(4, 0.5), constant(2, 0.5))

		trimmed, err := Trim(signal, 4, 0.01)
		require.NoError(t, err)

		assert.Equal(t, constant(4, 0.5), trimmed)
	})

	t.Run("result does not alias input", func(t *testing.T) {
		signal := constant(8, 0.5)

		trimmed, err := Trim(signal, 4, 0.01)
		require.NoError(t, err)

		signal[0] = 0
		assert.Equal(t, float32(0.5), trimmed[0])
	})
}

func TestTrimIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		signal := make([]float32, 200+rng.Intn(400))
		for j := range signal {
			if rng.Intn(3) == 0 {
				signal[j] = rng.Float32()*2 - 1
			} else {
				signal[j] = (rng.Float32()*2 - 1) * 0.005
			}
		}
		windowSize := 8 + rng.Intn(24)

		once, err := Trim(signal, windowSize, 0.2)
		require.NoError(t, err)

		twice, err := Trim(once, windowSize, 0.2)
		require.NoError(t, err)

		assert.Equal(t, once, twice, "iteration %d", i)
	}
}

func TestBounds(t *testing.T) {
	trace := Trace{{Silent: true}, {Silent: false}, {Silent: true}, {Silent: false}, {Silent: true}}

	start, end, ok := Bounds(trace, 10, 55)
	require.True(t, ok)
	assert.Equal(t, 10, start)
	assert.Equal(t, 40, end)

	_, _, ok = Bounds(Trace{{Silent: true}}, 10, 10)
	assert.False(t, ok)
}

func TestFluxDetector(t *testing.T) {
	d := NewFluxDetector(64)

	quiet := constant(64, 0)
	assert.Equal(t, 0.0, d.Flux(quiet))

	tone := make([]float32, 64)
	for i := range tone {
		tone[i] = float32(math.Sin(2 * math.Pi * 8 * float64(i) / 64))
	}

	onset := d.Flux(tone)
	assert.Greater(t, onset, 1.0)

	steady := d.Flux(tone)
	assert.InDelta(t, 0, steady, 1e-9, "an unchanged spectrum has no flux")

	assert.Equal(t, 0.0, d.Flux(quiet), "decreasing magnitudes are not counted")

	d.Reset()
	assert.InDelta(t, onset, d.Flux(tone), 1e-9)
}
