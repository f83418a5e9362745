package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ChunksCaptured.Add(3)
	m.SessionsTotal.WithLabelValues(ReasonSilence).Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ChunksCaptured))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsTotal.WithLabelValues(ReasonSilence)))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewWithoutRegistry(t *testing.T) {
	m := New(nil)
	m.ChunksDropped.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChunksDropped))
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
