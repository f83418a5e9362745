package wav_file

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenwerk/go-wave"
)

func TestSaveThenLoad(t *testing.T) {
	fs := afero.NewMemMapFs()

	in := Waveform{Samples: []float32{0, 0.5, -0.5, 1, -1}, SampleRate: 16000}
	require.NoError(t, Save(fs, "speech.wav", in))

	out, err := Load(fs, "speech.wav")
	require.NoError(t, err)

	assert.Equal(t, 16000, out.SampleRate)
	assert.InDeltaSlice(t, in.Samples, out.Samples, 1.0/32767)
}

func TestLoadStereoIsMixedDown(t *testing.T) {
	fs := afero.NewMemMapFs()

	file, err := fs.Create("stereo.wav")
	require.NoError(t, err)

	writer, err := wave.NewWriter(wave.WriterParam{Out: file, Channel: 2, SampleRate: 8000, BitsPerSample: 16})
	require.NoError(t, err)
	_, err = writer.WriteSample16([]int16{32767, 0, -32767, -32767})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	out, err := Load(fs, "stereo.wav")
	require.NoError(t, err)

	assert.Equal(t, 8000, out.SampleRate)
	assert.InDeltaSlice(t, []float32{0.5, -1}, out.Samples, 1e-4)
}

func TestLoadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Load(fs, "missing.wav")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "junk.wav", []byte("definitely not riff data"), 0o644))
	_, err = Load(fs, "junk.wav")
	assert.Error(t, err)
}

func TestSaveRejectsBadRate(t *testing.T) {
	assert.Error(t, Save(afero.NewMemMapFs(), "x.wav", Waveform{SampleRate: 0}))
}
