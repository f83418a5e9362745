package audio_device

import "voice-capture/sample_conversion"

// InputParams describes the capture stream to open.
type InputParams struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
	Format          sample_conversion.SampleFormat
}

type OutputParams struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
}

type InputStream interface {
	Start() error
	Stop() error
	Close() error
}

type OutputStream interface {
	Start() error
	// Write blocks until the frames have been handed to the device. Short
	// writes are padded with silence.
	Write(frames []float32) error
	Stop() error
	Close() error
}

// InputOpener opens capture streams. onChunk is invoked on the driver's own
// thread once per buffer and must return quickly.
type InputOpener interface {
	OpenInput(params InputParams, onChunk func(sample_conversion.RawChunk)) (InputStream, error)
}

type OutputOpener interface {
	OpenOutput(params OutputParams) (OutputStream, error)
}

// DeviceInfo is a host audio device as reported by the driver.
type DeviceInfo struct {
	Name              string
	HostAPI           string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
}
