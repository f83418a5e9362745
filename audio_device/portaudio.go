package audio_device

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"voice-capture/sample_conversion"
)

// PortAudio opens streams on the host's default devices.
type PortAudio struct {
	mu          sync.Mutex
	initialized bool
}

func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Initialize must be called once before any stream is opened.
func (p *PortAudio) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	p.initialized = true

	return nil
}

func (p *PortAudio) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}

	p.initialized = false

	return portaudio.Terminate()
}

func (p *PortAudio) OpenInput(params InputParams, onChunk func(sample_conversion.RawChunk)) (InputStream, error) {
	if onChunk == nil {
		return nil, fmt.Errorf("onChunk is nil")
	}

	channels, rate := params.Channels, params.SampleRate

	// The driver reuses its buffer, the From* constructors copy it.
	var callback interface{}
	switch params.Format {
	case sample_conversion.Int16:
		callback = func(in []int16) {
			onChunk(sample_conversion.FromInt16(in, channels, rate))
		}
	case sample_conversion.Int32:
		callback = func(in []int32) {
			onChunk(sample_conversion.FromInt32(in, channels, rate))
		}
	case sample_conversion.Float32:
		callback = func(in []float32) {
			onChunk(sample_conversion.FromFloat32(in, channels, rate))
		}
	default:
		return nil, params.Format.Validate()
	}

	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(rate), params.FramesPerBuffer, callback)
	if err != nil {
		return nil, err
	}

	return stream, nil
}

func (p *PortAudio) OpenOutput(params OutputParams) (OutputStream, error) {
	out := make([]float32, params.FramesPerBuffer*params.Channels)

	stream, err := portaudio.OpenDefaultStream(0, params.Channels, float64(params.SampleRate), params.FramesPerBuffer, out)
	if err != nil {
		return nil, err
	}

	return &outputStream{stream: stream, out: out}, nil
}

// Devices lists every device the host exposes.
func (p *PortAudio) Devices() ([]DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}

	infos := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		info := DeviceInfo{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			MaxOutputChannels: d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
		}
		if d.HostApi != nil {
			info.HostAPI = d.HostApi.Name
		}
		infos = append(infos, info)
	}

	return infos, nil
}

type outputStream struct {
	stream *portaudio.Stream
	out    []float32
}

func (o *outputStream) Start() error { return o.stream.Start() }
func (o *outputStream) Stop() error  { return o.stream.Stop() }
func (o *outputStream) Close() error { return o.stream.Close() }

func (o *outputStream) Write(frames []float32) error {
	n := copy(o.out, frames)
	for i := n; i < len(o.out); i++ {
		o.out[i] = 0
	}

	return o.stream.Write()
}
