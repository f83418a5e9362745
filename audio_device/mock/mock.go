// Package mock provides scripted audio devices for tests.
package mock

import (
	"sync"
	"time"

	"voice-capture/audio_device"
	"voice-capture/sample_conversion"
)

// Input replays Chunks through the callback from its own goroutine once the
// stream is started, the way a driver thread would.
type Input struct {
	Chunks []sample_conversion.RawChunk
	// Interval is the pause between callbacks.
	Interval time.Duration
	// Repeat replays Chunks until the stream is stopped.
	Repeat   bool
	OpenErr  error
	StartErr error

	mu       sync.Mutex
	params   audio_device.InputParams
	opened   int
	started  int
	stopped  int
	closed   int
	produced int
}

func (m *Input) OpenInput(params audio_device.InputParams, onChunk func(sample_conversion.RawChunk)) (audio_device.InputStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.params = params
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	m.opened++

	return &inputStream{device: m, onChunk: onChunk, quit: make(chan struct{})}, nil
}

func (m *Input) Params() audio_device.InputParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.params
}

func (m *Input) Opened() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

func (m *Input) Started() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

func (m *Input) Stopped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

func (m *Input) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Produced is the number of callbacks delivered so far.
func (m *Input) Produced() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.produced
}

type inputStream struct {
	device  *Input
	onChunk func(sample_conversion.RawChunk)
	quit    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func (s *inputStream) Start() error {
	s.device.mu.Lock()
	if s.device.StartErr != nil {
		s.device.mu.Unlock()
		return s.device.StartErr
	}
	s.device.started++
	s.device.mu.Unlock()

	s.wg.Add(1)
	go s.run()

	return nil
}

func (s *inputStream) run() {
	defer s.wg.Done()

	for {
		for _, chunk := range s.device.Chunks {
			select {
			case <-s.quit:
				return
			default:
			}

			s.onChunk(chunk)

			s.device.mu.Lock()
			s.device.produced++
			s.device.mu.Unlock()

			if s.device.Interval > 0 {
				select {
				case <-s.quit:
					return
				case <-time.After(s.device.Interval):
				}
			}
		}

		if !s.device.Repeat || len(s.device.Chunks) == 0 {
			return
		}
	}
}

func (s *inputStream) Stop() error {
	s.once.Do(func() { close(s.quit) })
	s.wg.Wait()

	s.device.mu.Lock()
	s.device.stopped++
	s.device.mu.Unlock()

	return nil
}

func (s *inputStream) Close() error {
	s.device.mu.Lock()
	s.device.closed++
	s.device.mu.Unlock()

	return nil
}

// Output records every frame written to it.
type Output struct {
	OpenErr  error
	WriteErr error

	mu      sync.Mutex
	params  audio_device.OutputParams
	opened  int
	started int
	stopped int
	closed  int
	written []float32
	writes  int
}

func (m *Output) OpenOutput(params audio_device.OutputParams) (audio_device.OutputStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.params = params
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	m.opened++

	return &outputStream{device: m}, nil
}

func (m *Output) Params() audio_device.OutputParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.params
}

func (m *Output) Opened() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

func (m *Output) Stopped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

func (m *Output) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Writes is the number of Write calls.
func (m *Output) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Written returns every frame written, padding included.
func (m *Output) Written() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]float32, len(m.written))
	copy(out, m.written)

	return out
}

type outputStream struct {
	device *Output
}

func (s *outputStream) Start() error {
	s.device.mu.Lock()
	defer s.device.mu.Unlock()
	s.device.started++
	return nil
}

func (s *outputStream) Write(frames []float32) error {
	s.device.mu.Lock()
	defer s.device.mu.Unlock()

	if s.device.WriteErr != nil {
		return s.device.WriteErr
	}

	block := make([]float32, s.device.params.FramesPerBuffer*s.device.params.Channels)
	copy(block, frames)
	s.device.written = append(s.device.written, block...)
	s.device.writes++

	return nil
}

func (s *outputStream) Stop() error {
	s.device.mu.Lock()
	defer s.device.mu.Unlock()
	s.device.stopped++
	return nil
}

func (s *outputStream) Close() error {
	s.device.mu.Lock()
	defer s.device.mu.Unlock()
	s.device.closed++
	return nil
}
