package sample_conversion

import (
	"encoding/binary"
	"fmt"
	"math"
)

// RawChunk is one block of interleaved little-endian samples exactly as the
// device delivered it.
type RawChunk struct {
	Data       []byte
	Format     SampleFormat
	Channels   int
	SampleRate int
}

// Frames returns the number of whole frames in the chunk.
func (c RawChunk) Frames() int {
	width, err := c.Format.BytesPerSample()
	if err != nil || c.Channels < 1 {
		return 0
	}

	return len(c.Data) / (width * c.Channels)
}

// FromInt16 copies device samples into a new chunk. The driver reuses its
// buffer between callbacks so the chunk must never alias it.
func FromInt16(samples []int16, channels, sampleRate int) RawChunk {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}

	return RawChunk{Data: data, Format: Int16, Channels: channels, SampleRate: sampleRate}
}

func FromInt32(samples []int32, channels, sampleRate int) RawChunk {
	data := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(s))
	}

	return RawChunk{Data: data, Format: Int32, Channels: channels, SampleRate: sampleRate}
}

func FromFloat32(samples []float32, channels, sampleRate int) RawChunk {
	data := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(s))
	}

	return RawChunk{Data: data, Format: Float32, Channels: channels, SampleRate: sampleRate}
}

// Concat joins chunks in the order given. All chunks must share format,
// channel count and sample rate.
func Concat(chunks []RawChunk) (RawChunk, error) {
	if len(chunks) == 0 {
		return RawChunk{}, fmt.Errorf("no chunks to concatenate")
	}

	first := chunks[0]
	size := 0
	for i, c := range chunks {
		if c.Format != first.Format || c.Channels != first.Channels || c.SampleRate != first.SampleRate {
			return RawChunk{}, fmt.Errorf("chunk %d is %s/%dch/%dHz, expected %s/%dch/%dHz",
				i, c.Format, c.Channels, c.SampleRate, first.Format, first.Channels, first.SampleRate)
		}
		size += len(c.Data)
	}

	data := make([]byte, 0, size)
	for _, c := range chunks {
		data = append(data, c.Data...)
	}

	return RawChunk{Data: data, Format: first.Format, Channels: first.Channels, SampleRate: first.SampleRate}, nil
}

func sampleAt(data []byte, format SampleFormat, i int) float64 {
	switch format {
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(data[i*2:])))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(data[i*4:])))
	}

	return float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
}
