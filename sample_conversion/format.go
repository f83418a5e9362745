package sample_conversion

import (
	"fmt"
	"strings"
)

// SampleFormat is the sample width and encoding a device delivers.
type SampleFormat int

const (
	Int16 SampleFormat = iota + 1
	Int32
	Float32
)

// ParseSampleFormat maps a configuration name onto a SampleFormat. Unknown
// names are rejected rather than defaulted.
func ParseSampleFormat(name string) (SampleFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int16":
		return Int16, nil
	case "int32":
		return Int32, nil
	case "float32":
		return Float32, nil
	}

	return 0, &UnsupportedFormatError{Name: name}
}

func (f SampleFormat) String() string {
	switch f {
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	}

	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// BytesPerSample returns the width of a single sample of one channel.
func (f SampleFormat) BytesPerSample() (int, error) {
	switch f {
	case Int16:
		return 2, nil
	case Int32, Float32:
		return 4, nil
	}

	return 0, &UnsupportedFormatError{Format: f}
}

// Validate reports whether f is one of the recognized formats.
func (f SampleFormat) Validate() error {
	_, err := f.BytesPerSample()

	return err
}

// fullScale is the divisor that maps the format's integer range onto [-1, 1].
func (f SampleFormat) fullScale() float64 {
	switch f {
	case Int16:
		return 32767.0
	case Int32:
		return 2147483647.0
	}

	return 1.0
}

// UnsupportedFormatError is returned for any format tag outside Int16, Int32
// and Float32.
type UnsupportedFormatError struct {
	Format SampleFormat
	Name   string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unsupported sample format %q (want int16, int32 or float32)", e.Name)
	}

	return fmt.Sprintf("unsupported sample format %s", e.Format)
}
