package speech_extraction

import "fmt"

// DeviceOpenError means the input stream could not be opened or started.
// The session is over; retrying is up to the caller.
type DeviceOpenError struct {
	Err error
}

func (e *DeviceOpenError) Error() string {
	return fmt.Sprintf("failed to open input stream: %v", e.Err)
}

func (e *DeviceOpenError) Unwrap() error {
	return e.Err
}

// ChunkProcessingError describes a chunk that could not be normalized or
// analyzed. It is logged, never returned from Record.
type ChunkProcessingError struct {
	Chunk int
	Err   error
}

func (e *ChunkProcessingError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Chunk, e.Err)
}

func (e *ChunkProcessingError) Unwrap() error {
	return e.Err
}
