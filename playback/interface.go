package playback

import "context"

type Interface interface {
	// Play renders mono samples and blocks until the device has them all.
	// Empty input is a no-op.
	Play(ctx context.Context, samples []float32, sampleRate int) error
}
