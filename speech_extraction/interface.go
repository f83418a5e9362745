package speech_extraction

import "context"

type Interface interface {
	// Record captures one utterance and returns it as mono samples in
	// [-1, 1] at the configured sample rate.
	Record(ctx context.Context, opts RecordOptions) ([]float32, error)
	// RecordDetailed is Record plus the session bookkeeping.
	RecordDetailed(ctx context.Context, opts RecordOptions) (RecordResult, error)
}
