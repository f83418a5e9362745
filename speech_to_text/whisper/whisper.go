// Package whisper runs speech-to-text with a local whisper.cpp model.
package whisper

import (
	"fmt"
	"io"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/audio"

	"voice-capture/speech_to_text"
)

// whisper.cpp only accepts 16 kHz mono input.
const requiredSampleRate = 16000

type sttImpl struct {
	model    whisperlib.Model
	language string
}

type Config struct {
	Model whisperlib.Model
	// Language is a whisper language code; empty keeps the model default.
	Language string
}

func New(cfg *Config) (speech_to_text.Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Model == nil {
		return nil, fmt.Errorf("model is nil")
	}

	return &sttImpl{
		model:    cfg.Model,
		language: cfg.Language,
	}, nil
}

func (stt *sttImpl) Process(wavBuffer audio.Buffer) ([]speech_to_text.Segment, error) {
	format := wavBuffer.PCMFormat()
	if format == nil || format.SampleRate != requiredSampleRate || format.NumChannels != 1 {
		return nil, fmt.Errorf("whisper needs %d Hz mono input", requiredSampleRate)
	}

	context, err := stt.model.NewContext()
	if err != nil {
		return nil, err
	}

	if stt.language != "" {
		if err := context.SetLanguage(stt.language); err != nil {
			return nil, fmt.Errorf("set language %q: %w", stt.language, err)
		}
	}

	data := wavBuffer.AsFloat32Buffer().Data

	var cb whisperlib.SegmentCallback

	err = context.Process(data, cb)
	if err != nil {
		return nil, err
	}

	segments, err := outputSegments(context)
	if err != nil {
		return nil, err
	}

	return speech_to_text.FilterSegments(segments), nil
}

func outputSegments(context whisperlib.Context) ([]speech_to_text.Segment, error) {
	segments := make([]speech_to_text.Segment, 0)

	for {
		segment, err := context.NextSegment()
		if err == io.EOF {
			return segments, nil
		} else if err != nil {
			return nil, err
		}

		segments = append(segments, speech_to_text.Segment{
			Start: segment.Start,
			End:   segment.End,
			Text:  segment.Text,
		})
	}
}
