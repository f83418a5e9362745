package voice_activity_detection

// Bounds maps the first and last non-silent windows of trace onto a
// closed-open sample range of a signal with total samples. ok is false when
// every window is silent.
func Bounds(trace Trace, windowSize, total int) (start, end int, ok bool) {
	if trace.AllSilent() {
		return 0, 0, false
	}

	first := 0
	for i, w := range trace {
		if !w.Silent {
			first = i
			break
		}
	}

	last := len(trace) - 1
	for i := len(trace) - 1; i >= 0; i-- {
		if !trace[i].Silent {
			last = i
			break
		}
	}

	start = first * windowSize
	end = (last + 1) * windowSize
	if end > total {
		end = total
	}

	return start, end, true
}

// Trim removes leading and trailing silent windows from samples. A signal
// with no loud window trims to an empty slice. The result is a copy.
func Trim(samples []float32, windowSize int, threshold float64) ([]float32, error) {
	trace, err := Analyze(samples, windowSize, threshold)
	if err != nil {
		return nil, err
	}

	start, end, ok := Bounds(trace, windowSize, len(samples))
	if !ok {
		return []float32{}, nil
	}

	out := make([]float32, end-start)
	copy(out, samples[start:end])

	return out, nil
}
