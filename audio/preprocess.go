package audio

// Downsample reduces samples by an integer factor, averaging each
// window of `factor` consecutive samples into one. The final partial
// window, if any, is averaged over however many samples remain —
// mirroring the chunked-mean downsampler exactly rather than dropping
// the tail.
func Downsample(samples []float32, factor int) []float32 {
	if factor <= 1 {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out
	}

	out := make([]float32, 0, len(samples)/factor+1)
	for start := 0; start < len(samples); start += factor {
		end := start + factor
		if end > len(samples) {
			end = len(samples)
		}
		var sum float32
		for _, s := range samples[start:end] {
			sum += s
		}
		out = append(out, sum/float32(end-start))
	}
	return out
}

// Normalize peak-normalizes samples by dividing every sample by the
// signed maximum (not the absolute maximum) found in the slice. When
// the signed maximum is not positive — a silent or all-negative
// buffer — normalization is a no-op identity, reproducing the
// original behavior rather than guarding against it with an
// artificial epsilon.
func Normalize(samples []float32) []float32 {
	var max float32 = -3.4e38 // float32 min, matches a fold starting from the type's minimum
	for _, s := range samples {
		if s > max {
			max = s
		}
	}

	out := make([]float32, len(samples))
	if max <= 0 {
		copy(out, samples)
		return out
	}
	for i, s := range samples {
		out[i] = s / max
	}
	return out
}
