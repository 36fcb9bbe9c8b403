// Package dsp computes the short-time Fourier transform and extracts
// the per-band spectral peaks landmark hashing pairs up (components C
// and D).
package dsp

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Frame is one windowed FFT frame's magnitude spectrum, one value per
// frequency bin from 0 up to NumBins/2.
type Frame []float64

// HannWindow returns the size-n Hann window coefficients, computed
// once per STFT call and reused across every frame.
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// STFT slices samples into overlapping windows of size numBins (hop
// samples apart), applies the Hann window in place, and returns the
// magnitude spectrum of each frame's positive-frequency half. No
// zero-padding is applied: a final partial window shorter than
// numBins is dropped, matching the frame-count invariant
// floor((len(samples)-numBins)/hop) + 1.
func STFT(samples []float64, numBins, hop int) []Frame {
	if len(samples) < numBins {
		return nil
	}

	window := HannWindow(numBins)
	frameCount := (len(samples)-numBins)/hop + 1
	frames := make([]Frame, 0, frameCount)

	buf := make([]float64, numBins)
	for start := 0; start+numBins <= len(samples); start += hop {
		copy(buf, samples[start:start+numBins])
		for i := range buf {
			buf[i] *= window[i]
		}

		spectrum := fft.FFTReal(buf)
		half := numBins/2 + 1
		mag := make(Frame, half)
		for i := 0; i < half; i++ {
			mag[i] = cmplxAbs(spectrum[i])
		}
		frames = append(frames, mag)
	}
	return frames
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// Float32To64 widens a sample slice for FFT input; go-dsp's transform
// operates on float64.
func Float32To64(samples []float32) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return out
}
