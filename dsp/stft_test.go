package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHannWindowEndpoints(t *testing.T) {
	w := HannWindow(8)
	require.Len(t, w, 8)
	assert.InDelta(t, 0.0, w[0], 1e-9)
	assert.InDelta(t, 0.0, w[len(w)-1], 1e-9)
	// the midpoint of a Hann window is its maximum, 1.0
	mid := w[len(w)/2]
	assert.InDelta(t, 1.0, mid, 0.05)
}

func TestSTFTFrameCount(t *testing.T) {
	numBins, hop := 64, 32
	samples := make([]float64, 256)
	frames := STFT(samples, numBins, hop)
	want := (len(samples)-numBins)/hop + 1
	assert.Len(t, frames, want)
	for _, f := range frames {
		assert.Len(t, f, numBins/2+1)
	}
}

func TestSTFTShorterThanWindowReturnsNil(t *testing.T) {
	frames := STFT(make([]float64, 10), 64, 32)
	assert.Nil(t, frames)
}

func TestSTFTSineBinLocation(t *testing.T) {
	const sampleRate = 22050
	const numBins = 2048
	const freqHz = 440.0

	samples := make([]float64, numBins*3)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freqHz * float64(i) / sampleRate)
	}

	frames := STFT(samples, numBins, numBins)
	require.NotEmpty(t, frames)

	frame := frames[0]
	bestBin, bestMag := 0, 0.0
	for i, mag := range frame {
		if mag > bestMag {
			bestBin, bestMag = i, mag
		}
	}

	expectedBin := int(math.Round(freqHz * numBins / sampleRate))
	assert.InDelta(t, expectedBin, bestBin, 1)
}

func TestFloat32To64(t *testing.T) {
	in := []float32{1.5, -2.25, 0}
	out := Float32To64(in)
	require.Len(t, out, 3)
	assert.InDelta(t, 1.5, out[0], 1e-6)
	assert.InDelta(t, -2.25, out[1], 1e-6)
	assert.InDelta(t, 0, out[2], 1e-6)
}
