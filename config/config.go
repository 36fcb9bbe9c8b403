// Package config holds the tunable parameters of the fingerprinting
// pipeline so that alternate fingerprint profiles (short music clips vs.
// long-form recordings) can coexist without touching the DSP code.
package config

// Config controls every tunable parameter in the decode, STFT, peak
// extraction, and landmark hashing pipeline.
type Config struct {
	SampleRate int // assumed/target sample rate in Hz before downsampling

	DownsampleRatio int // D in spec: integer downsample factor
	NumBins         int // FFT window size in samples (must be a power of 2)
	HopSize         int // samples between successive FFT frames, NumBins/2 by convention

	Bands [][2]int // (loHz, hiHz) band edges, inclusive-exclusive, for peak picking

	AnchorPoints int // k-NN fan-out size per anchor peak, including the anchor itself

	ChunkDurationSec float64 // seconds per ingest chunk (0 = whole file at once)
	ChunkOverlapSec  float64 // overlap between consecutive chunks, in seconds
}

// MusicConfig returns the Shazam-style parameters used for short music
// clips: high time-frequency resolution, full 10-band coverage up to
// 20 kHz, and the 64-bit landmark hash fan-out of 5 (self + 4 targets).
func MusicConfig() Config {
	return Config{
		SampleRate:      44100,
		DownsampleRatio: 2,
		NumBins:         2048,
		HopSize:         1024,
		Bands: [][2]int{
			{0, 32}, {32, 64}, {64, 128}, {128, 256}, {256, 512},
			{512, 1024}, {1024, 2048}, {2048, 4096}, {4096, 8192}, {8192, 20000},
		},
		AnchorPoints:     5,
		ChunkDurationSec: 300,
		ChunkOverlapSec:  5,
	}
}

// AudiobookConfig returns parameters tuned for long-form spoken word:
// a coarser downsample and a narrower band set keep fingerprint density
// and storage practical for multi-hour files at the cost of the pitch
// resolution short music clips need.
func AudiobookConfig() Config {
	return Config{
		SampleRate:      44100,
		DownsampleRatio: 8,
		NumBins:         2048,
		HopSize:         2048,
		Bands: [][2]int{
			{0, 256}, {256, 512}, {512, 1024}, {1024, 2048}, {2048, 4096},
		},
		AnchorPoints:     5,
		ChunkDurationSec: 120,
		ChunkOverlapSec:  5,
	}
}
