// Package audio turns compressed track bytes into the mono float32
// sample stream the DSP stage expects (component A), with a
// downsample/normalize pass (component B) ahead of the spectrogram.
package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"

	xerrors "github.com/soundtrace/engine/xerrors"
)

// Format names a container the in-process decoder recognizes.
type Format int

const (
	FormatWAV Format = iota
	FormatMP3
	FormatFLAC
)

// Decoded is a decoded track: mono samples in [-1, 1]-ish float32
// range (pre-normalization) at the container's native sample rate.
type Decoded struct {
	Samples    []float32
	SampleRate int
}

// Decode decodes data as the given container format (see
// DetectFormat) and downmixes it to mono. It returns a DecodeError
// when the format is not one of the supported ones, when the decoder
// rejects the stream or when decoding aborts partway through — a
// partially decoded track is not returned, since a truncated
// fingerprint silently corrupts the index.
func Decode(data []byte, format Format) (Decoded, error) {
	var (
		streamer beep.StreamSeekCloser
		format_  beep.Format
		err      error
	)

	r := bytes.NewReader(data)
	closer := io.NopCloser(r)

	switch format {
	case FormatWAV:
		streamer, format_, err = wav.Decode(closer)
	case FormatMP3:
		streamer, format_, err = mp3.Decode(closer)
	case FormatFLAC:
		streamer, format_, err = flac.Decode(closer)
	default:
		return Decoded{}, xerrors.New(xerrors.KindDecode, "unsupported container format", nil)
	}
	if err != nil {
		return Decoded{}, xerrors.New(xerrors.KindDecode, "no decoder accepted stream", err)
	}
	defer streamer.Close()

	samples, err := downmixMono(streamer)
	if err != nil {
		return Decoded{}, xerrors.New(xerrors.KindDecode, "decode aborted mid-stream", err)
	}
	if len(samples) == 0 {
		return Decoded{}, xerrors.New(xerrors.KindDecode, "decoded track has no audio track", nil)
	}

	return Decoded{Samples: samples, SampleRate: format_.SampleRate.N(1)}, nil
}

// downmixMono reads every frame from streamer and averages each
// frame's channels into a single float32 sample, mirroring the
// original decoder's mean-downmix rule exactly (not a loudness-
// weighted mix) so stereo and mono sources fingerprint identically
// once reduced.
func downmixMono(streamer beep.Streamer) ([]float32, error) {
	const batch = 4096
	buf := make([][2]float64, batch)
	out := make([]float32, 0, batch)

	for {
		n, ok := streamer.Stream(buf)
		for i := 0; i < n; i++ {
			l, r := buf[i][0], buf[i][1]
			out = append(out, float32((l+r)/2.0))
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DetectFormat sniffs data's leading bytes for a supported container
// magic number, returning an error the caller can hand off to the
// ffmpeg fallback decoder when none match.
func DetectFormat(data []byte) (Format, error) {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return FormatWAV, nil
	case len(data) >= 4 && string(data[0:4]) == "fLaC":
		return FormatFLAC, nil
	case len(data) >= 3 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3, nil
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return FormatMP3, nil
	default:
		return 0, fmt.Errorf("unrecognized container magic")
	}
}
