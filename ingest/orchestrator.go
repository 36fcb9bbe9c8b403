// Package ingest runs the full decode → preprocess → STFT → peak-pick
// → hash pipeline for a track or a query (component H), either on the
// whole file at once or in bounded-memory chunks for long recordings.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/soundtrace/engine/audio"
	"github.com/soundtrace/engine/config"
	"github.com/soundtrace/engine/dsp"
	"github.com/soundtrace/engine/landmark"
	"github.com/soundtrace/engine/match"
	"github.com/soundtrace/engine/models"
	"github.com/soundtrace/engine/store"
	"github.com/soundtrace/engine/utils"
	xerrors "github.com/soundtrace/engine/xerrors"
)

// Fingerprint runs components A–E on a whole in-memory byte buffer
// and returns its landmark pairs. It tries the in-process decoder
// first and falls back to an ffmpeg subprocess (via a temp file) when
// the in-process decoder cannot identify the container or fails to
// decode it.
func Fingerprint(data []byte, cfg config.Config) ([]landmark.Pair, error) {
	decoded, err := decodeWithFallback(data)
	if err != nil {
		return nil, err
	}
	return fingerprintSamples(decoded, cfg)
}

func fingerprintSamples(decoded audio.Decoded, cfg config.Config) ([]landmark.Pair, error) {
	downsampled := audio.Downsample(decoded.Samples, cfg.DownsampleRatio)
	newRate := decoded.SampleRate / cfg.DownsampleRatio
	if newRate <= 0 {
		return nil, xerrors.New(xerrors.KindDecode, "downsampled sample rate is non-positive", nil)
	}
	normalized := audio.Normalize(downsampled)

	frames := dsp.STFT(dsp.Float32To64(normalized), cfg.NumBins, cfg.HopSize)
	peaks := dsp.ExtractPeaks(frames, newRate, cfg.HopSize, cfg.NumBins, cfg.Bands)
	return landmark.Pairs(peaks, cfg.AnchorPoints), nil
}

func decodeWithFallback(data []byte) (audio.Decoded, error) {
	format, err := audio.DetectFormat(data)
	if err == nil {
		decoded, derr := audio.Decode(data, format)
		if derr == nil {
			return decoded, nil
		}
		err = derr
	}

	tmp, ferr := os.CreateTemp("", "ingest-*.bin")
	if ferr != nil {
		return audio.Decoded{}, xerrors.New(xerrors.KindDecode, "create fallback temp file", ferr)
	}
	defer os.Remove(tmp.Name())
	if _, werr := tmp.Write(data); werr != nil {
		tmp.Close()
		return audio.Decoded{}, xerrors.New(xerrors.KindDecode, "write fallback temp file", werr)
	}
	tmp.Close()

	wavPath, cerr := audio.ConvertToWAVFallback(tmp.Name())
	if cerr != nil {
		return audio.Decoded{}, xerrors.New(xerrors.KindDecode, "fallback decode failed", err)
	}
	defer os.Remove(wavPath)

	wavBytes, rerr := os.ReadFile(wavPath)
	if rerr != nil {
		return audio.Decoded{}, xerrors.New(xerrors.KindDecode, "read fallback-converted wav", rerr)
	}
	return audio.Decode(wavBytes, audio.FormatWAV)
}

// IngestTrack fingerprints data and, only once fingerprinting
// succeeds, writes its fingerprints and metadata to st. Any pipeline
// failure aborts before either write, per §4.8's non-partial-write
// contract.
func IngestTrack(ctx context.Context, st store.Store, data []byte, track models.TrackResult, cfg config.Config) error {
	pairs, err := Fingerprint(data, cfg)
	if err != nil {
		return err
	}
	return publish(ctx, st, track, pairs)
}

// IngestTrackChunked fingerprints a long recording in bounded-memory
// chunks via the ffmpeg fallback extractor, accumulating landmark
// pairs across chunk boundaries with cfg.ChunkOverlapSec of overlap so
// landmarks are not lost at a chunk seam. A non-positive
// cfg.ChunkDurationSec fingerprints the whole file as one chunk. It is
// the long-form
// counterpart to IngestTrack, grounded on the same chunking/overlap
// shape a bounded-memory pipeline needs for multi-hour recordings.
func IngestTrackChunked(ctx context.Context, st store.Store, filePath string, track models.TrackResult, cfg config.Config) error {
	duration, err := audio.AudioDurationFallback(filePath)
	if err != nil {
		return err
	}

	chunkLen, step := cfg.ChunkDurationSec, cfg.ChunkDurationSec-cfg.ChunkOverlapSec
	if chunkLen <= 0 {
		chunkLen, step = duration, duration
	}

	var allPairs []landmark.Pair
	for start := 0.0; start < duration; start += step {
		chunkDur := chunkLen
		if start+chunkDur > duration {
			chunkDur = duration - start
		}
		if chunkDur <= 0 {
			break
		}

		chunkPath, err := audio.ExtractChunkAsWAVFallback(filePath, start, chunkDur)
		if err != nil {
			return err
		}

		wavBytes, rerr := os.ReadFile(chunkPath)
		os.Remove(chunkPath)
		if rerr != nil {
			return xerrors.New(xerrors.KindDecode, "read chunk wav", rerr)
		}

		decoded, derr := audio.Decode(wavBytes, audio.FormatWAV)
		if derr != nil {
			return derr
		}

		pairs, ferr := fingerprintSamples(decoded, cfg)
		if ferr != nil {
			return ferr
		}
		allPairs = append(allPairs, pairs...)
	}

	return publish(ctx, st, track, allPairs)
}

func publish(ctx context.Context, st store.Store, track models.TrackResult, pairs []landmark.Pair) error {
	metadata, err := json.Marshal(track)
	if err != nil {
		return xerrors.New(xerrors.KindStore, "serialize track metadata", err)
	}

	if err := st.PutFingerprints(ctx, track.ID, pairs); err != nil {
		return err
	}
	if err := st.PutMetadata(ctx, track.ID, metadata); err != nil {
		return err
	}
	return nil
}

// Query fingerprints a query buffer and scores it against st's
// inverted index, returning up to 5 ranked, metadata-resolved
// candidates.
func Query(ctx context.Context, st store.Store, data []byte, cfg config.Config) ([]match.Candidate, error) {
	pairs, err := Fingerprint(data, cfg)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, nil
	}
	return match.Match(ctx, st, pairs, cfg.AnchorPoints)
}

// NewTrackID mints a fresh, unique track id for a newly ingested
// track that does not already carry one from its catalog provider.
func NewTrackID() (string, error) {
	id, err := utils.GenerateUniqueID()
	if err != nil {
		return "", fmt.Errorf("mint track id: %w", err)
	}
	return id, nil
}
