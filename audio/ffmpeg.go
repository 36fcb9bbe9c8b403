package audio

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	xerrors "github.com/soundtrace/engine/xerrors"
	"github.com/soundtrace/engine/utils"
)

// ConvertToWAVFallback shells out to ffmpeg for containers the
// in-process beep decoder does not cover (m4a/aac and other exotic
// containers beep has no decoder for). It is the last resort after
// DetectFormat/Decode fail, not the default path.
func ConvertToWAVFallback(inputFilePath string) (wavFilePath string, err error) {
	if _, err := os.Stat(inputFilePath); err != nil {
		return "", xerrors.New(xerrors.KindDecode, "fallback input file missing", err)
	}

	fileExt := filepath.Ext(inputFilePath)
	outputFile := strings.TrimSuffix(inputFilePath, fileExt) + ".wav"

	tmpFile := filepath.Join(filepath.Dir(outputFile), "tmp_"+filepath.Base(outputFile))
	defer os.Remove(tmpFile)

	cmd := exec.Command(
		"ffmpeg",
		"-y",
		"-i", inputFilePath,
		"-c", "pcm_s16le",
		"-ar", "44100",
		"-ac", "1",
		tmpFile,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", xerrors.New(xerrors.KindDecode, fmt.Sprintf("ffmpeg fallback conversion failed: %s", output), err)
	}

	if err := utils.MoveFile(tmpFile, outputFile); err != nil {
		return "", xerrors.New(xerrors.KindDecode, "fallback rename failed", err)
	}

	return outputFile, nil
}

// ExtractChunkAsWAVFallback extracts a bounded time segment from any
// ffmpeg-readable file as 16-bit PCM mono WAV, used by the chunked
// ingest path when the source container needs the ffmpeg fallback.
func ExtractChunkAsWAVFallback(inputPath string, startSec, durationSec float64) (string, error) {
	if err := utils.CreateFolder("tmp"); err != nil {
		return "", err
	}

	outputFile := filepath.Join("tmp", fmt.Sprintf("chunk_%d_%.0f.wav", time.Now().UnixNano(), startSec))

	cmd := exec.Command(
		"ffmpeg", "-y",
		"-ss", fmt.Sprintf("%.3f", startSec),
		"-t", fmt.Sprintf("%.3f", durationSec),
		"-i", inputPath,
		"-c", "pcm_s16le",
		"-ar", "44100",
		"-ac", "1",
		outputFile,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", xerrors.New(xerrors.KindDecode, fmt.Sprintf("ffmpeg chunk extraction failed: %s", output), err)
	}

	return outputFile, nil
}

// AudioDurationFallback returns the duration in seconds of any
// ffprobe-readable file, used to plan chunk boundaries ahead of the
// chunked ffmpeg extraction path.
func AudioDurationFallback(inputPath string) (float64, error) {
	cmd := exec.Command(
		"ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, xerrors.New(xerrors.KindDecode, "ffprobe duration query failed", err)
	}

	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}
