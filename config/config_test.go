package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMusicConfigBandsCoverFullRange(t *testing.T) {
	cfg := MusicConfig()
	a := assert.New(t)
	a.Equal(10, len(cfg.Bands))
	a.Equal(0, cfg.Bands[0][0])
	a.Equal(20000, cfg.Bands[len(cfg.Bands)-1][1])

	for i := 1; i < len(cfg.Bands); i++ {
		a.Equal(cfg.Bands[i-1][1], cfg.Bands[i][0], "bands must be contiguous")
	}
}

func TestMusicConfigHopIsHalfNumBins(t *testing.T) {
	cfg := MusicConfig()
	assert.Equal(t, cfg.NumBins/2, cfg.HopSize)
}

func TestAudiobookConfigUsesCoarserDownsample(t *testing.T) {
	music := MusicConfig()
	audiobook := AudiobookConfig()
	assert.Greater(t, audiobook.DownsampleRatio, music.DownsampleRatio)
	assert.Less(t, len(audiobook.Bands), len(music.Bands))
}
