package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectDownloadURLPicksFifthTierWhenAvailable(t *testing.T) {
	track := TrackResult{
		DownloadURL: []DownloadURL{
			{Quality: "12kbps", URL: "a"},
			{Quality: "48kbps", URL: "b"},
			{Quality: "96kbps", URL: "c"},
			{Quality: "160kbps", URL: "d"},
			{Quality: "320kbps", URL: "e"},
		},
	}
	assert.Equal(t, "e", track.SelectDownloadURL())
}

func TestSelectDownloadURLFallsBackToLastTier(t *testing.T) {
	track := TrackResult{
		DownloadURL: []DownloadURL{
			{Quality: "12kbps", URL: "a"},
			{Quality: "48kbps", URL: "b"},
		},
	}
	assert.Equal(t, "b", track.SelectDownloadURL())
}

func TestSelectDownloadURLEmpty(t *testing.T) {
	assert.Equal(t, "", TrackResult{}.SelectDownloadURL())
}

func TestTrackResultJSONRoundTrip(t *testing.T) {
	track := TrackResult{
		ID:   "123",
		Name: "Test Track",
		Artists: Artists{
			Primary: []Artist{{Name: "Artist A"}},
		},
	}

	data, err := json.Marshal(track)
	require.NoError(t, err)

	var decoded TrackResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, track.ID, decoded.ID)
	assert.Equal(t, track.Name, decoded.Name)
	assert.Equal(t, track.Artists.Primary[0].Name, decoded.Artists.Primary[0].Name)
}
