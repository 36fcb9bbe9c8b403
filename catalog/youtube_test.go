package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundtrace/engine/models"
)

func TestExtractYoutubeVideoIDFromQueryParam(t *testing.T) {
	id, err := extractYoutubeVideoID("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)
}

func TestExtractYoutubeVideoIDFromShortURL(t *testing.T) {
	id, err := extractYoutubeVideoID("https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)
}

func TestExtractYoutubeVideoIDMalformed(t *testing.T) {
	_, err := extractYoutubeVideoID("https://www.youtube.com/")
	assert.Error(t, err)
}

func TestYoutubeDownloadDataToTrack(t *testing.T) {
	d := youtubeDownloadData{
		ID:       "abc123",
		Title:    "Some Song",
		Duration: "210.5",
		URL:      "https://cdn.example/audio.mp3",
		Uploader: "Some Artist",
	}
	track := d.toTrack()
	assert.Equal(t, "abc123", track.ID)
	assert.Equal(t, "Some Song", track.Name)
	assert.InDelta(t, 210.5, track.Duration, 1e-9)
	require.Len(t, track.Artists.Primary, 1)
	assert.Equal(t, "Some Artist", track.Artists.Primary[0].Name)
}

func TestYouTubeProviderDownloadPostsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube", r.URL.Path)
		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	p := &YouTubeProvider{client: srv.Client(), downloaderBaseURL: srv.URL}
	data, err := p.Download(context.Background(), models.TrackResult{URL: "https://youtu.be/abc123"})
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
}
