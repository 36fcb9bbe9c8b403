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

func TestSpotifyProviderFindReturnsTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spotify", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"1","name":"Track One"}]`))
	}))
	defer srv.Close()

	p := &SpotifyProvider{client: srv.Client(), musicFinderBaseURL: srv.URL}
	tracks, err := p.Find(context.Background(), "https://open.spotify.com/track/abc")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Track One", tracks[0].Name)
}

func TestSpotifyProviderFindSniffsErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"track not found"}`))
	}))
	defer srv.Close()

	p := &SpotifyProvider{client: srv.Client(), musicFinderBaseURL: srv.URL}
	_, err := p.Find(context.Background(), "https://open.spotify.com/track/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "track not found")
}

func TestSpotifyProviderDownloadIsUnsupported(t *testing.T) {
	p := &SpotifyProvider{client: http.DefaultClient}
	_, err := p.Download(context.Background(), models.TrackResult{ID: "1"})
	assert.Error(t, err)
}
