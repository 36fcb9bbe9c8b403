package catalog

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolveDispatchesByURLPattern(t *testing.T) {
	reg := NewRegistry(http.DefaultClient, "key", "https://finder.example", "https://downloader.example", "https://jiosaavn.example")

	tests := []struct {
		url      string
		provider Provider
	}{
		{"https://youtu.be/abc123", reg.YouTube},
		{"https://www.youtube.com/watch?v=abc123", reg.YouTube},
		{"https://open.spotify.com/track/xyz", reg.Spotify},
		{"https://www.jiosaavn.com/song/title/xyz", reg.JioSaavn},
	}

	for _, tc := range tests {
		got, err := reg.providerFor(tc.url)
		require.NoError(t, err)
		assert.Same(t, tc.provider, got)
	}
}

func TestRegistryResolveUnknownURLIsInputError(t *testing.T) {
	reg := NewRegistry(http.DefaultClient, "key", "", "", "")
	_, err := reg.providerFor("https://example.com/not-a-catalog-link")
	assert.Error(t, err)
}

func TestDispatchOrderPrefersYouTubeFirst(t *testing.T) {
	// a URL could plausibly match more than one pattern only in
	// contrived cases, but the table's order must still be
	// youtube -> spotify -> jiosaavn, matching the original client's
	// branch order exactly.
	require.Len(t, dispatch, 3)
	assert.Equal(t, "youtube", dispatch[0].name)
	assert.Equal(t, "spotify", dispatch[1].name)
	assert.Equal(t, "jiosaavn", dispatch[2].name)
}
