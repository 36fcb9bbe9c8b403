// Package catalog dispatches a track URL to the catalog provider that
// can resolve it (JioSaavn, Spotify, or YouTube) and downloads the
// track's source audio.
package catalog

import (
	"context"
	"net/http"
	"regexp"

	"github.com/soundtrace/engine/models"
	xerrors "github.com/soundtrace/engine/xerrors"
)

// dispatch is the ordered pattern table URL dispatch checks against.
// YouTube is checked first, then Spotify, then JioSaavn, matching the
// original provider's branch order exactly; a URL matching none of
// them is an InputError.
var dispatch = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"youtube", regexp.MustCompile(`youtu\.?be`)},
	{"spotify", regexp.MustCompile(`spotify`)},
	{"jiosaavn", regexp.MustCompile(`jiosaavn`)},
}

// Provider resolves a catalog URL to track results and downloads a
// resolved track's source audio.
type Provider interface {
	Find(ctx context.Context, url string) ([]models.TrackResult, error)
	Download(ctx context.Context, track models.TrackResult) ([]byte, error)
}

// Registry looks up a Provider by URL, dispatching on the same
// substring patterns the original client used.
type Registry struct {
	YouTube  Provider
	Spotify  Provider
	JioSaavn Provider
}

// NewRegistry builds a registry backed by a shared HTTP client and
// the environment-configured collaborator API URLs.
func NewRegistry(client *http.Client, youtubeAPIKey, musicFinderBaseURL, musicDownloaderBaseURL, jiosaavnBaseURL string) *Registry {
	return &Registry{
		YouTube:  &YouTubeProvider{client: client, apiKey: youtubeAPIKey, downloaderBaseURL: musicDownloaderBaseURL},
		Spotify:  &SpotifyProvider{client: client, musicFinderBaseURL: musicFinderBaseURL},
		JioSaavn: &JioSaavnProvider{client: client, baseURL: jiosaavnBaseURL},
	}
}

// Resolve finds the provider for url and returns its matching track
// results, or an InputError if url matches no known provider.
func (r *Registry) Resolve(ctx context.Context, url string) ([]models.TrackResult, error) {
	provider, err := r.providerFor(url)
	if err != nil {
		return nil, err
	}
	return provider.Find(ctx, url)
}

func (r *Registry) providerFor(url string) (Provider, error) {
	for _, d := range dispatch {
		if !d.pattern.MatchString(url) {
			continue
		}
		switch d.name {
		case "youtube":
			return r.YouTube, nil
		case "spotify":
			return r.Spotify, nil
		case "jiosaavn":
			return r.JioSaavn, nil
		}
	}
	return nil, xerrors.New(xerrors.KindInput, "url matched no known catalog provider", nil)
}
