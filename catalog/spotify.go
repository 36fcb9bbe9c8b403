package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/soundtrace/engine/models"
	xerrors "github.com/soundtrace/engine/xerrors"
)

// SpotifyProvider resolves Spotify track URLs through a collaborator
// music-finder service (Spotify's own API requires OAuth this service
// owns, not something this module talks to directly).
type SpotifyProvider struct {
	client             *http.Client
	musicFinderBaseURL string
}

// Find posts trackURL to the music-finder collaborator's /spotify
// endpoint and returns the matched track results.
func (p *SpotifyProvider) Find(ctx context.Context, trackURL string) ([]models.TrackResult, error) {
	payload, err := json.Marshal(map[string]string{"url": trackURL})
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "encode spotify request", err)
	}

	endpoint := fmt.Sprintf("%s/spotify", p.musicFinderBaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "build spotify request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "spotify request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "read spotify response", err)
	}

	// gjson sniffs for an "error" field before paying for a full
	// unmarshal into []TrackResult — the collaborator service
	// returns a bare error object, not an array, on failure.
	if errMsg := gjson.GetBytes(body, "error"); errMsg.Exists() {
		return nil, xerrors.New(xerrors.KindProvider, "spotify collaborator error: "+errMsg.String(), nil)
	}

	var results []models.TrackResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "decode spotify response", err)
	}
	return results, nil
}

// Download is not directly supported for Spotify tracks — the
// collaborator service that resolves Spotify metadata does not also
// expose a download endpoint in this module's scope.
func (p *SpotifyProvider) Download(ctx context.Context, track models.TrackResult) ([]byte, error) {
	return nil, xerrors.New(xerrors.KindProvider, "spotify tracks are not directly downloadable", nil)
}
