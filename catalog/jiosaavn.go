package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/buger/jsonparser"

	"github.com/soundtrace/engine/models"
	xerrors "github.com/soundtrace/engine/xerrors"
)

// JioSaavnProvider resolves JioSaavn track URLs against a JioSaavn
// API mirror and downloads the selected download-quality tier.
type JioSaavnProvider struct {
	client  *http.Client
	baseURL string
}

// Find queries the JioSaavn API mirror's /api/songs endpoint for the
// track(s) at trackURL.
func (p *JioSaavnProvider) Find(ctx context.Context, trackURL string) ([]models.TrackResult, error) {
	endpoint := fmt.Sprintf("%s/api/songs?link=%s", p.baseURL, url.QueryEscape(trackURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "build jiosaavn request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "jiosaavn request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "read jiosaavn response", err)
	}

	// jsonparser walks the "data" array without unmarshaling the
	// whole payload first; the first track entry that fails to decode
	// fails the whole call.
	var results []models.TrackResult
	var walkErr error
	_, err = jsonparser.ArrayEach(body, func(entry []byte, _ jsonparser.ValueType, _ int, _ error) {
		if walkErr != nil {
			return
		}
		var track models.TrackResult
		if uerr := json.Unmarshal(entry, &track); uerr != nil {
			walkErr = uerr
			return
		}
		results = append(results, track)
	}, "data")
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "parse jiosaavn response", err)
	}
	if walkErr != nil {
		return nil, xerrors.New(xerrors.KindProvider, "decode jiosaavn track entry", walkErr)
	}

	return results, nil
}

// Download fetches the source audio for track's selected
// download-quality tier.
func (p *JioSaavnProvider) Download(ctx context.Context, track models.TrackResult) ([]byte, error) {
	downloadURL := track.SelectDownloadURL()
	if downloadURL == "" {
		return nil, xerrors.New(xerrors.KindProvider, "track has no download url", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "build jiosaavn download request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "jiosaavn download failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "read jiosaavn download body", err)
	}
	return data, nil
}
