package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/soundtrace/engine/models"
	xerrors "github.com/soundtrace/engine/xerrors"
)

// YouTubeProvider resolves YouTube track URLs via the YouTube Data
// API for metadata and a collaborator music-downloader service for
// the actual audio bytes (YouTube's own CDN URLs are not directly
// fetchable without that service's extraction step).
type YouTubeProvider struct {
	client            *http.Client
	apiKey            string
	downloaderBaseURL string
}

// youtubeDownloadData mirrors the collaborator downloader's response
// shape for a resolved YouTube track.
type youtubeDownloadData struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Thumbnail  string `json:"thumbnail"`
	Duration   string `json:"duration"`
	URL        string `json:"url"`
	Uploader   string `json:"uploader"`
	ChannelURL string `json:"channel_url"`
}

// toTrack converts a downloader response into the catalog's common
// TrackResult schema, field for field.
func (d youtubeDownloadData) toTrack() models.TrackResult {
	duration, _ := strconv.ParseFloat(d.Duration, 64)
	artist := models.Artist{
		ID:   d.ID,
		Name: d.Uploader,
		Role: "Artist",
		Type: "person",
		URL:  d.ChannelURL,
	}
	return models.TrackResult{
		ID:       d.ID,
		Name:     d.Title,
		Type:     "youtube",
		Duration: duration,
		Language: "en",
		URL:      d.URL,
		Album:    models.Album{},
		Artists: models.Artists{
			Primary: []models.Artist{artist},
			All:     []models.Artist{artist},
		},
		Image:       []models.ImageItem{{Quality: "high", URL: d.Thumbnail}},
		DownloadURL: []models.DownloadURL{{Quality: "high", URL: d.URL}},
	}
}

// Find looks up trackURL's video id through the YouTube Data API and
// returns a single-element TrackResult slice built from its metadata.
func (p *YouTubeProvider) Find(ctx context.Context, trackURL string) ([]models.TrackResult, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(p.apiKey), option.WithHTTPClient(p.client))
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "build youtube data api client", err)
	}

	videoID, err := extractYoutubeVideoID(trackURL)
	if err != nil {
		return nil, err
	}

	call := svc.Videos.List([]string{"snippet", "contentDetails"}).Id(videoID)
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "youtube data api request failed", err)
	}
	if len(resp.Items) == 0 {
		return nil, xerrors.New(xerrors.KindProvider, "youtube video not found", nil)
	}

	item := resp.Items[0]
	snippet := item.Snippet
	thumbnail := ""
	if snippet.Thumbnails != nil && snippet.Thumbnails.High != nil {
		thumbnail = snippet.Thumbnails.High.Url
	}

	artist := models.Artist{ID: snippet.ChannelId, Name: snippet.ChannelTitle, Role: "Artist", Type: "person"}
	track := models.TrackResult{
		ID:       item.Id,
		Name:     snippet.Title,
		Type:     "youtube",
		Language: "en",
		URL:      trackURL,
		Artists: models.Artists{
			Primary: []models.Artist{artist},
			All:     []models.Artist{artist},
		},
		Image:       []models.ImageItem{{Quality: "high", URL: thumbnail}},
		DownloadURL: []models.DownloadURL{{Quality: "high", URL: trackURL}},
	}
	return []models.TrackResult{track}, nil
}

// Download posts trackURL to the music-downloader collaborator and
// returns the resolved audio bytes.
func (p *YouTubeProvider) Download(ctx context.Context, track models.TrackResult) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"url": track.URL})
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "encode youtube download request", err)
	}

	endpoint := fmt.Sprintf("%s/youtube", p.downloaderBaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "build youtube download request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "youtube download failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.New(xerrors.KindProvider, "read youtube download body", err)
	}
	return data, nil
}

func extractYoutubeVideoID(trackURL string) (string, error) {
	u, err := url.Parse(trackURL)
	if err != nil {
		return "", xerrors.New(xerrors.KindInput, "malformed youtube url", err)
	}
	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}
	if len(u.Path) > 1 {
		return u.Path[1:], nil
	}
	return "", xerrors.New(xerrors.KindInput, "could not extract video id from youtube url", nil)
}
