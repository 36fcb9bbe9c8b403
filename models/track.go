// Package models defines the catalog track schema shared by the
// providers, the fingerprint store, and the matcher.
package models

// TrackResult is the full catalog record for a track, as returned by a
// catalog provider and persisted as a track's metadata. Field names and
// JSON tags mirror the provider wire format field-for-field so that a
// provider response can be unmarshaled directly into this type.
type TrackResult struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Type            string       `json:"type"`
	Year            string       `json:"year,omitempty"`
	ReleaseDate     string       `json:"releaseDate,omitempty"`
	Duration        float64      `json:"duration,omitempty"`
	Label           string       `json:"label,omitempty"`
	ExplicitContent bool         `json:"explicitContent"`
	PlayCount       float64      `json:"playCount,omitempty"`
	Language        string       `json:"language,omitempty"`
	HasLyrics       bool         `json:"hasLyrics"`
	LyricsID        string       `json:"lyricsId,omitempty"`
	URL             string       `json:"url"`
	Copyright       string       `json:"copyright,omitempty"`
	Album           Album        `json:"album"`
	Artists         Artists      `json:"artists"`
	Image           []ImageItem  `json:"image"`
	DownloadURL     []DownloadURL `json:"downloadUrl"`
}

// Album identifies the release a track belongs to.
type Album struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Artists groups a track's primary, featured, and combined artist lists.
type Artists struct {
	Primary  []Artist `json:"primary"`
	Featured []Artist `json:"featured"`
	All      []Artist `json:"all"`
}

// Artist is a single contributor credited on a track.
type Artist struct {
	ID    string      `json:"id,omitempty"`
	Name  string      `json:"name,omitempty"`
	Role  string      `json:"role,omitempty"`
	Type  string      `json:"type,omitempty"`
	Image []ImageItem `json:"image"`
	URL   string      `json:"url,omitempty"`
}

// ImageItem is one cover-art or avatar variant at a given quality tier.
type ImageItem struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// DownloadURL is one audio-quality variant of a track's source media.
type DownloadURL struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// SelectDownloadURL picks the download-quality tier used for
// fingerprinting: index 4 (the 5th tier, typically the highest quality
// JioSaavn exposes) when enough tiers are present, otherwise the last
// available tier. Mirrors the original provider's behavior exactly so
// that catalog tracks fingerprint from the same audio quality as before.
func (t TrackResult) SelectDownloadURL() string {
	downloads := t.DownloadURL
	if len(downloads) == 0 {
		return ""
	}
	if len(downloads) < 5 {
		return downloads[len(downloads)-1].URL
	}
	return downloads[4].URL
}

// TrackSearchData is the paginated results envelope a catalog provider
// returns for a search/lookup call.
type TrackSearchData struct {
	Total   int           `json:"total"`
	Start   int           `json:"start"`
	Results []TrackResult `json:"results"`
}

// TrackSearch is the top-level provider response envelope.
type TrackSearch struct {
	Success bool            `json:"success"`
	Data    TrackSearchData `json:"data"`
}
