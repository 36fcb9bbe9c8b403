package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/soundtrace/engine/models"
)

func jsonUnmarshalTrack(data []byte, track *models.TrackResult) error {
	return json.Unmarshal(data, track)
}

func httpClientWithTimeout() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
