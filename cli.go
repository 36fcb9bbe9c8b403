package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/soundtrace/engine/catalog"
	"github.com/soundtrace/engine/ingest"
	"github.com/soundtrace/engine/models"
	"github.com/soundtrace/engine/utils"
)

func find(filePath string) {
	fmt.Printf("[find] fingerprinting %s...\n", filePath)

	data, err := os.ReadFile(filePath)
	if err != nil {
		color.Red("error reading file: %v", err)
		return
	}

	ctx := context.Background()
	st, err := newStore(ctx)
	if err != nil {
		color.Red("error opening store: %v", err)
		return
	}

	searchStart := time.Now()
	candidates, err := ingest.Query(ctx, st, data, fpConfig)
	if err != nil {
		color.Red("error finding matches: %v", err)
		return
	}
	searchDuration := time.Since(searchStart)

	if len(candidates) == 0 {
		fmt.Println("no match found.")
		fmt.Printf("search took: %s\n", searchDuration)
		return
	}

	fmt.Println("matches:")
	for _, c := range candidates {
		var track models.TrackResult
		_ = jsonUnmarshalTrack(c.Metadata, &track)
		fmt.Printf("\t- %s by %s (count=%d, time_diff=%d)\n",
			track.Name, primaryArtist(track), c.Count, c.TimeDiff)
	}

	fmt.Printf("\nsearch took: %s\n", searchDuration)
	top := candidates[0]
	var topTrack models.TrackResult
	_ = jsonUnmarshalTrack(top.Metadata, &topTrack)
	color.Green("final prediction: %s by %s", topTrack.Name, primaryArtist(topTrack))
}

func erase(songsDir string, _ bool, all bool) {
	ctx := context.Background()
	st, err := newStore(ctx)
	if err != nil {
		color.Red("error opening store: %v", err)
		return
	}

	tracks, err := st.ListTracks(ctx)
	if err != nil {
		color.Red("error listing tracks: %v", err)
	} else {
		for _, payload := range tracks {
			var track models.TrackResult
			if jsonUnmarshalTrack(payload, &track) == nil {
				if err := st.DeleteTrack(ctx, track.ID); err != nil {
					color.Red("error deleting %s: %v", track.ID, err)
				}
			}
		}
	}
	fmt.Println("store cleared")

	if !all {
		fmt.Println("erase complete")
		return
	}

	err = filepath.Walk(songsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext == ".wav" || ext == ".m4a" || ext == ".mp3" || ext == ".flac" || ext == ".ogg" {
			return os.Remove(path)
		}
		return nil
	})
	if err != nil {
		color.Red("error cleaning files in %s: %v", songsDir, err)
	}
	fmt.Println("audio files cleared")
	fmt.Println("erase complete")
}

func save(path string, force bool) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		color.Red("error: %v", err)
		return
	}

	if !fileInfo.IsDir() {
		if err := saveEntry(path, force); err != nil {
			color.Red("error saving (%v): %v", path, err)
		}
		return
	}

	var filePaths []string
	filepath.Walk(path, func(fp string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			filePaths = append(filePaths, fp)
		}
		return nil
	})

	processFilesConcurrently(filePaths, force)
}

func processFilesConcurrently(filePaths []string, force bool) {
	maxWorkers := runtime.NumCPU() / 2
	numFiles := len(filePaths)

	if numFiles == 0 {
		return
	}
	if numFiles < maxWorkers {
		maxWorkers = numFiles
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	jobs := make(chan string, numFiles)
	results := make(chan error, numFiles)

	for w := 0; w < maxWorkers; w++ {
		go func() {
			for fp := range jobs {
				results <- saveEntry(fp, force)
			}
		}()
	}

	for _, fp := range filePaths {
		jobs <- fp
	}
	close(jobs)

	successCount, errorCount := 0, 0
	for i := 0; i < numFiles; i++ {
		if err := <-results; err != nil {
			fmt.Printf("error: %v\n", err)
			errorCount++
		} else {
			successCount++
		}
	}

	fmt.Printf("\nprocessed %d files: %d successful, %d failed\n", numFiles, successCount, errorCount)
}

// saveEntry ingests a single local file as a track. Title/artist tag
// reading is out of scope for this module's dependency set, so the
// title falls back to the filename and the artist to "unknown". The
// force flag is accepted but has no effect: every file is indexed
// with this fallback metadata.
func saveEntry(filePath string, _ bool) error {
	title := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	author := "unknown"

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read '%s': %w", filePath, err)
	}

	id, err := ingest.NewTrackID()
	if err != nil {
		return err
	}

	track := models.TrackResult{
		ID:   id,
		Name: title,
		Type: "local",
		Artists: models.Artists{
			Primary: []models.Artist{{Name: author}},
			All:     []models.Artist{{Name: author}},
		},
	}

	ctx := context.Background()
	st, err := newStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if err := ingest.IngestTrack(ctx, st, data, track, fpConfig); err != nil {
		return fmt.Errorf("failed to process '%s': %w", filePath, err)
	}

	fmt.Printf("indexed '%s' by '%s'\n", title, author)
	return nil
}

// resolveAndIngest dispatches trackURL to its catalog provider,
// downloads the resolved track's audio, and ingests it — the CLI
// entry point for the URL-driven ingest path §4.8 describes as a
// (bytes, metadata) pair sourced from a catalog lookup rather than a
// local file.
func resolveAndIngest(trackURL string) {
	ctx := context.Background()

	registry := catalog.NewRegistry(
		httpClientWithTimeout(),
		utils.GetEnv("YOUTUBE_API_KEY", ""),
		utils.GetEnv("MUSIC_FINDER_API_URL", ""),
		utils.GetEnv("MUSIC_DOWNLOADER_API_URL", ""),
		utils.GetEnv("JIOSAAVAN_API_URL", ""),
	)

	tracks, err := registry.Resolve(ctx, trackURL)
	if err != nil {
		color.Red("error resolving url: %v", err)
		return
	}
	if len(tracks) == 0 {
		color.Red("no tracks resolved for %s", trackURL)
		return
	}

	track := tracks[0]
	provider, perr := providerForTrack(registry, trackURL)
	if perr != nil {
		color.Red("error selecting provider: %v", perr)
		return
	}

	data, err := provider.Download(ctx, track)
	if err != nil {
		color.Red("error downloading track: %v", err)
		return
	}

	st, err := newStore(ctx)
	if err != nil {
		color.Red("error opening store: %v", err)
		return
	}

	if track.ID == "" {
		id, ierr := ingest.NewTrackID()
		if ierr != nil {
			color.Red("error minting track id: %v", ierr)
			return
		}
		track.ID = id
	}

	if err := ingest.IngestTrack(ctx, st, data, track, fpConfig); err != nil {
		color.Red("error ingesting track: %v", err)
		return
	}

	color.Green("indexed '%s' (%s)", track.Name, track.ID)
}

// existsCmd reports whether trackID has an indexed metadata record,
// the CLI surface for the store's exists(track_id) -> bool operation.
func existsCmd(trackID string) {
	ctx := context.Background()
	st, err := newStore(ctx)
	if err != nil {
		color.Red("error opening store: %v", err)
		return
	}

	ok, err := st.Exists(ctx, trackID)
	if err != nil {
		color.Red("error checking existence: %v", err)
		return
	}

	if ok {
		color.Green("%s exists", trackID)
	} else {
		fmt.Printf("%s does not exist\n", trackID)
	}
}

func providerForTrack(registry *catalog.Registry, trackURL string) (catalog.Provider, error) {
	switch {
	case strings.Contains(trackURL, "youtu"):
		return registry.YouTube, nil
	case strings.Contains(trackURL, "spotify"):
		return registry.Spotify, nil
	case strings.Contains(trackURL, "jiosaavn"):
		return registry.JioSaavn, nil
	default:
		return nil, fmt.Errorf("no provider for url")
	}
}

func primaryArtist(t models.TrackResult) string {
	if len(t.Artists.Primary) == 0 {
		return "unknown"
	}
	return t.Artists.Primary[0].Name
}
