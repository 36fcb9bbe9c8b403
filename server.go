package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soundtrace/engine/ingest"
	"github.com/soundtrace/engine/models"
	"github.com/soundtrace/engine/utils"
)

const maxUploadSize = 5000 << 20 // 5 GB

type indexResponse struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	TrackID      string `json:"trackId"`
	Fingerprints int    `json:"fingerprints"`
}

type matchResult struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Count    int    `json:"count"`
	TimeDiff int    `json:"timeDiff"`
}

type statsResponse struct {
	TotalEntries int `json:"totalEntries"`
}

type entryResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

func serve(protocol, port string) {
	protocol = strings.ToLower(protocol)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/index", handleIndex)
	mux.HandleFunc("/api/match", handleMatch)
	mux.HandleFunc("/api/stats", handleStats)
	mux.HandleFunc("/api/entries", handleEntries)
	mux.HandleFunc("/api/exists", handleExists)
	mux.HandleFunc("/api/ping", handlePing)

	mux.Handle("/", http.FileServer(http.Dir("static")))

	handler := requestLogger(corsMiddleware(mux))

	log.Printf("starting server on port %s (%s)\n", port, protocol)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(rec, r)

		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Printf("[http] %s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
		}
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	log.Printf("[error] %d: %s", status, msg)
	writeJSON(w, status, map[string]string{"error": msg})
}

func saveUploadedFile(r *http.Request) (string, string, int64, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", 0, fmt.Errorf("no file provided: %w", err)
	}
	defer file.Close()

	if err := utils.CreateFolder("tmp"); err != nil {
		return "", "", 0, fmt.Errorf("failed to create tmp dir: %w", err)
	}

	tmpPath := filepath.Join("tmp", header.Filename)
	dst, err := os.Create(tmpPath)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return tmpPath, header.Filename, written, nil
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reqStart := time.Now()
	log.Printf("[index] received request from %s", r.RemoteAddr)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	tmpPath, filename, fileSize, err := saveUploadedFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer os.Remove(tmpPath)

	log.Printf("[index] file saved: %s (%s)", filename, formatBytes(fileSize))

	title := r.FormValue("title")
	author := r.FormValue("author")
	if title == "" {
		title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	if author == "" {
		author = "unknown"
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	trackID, err := ingest.NewTrackID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mint track id")
		return
	}

	track := models.TrackResult{
		ID:   trackID,
		Name: title,
		Type: "upload",
		Artists: models.Artists{
			Primary: []models.Artist{{Name: author}},
			All:     []models.Artist{{Name: author}},
		},
	}

	ctx := r.Context()
	st, err := newStore(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}

	if err := ingest.IngestTrack(ctx, st, data, track, fpConfig); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := indexResponse{
		Title:   title,
		Author:  author,
		TrackID: trackID,
	}

	log.Printf("[index] completed %q in %s", title, time.Since(reqStart))
	writeJSON(w, http.StatusOK, resp)
}

func handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reqStart := time.Now()
	log.Printf("[match] received request from %s", r.RemoteAddr)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	tmpPath, filename, fileSize, err := saveUploadedFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer os.Remove(tmpPath)

	log.Printf("[match] file saved: %s (%s)", filename, formatBytes(fileSize))

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	ctx := r.Context()
	st, err := newStore(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}

	candidates, err := ingest.Query(ctx, st, data, fpConfig)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("match error: %v", err))
		return
	}

	results := make([]matchResult, 0, len(candidates))
	for _, c := range candidates {
		var track models.TrackResult
		_ = jsonUnmarshalTrack(c.Metadata, &track)
		results = append(results, matchResult{
			Title:    track.Name,
			Author:   primaryArtist(track),
			Count:    c.Count,
			TimeDiff: c.TimeDiff,
		})
	}

	log.Printf("[match] completed in %s, returning %d results", time.Since(reqStart), len(results))
	writeJSON(w, http.StatusOK, map[string]any{
		"matches":      results,
		"searchTimeMs": time.Since(reqStart).Milliseconds(),
	})
}

func handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := r.Context()
	st, err := newStore(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}

	tracks, err := st.ListTracks(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tracks")
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{TotalEntries: len(tracks)})
}

func handleEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := r.Context()
	st, err := newStore(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}

	payloads, err := st.ListTracks(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries")
		return
	}

	entries := make([]entryResponse, 0, len(payloads))
	for _, payload := range payloads {
		var track models.TrackResult
		if jsonUnmarshalTrack(payload, &track) != nil {
			continue
		}
		entries = append(entries, entryResponse{ID: track.ID, Title: track.Name, Author: primaryArtist(track)})
	}

	writeJSON(w, http.StatusOK, entries)
}

func handleExists(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	trackID := r.URL.Query().Get("id")
	if trackID == "" {
		writeError(w, http.StatusBadRequest, "missing id query parameter")
		return
	}

	ctx := r.Context()
	st, err := newStore(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}

	ok, err := st.Exists(ctx, trackID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check existence")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"exists": ok})
}

func handlePing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := newStore(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}
	if err := st.Ping(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "ping failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
