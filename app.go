package main

import (
	"context"
	"fmt"

	"github.com/soundtrace/engine/config"
	"github.com/soundtrace/engine/store"
	"github.com/soundtrace/engine/utils"
)

// fpConfig is the fingerprint profile every ingest/query call runs
// with: the Shazam-style short-clip parameters of §4.3/4.4/4.5,
// matching the bit layout the store's index is keyed on exactly.
var fpConfig = config.MusicConfig()

// newStore opens the SQLite-backed inverted index and the
// Mongo-backed metadata table and composes them behind one Store
// facade, per §4.6.
func newStore(ctx context.Context) (*store.Combined, error) {
	sqlitePath := utils.GetEnv("SOUNDTRACE_SQLITE_PATH", "tmp/index.db")
	index, err := store.OpenSQLiteIndex(sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("open inverted index: %w", err)
	}

	mongoURI := utils.GetEnv("SOUNDTRACE_MONGO_URI", "mongodb://localhost:27017")
	mongoDB := utils.GetEnv("SOUNDTRACE_MONGO_DB", "soundtrace")
	mongoCollection := utils.GetEnv("SOUNDTRACE_MONGO_COLLECTION", "tracks")
	metadata, err := store.OpenMongoMetadata(ctx, mongoURI, mongoDB, mongoCollection)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("open metadata store: %w", err)
	}

	return &store.Combined{Index: index, Metadata: metadata}, nil
}
