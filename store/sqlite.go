package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soundtrace/engine/landmark"
	xerrors "github.com/soundtrace/engine/xerrors"
)

// SQLiteIndex is the inverted-index half of the store: a hash →
// posting-set table backed by SQLite. The set semantics the original
// index relies on (idempotent add, no duplicate postings) are
// emulated with a unique composite key and `INSERT OR IGNORE`.
type SQLiteIndex struct {
	db *sql.DB
}

// OpenSQLiteIndex opens (creating if needed) the SQLite database at
// path and ensures the postings table/index exist.
func OpenSQLiteIndex(path string) (*SQLiteIndex, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, xerrors.New(xerrors.KindStore, "open sqlite index", err)
	}

	schema := `
CREATE TABLE IF NOT EXISTS postings (
	hash_key   TEXT NOT NULL,
	time_ms    INTEGER NOT NULL,
	track_id   TEXT NOT NULL,
	UNIQUE(hash_key, time_ms, track_id)
);
CREATE INDEX IF NOT EXISTS idx_postings_hash ON postings(hash_key);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, xerrors.New(xerrors.KindStore, "migrate sqlite index schema", err)
	}

	return &SQLiteIndex{db: db}, nil
}

// PutFingerprints inserts one row per landmark pair, ignoring
// duplicates on the (hash, time, track) key so repeated ingest of the
// same track is idempotent at the posting-set level.
func (s *SQLiteIndex) PutFingerprints(ctx context.Context, trackID string, pairs []landmark.Pair) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return xerrors.New(xerrors.KindStore, "begin fingerprint tx", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO postings(hash_key, time_ms, track_id) VALUES (?, ?, ?)`)
	if err != nil {
		return xerrors.New(xerrors.KindStore, "prepare fingerprint insert", err)
	}
	defer stmt.Close()

	for _, p := range pairs {
		if _, err := stmt.ExecContext(ctx, HashKey(p.Hash), p.Time, trackID); err != nil {
			return xerrors.New(xerrors.KindStore, "insert posting", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return xerrors.New(xerrors.KindStore, "commit fingerprint tx", err)
	}
	return nil
}

// GetPostings returns every posting recorded under hash.
func (s *SQLiteIndex) GetPostings(ctx context.Context, hash uint64) ([]Posting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT time_ms, track_id FROM postings WHERE hash_key = ?`, HashKey(hash))
	if err != nil {
		return nil, xerrors.New(xerrors.KindStore, "query postings", err)
	}
	defer rows.Close()

	var out []Posting
	for rows.Next() {
		var p Posting
		if err := rows.Scan(&p.TimeMS, &p.TrackID); err != nil {
			return nil, xerrors.New(xerrors.KindStore, "scan posting row", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.New(xerrors.KindStore, "iterate posting rows", err)
	}
	return out, nil
}

// DeletePostingsForTrack removes every posting row for trackID. The
// Store contract does not require this on DeleteTrack (postings are
// deliberately left in place), and neither DeleteTrack nor ingest
// calls it.
func (s *SQLiteIndex) DeletePostingsForTrack(ctx context.Context, trackID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM postings WHERE track_id = ?`, trackID); err != nil {
		return xerrors.New(xerrors.KindStore, "delete postings for track", err)
	}
	return nil
}

// Ping verifies the SQLite connection is usable.
func (s *SQLiteIndex) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return xerrors.New(xerrors.KindStore, "ping sqlite index", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}

var _ fmt.Stringer = Posting{}
