// Package store persists fingerprints and track metadata (component
// F): an inverted index from landmark hash to posting set, and a
// track metadata record keyed by track id.
package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/soundtrace/engine/landmark"
)

// Posting is one inverted-index hit: the catalog time (ms) a landmark
// hash occurred at, and the track it belongs to.
type Posting struct {
	TimeMS  int
	TrackID string
}

// String encodes a posting the way it is stored in the index set:
// "{time_ms}|{track_id}".
func (p Posting) String() string {
	return fmt.Sprintf("%d|%s", p.TimeMS, p.TrackID)
}

// ParsePosting decodes a "{time_ms}|{track_id}" set member, splitting
// only on the first separator so a track id containing "|" is not
// truncated.
func ParsePosting(s string) (Posting, error) {
	idx := strings.IndexByte(s, '|')
	if idx < 0 {
		return Posting{}, fmt.Errorf("malformed posting %q: missing separator", s)
	}
	timeMS, err := strconv.Atoi(s[:idx])
	if err != nil {
		return Posting{}, fmt.Errorf("malformed posting %q: %w", s, err)
	}
	return Posting{TimeMS: timeMS, TrackID: s[idx+1:]}, nil
}

// HashKey renders a landmark hash as the decimal string key postings
// are stored under.
func HashKey(hash uint64) string {
	return strconv.FormatUint(hash, 10)
}

// Store is the fingerprint store facade (component F): an inverted
// index plus a track metadata table, addressed through one interface
// regardless of which backend implements which half.
type Store interface {
	// PutFingerprints idempotently adds each pair's posting to the
	// set at its hash's key.
	PutFingerprints(ctx context.Context, trackID string, pairs []landmark.Pair) error

	// GetPostings returns every posting recorded under hash, in no
	// particular order.
	GetPostings(ctx context.Context, hash uint64) ([]Posting, error)

	// PutMetadata stores a track's serialized metadata record under
	// trackID, overwriting any prior record.
	PutMetadata(ctx context.Context, trackID string, data []byte) error

	// GetMetadata returns a track's serialized metadata record, or
	// ErrNotFound if no record exists for trackID.
	GetMetadata(ctx context.Context, trackID string) ([]byte, error)

	// Exists reports whether trackID has a metadata record, per §6's
	// exists(track_id) -> bool operation.
	Exists(ctx context.Context, trackID string) (bool, error)

	// DeleteTrack removes a track's metadata record. Per the store's
	// contract, posting sets referencing trackID are not rewritten —
	// deletion only makes the track's metadata unresolvable, it does
	// not prune the index.
	DeleteTrack(ctx context.Context, trackID string) error

	// ListTracks returns the serialized metadata record of every
	// track with a record still present.
	ListTracks(ctx context.Context) ([][]byte, error)

	// Ping verifies connectivity to the backing store(s).
	Ping(ctx context.Context) error
}

// ErrNotFound is returned by GetMetadata when no record exists for
// the requested track id.
var ErrNotFound = fmt.Errorf("store: metadata not found")
