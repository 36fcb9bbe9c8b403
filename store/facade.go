package store

import (
	"context"

	"github.com/soundtrace/engine/landmark"
)

// Combined composes a SQLite-backed inverted index with a
// Mongo-backed metadata table behind the single Store interface, so
// callers never need to know two separate backends are involved.
type Combined struct {
	Index    *SQLiteIndex
	Metadata *MongoMetadata
}

func (c *Combined) PutFingerprints(ctx context.Context, trackID string, pairs []landmark.Pair) error {
	return c.Index.PutFingerprints(ctx, trackID, pairs)
}

func (c *Combined) GetPostings(ctx context.Context, hash uint64) ([]Posting, error) {
	return c.Index.GetPostings(ctx, hash)
}

func (c *Combined) PutMetadata(ctx context.Context, trackID string, data []byte) error {
	return c.Metadata.PutMetadata(ctx, trackID, data)
}

func (c *Combined) GetMetadata(ctx context.Context, trackID string) ([]byte, error) {
	return c.Metadata.GetMetadata(ctx, trackID)
}

// Exists reports whether trackID has a metadata record, per §6's
// exists(track_id) -> bool operation.
func (c *Combined) Exists(ctx context.Context, trackID string) (bool, error) {
	return c.Metadata.Exists(ctx, trackID)
}

// DeleteTrack removes the track's metadata record only — posting sets
// in the index are left in place, per §4.6's deletion contract.
func (c *Combined) DeleteTrack(ctx context.Context, trackID string) error {
	return c.Metadata.DeleteTrack(ctx, trackID)
}

func (c *Combined) ListTracks(ctx context.Context) ([][]byte, error) {
	return c.Metadata.ListTracks(ctx)
}

func (c *Combined) Ping(ctx context.Context) error {
	if err := c.Index.Ping(ctx); err != nil {
		return err
	}
	return c.Metadata.Ping(ctx)
}

var _ Store = (*Combined)(nil)
