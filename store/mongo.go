package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	xerrors "github.com/soundtrace/engine/xerrors"
)

// trackDoc is the Mongo document shape for a track metadata record:
// the track id as _id, plus the raw serialized payload the catalog
// layer produced.
type trackDoc struct {
	ID      string `bson:"_id"`
	Payload []byte `bson:"payload"`
}

// MongoMetadata is the track-metadata half of the store: one document
// per track, keyed by track id, matching §4.6's `song:{id}` namespace
// but realized as a Mongo collection rather than a flat KV key.
type MongoMetadata struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// OpenMongoMetadata connects to uri and returns a metadata store
// backed by database/collection.
func OpenMongoMetadata(ctx context.Context, uri, database, collection string) (*MongoMetadata, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, xerrors.New(xerrors.KindStore, "connect mongo metadata store", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, xerrors.New(xerrors.KindStore, "ping mongo metadata store", err)
	}
	return &MongoMetadata{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// PutMetadata upserts a track's serialized metadata payload.
func (m *MongoMetadata) PutMetadata(ctx context.Context, trackID string, data []byte) error {
	_, err := m.collection.UpdateOne(
		ctx,
		bson.M{"_id": trackID},
		bson.M{"$set": trackDoc{ID: trackID, Payload: data}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return xerrors.New(xerrors.KindStore, "put track metadata", err)
	}
	return nil
}

// GetMetadata fetches a track's serialized metadata payload.
func (m *MongoMetadata) GetMetadata(ctx context.Context, trackID string) ([]byte, error) {
	var doc trackDoc
	err := m.collection.FindOne(ctx, bson.M{"_id": trackID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, xerrors.New(xerrors.KindStore, "get track metadata", err)
	}
	return doc.Payload, nil
}

// Exists reports whether trackID has a metadata document, per §6's
// exists(track_id) -> bool operation, backed by GetMetadata/ErrNotFound.
func (m *MongoMetadata) Exists(ctx context.Context, trackID string) (bool, error) {
	_, err := m.GetMetadata(ctx, trackID)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteTrack removes a track's metadata document. Posting sets in
// the inverted index are untouched — deletion here only makes the
// track unresolvable in match results and list_all, per §4.6.
func (m *MongoMetadata) DeleteTrack(ctx context.Context, trackID string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": trackID}); err != nil {
		return xerrors.New(xerrors.KindStore, "delete track metadata", err)
	}
	return nil
}

// ListTracks returns every track's serialized metadata payload.
func (m *MongoMetadata) ListTracks(ctx context.Context) ([][]byte, error) {
	cur, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, xerrors.New(xerrors.KindStore, "list track metadata", err)
	}
	defer cur.Close(ctx)

	var out [][]byte
	for cur.Next(ctx) {
		var doc trackDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, xerrors.New(xerrors.KindStore, "decode track metadata", err)
		}
		out = append(out, doc.Payload)
	}
	if err := cur.Err(); err != nil {
		return nil, xerrors.New(xerrors.KindStore, "iterate track metadata", err)
	}
	return out, nil
}

// Ping verifies the Mongo connection is usable.
func (m *MongoMetadata) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, nil); err != nil {
		return xerrors.New(xerrors.KindStore, "ping mongo metadata store", err)
	}
	return nil
}

// Close disconnects the Mongo client.
func (m *MongoMetadata) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
