package ingest

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundtrace/engine/config"
	"github.com/soundtrace/engine/landmark"
	"github.com/soundtrace/engine/models"
	"github.com/soundtrace/engine/store"
)

// fakeStore is a minimal in-memory store.Store for exercising the
// ingest pipeline without a real SQLite/Mongo backend.
type fakeStore struct {
	postings map[uint64][]store.Posting
	metadata map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{postings: make(map[uint64][]store.Posting), metadata: make(map[string][]byte)}
}

func (f *fakeStore) PutFingerprints(ctx context.Context, trackID string, pairs []landmark.Pair) error {
	for _, p := range pairs {
		f.postings[p.Hash] = append(f.postings[p.Hash], store.Posting{TimeMS: p.Time, TrackID: trackID})
	}
	return nil
}

func (f *fakeStore) GetPostings(ctx context.Context, hash uint64) ([]store.Posting, error) {
	return f.postings[hash], nil
}

func (f *fakeStore) PutMetadata(ctx context.Context, trackID string, data []byte) error {
	f.metadata[trackID] = data
	return nil
}

func (f *fakeStore) GetMetadata(ctx context.Context, trackID string) ([]byte, error) {
	data, ok := f.metadata[trackID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (f *fakeStore) Exists(ctx context.Context, trackID string) (bool, error) {
	_, ok := f.metadata[trackID]
	return ok, nil
}

func (f *fakeStore) DeleteTrack(ctx context.Context, trackID string) error {
	delete(f.metadata, trackID)
	return nil
}

func (f *fakeStore) ListTracks(ctx context.Context) ([][]byte, error) {
	out := make([][]byte, 0, len(f.metadata))
	for _, v := range f.metadata {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

var _ store.Store = (*fakeStore)(nil)

func buildSineWAV(sampleRate int, freqHz float64, seconds float64) []byte {
	n := int(float64(sampleRate) * seconds)
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(10000 * math.Sin(2*math.Pi*freqHz*float64(i)/float64(sampleRate)))
	}

	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}

	const bitsPerSample, numChannels = 16, 1
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := data.Len()

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(data.Bytes())
	return buf.Bytes()
}

func smallTestConfig() config.Config {
	return config.Config{
		SampleRate:      8000,
		DownsampleRatio: 1,
		NumBins:         256,
		HopSize:         128,
		Bands:           [][2]int{{0, 500}, {500, 1000}, {1000, 2000}, {2000, 4000}},
		AnchorPoints:    3,
	}
}

func TestFingerprintSustainedToneProducesPairs(t *testing.T) {
	wav := buildSineWAV(8000, 440, 2.0)
	pairs, err := Fingerprint(wav, smallTestConfig())
	require.NoError(t, err)
	assert.NotEmpty(t, pairs)
}

func TestFingerprintSilenceProducesNoPairs(t *testing.T) {
	wav := buildSineWAV(8000, 0, 1.0) // amplitude 0 throughout
	pairs, err := Fingerprint(wav, smallTestConfig())
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestIngestTrackPublishesFingerprintsAndMetadata(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	wav := buildSineWAV(8000, 440, 2.0)

	track := models.TrackResult{ID: "track-1", Name: "Test Tone"}
	require.NoError(t, IngestTrack(ctx, st, wav, track, smallTestConfig()))

	stored, ok := st.metadata["track-1"]
	require.True(t, ok)
	assert.Contains(t, string(stored), "Test Tone")

	foundPosting := false
	for _, postings := range st.postings {
		for _, p := range postings {
			if p.TrackID == "track-1" {
				foundPosting = true
			}
		}
	}
	assert.True(t, foundPosting, "expected at least one posting for the ingested track")
}

func TestExistsFalseAfterIngestThenDelete(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	wav := buildSineWAV(8000, 440, 2.0)

	track := models.TrackResult{ID: "track-1", Name: "Test Tone"}
	require.NoError(t, IngestTrack(ctx, st, wav, track, smallTestConfig()))

	ok, err := st.Exists(ctx, track.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, st.DeleteTrack(ctx, track.ID))

	ok, err = st.Exists(ctx, track.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueryOnEmptyStoreReturnsNoCandidates(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	wav := buildSineWAV(8000, 440, 2.0)

	candidates, err := Query(ctx, st, wav, smallTestConfig())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestQueryOnSilenceReturnsNilWithoutTouchingStore(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	wav := buildSineWAV(8000, 0, 1.0)

	candidates, err := Query(ctx, st, wav, smallTestConfig())
	require.NoError(t, err)
	assert.Nil(t, candidates)
}

func TestFingerprintRejectsUnrecognizedContainer(t *testing.T) {
	_, err := Fingerprint([]byte{0x00, 0x01, 0x02, 0x03}, smallTestConfig())
	assert.Error(t, err)
}

func TestNewTrackIDIsUnique(t *testing.T) {
	a, err := NewTrackID()
	require.NoError(t, err)
	b, err := NewTrackID()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}
