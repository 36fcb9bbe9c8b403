// Package match scores a query's landmark hashes against the
// inverted index and ranks the surviving candidate tracks (component
// G).
package match

import (
	"context"
	"sort"

	"github.com/soundtrace/engine/landmark"
	"github.com/soundtrace/engine/store"
	xerrors "github.com/soundtrace/engine/xerrors"
)

// querySentinel is the track id the query's own hits are accumulated
// under inside songTimes, mirroring the sentinel key used when the
// query is treated as just another candidate's hit list.
const querySentinel = "tmp"

// minCandidateCount is the number of catalog timestamps a candidate
// must have (at least 10) where every one of ANCHOR_POINTS-1 non-self
// neighbors of some anchor co-occurred; the constant is the minimum
// candidate volume, not configurable per the matcher's contract.
const minCandidateCount = 10

type hashTime struct {
	hash uint64
	time int
}

// Candidate is one scored, resolved match result.
type Candidate struct {
	TrackID  string
	Count    int
	TimeDiff int
	Metadata []byte
}

// Match scores queryPairs (the query audio's own landmark pairs)
// against st's inverted index and returns up to the top 5 candidates,
// their metadata resolved. anchorPoints is the configured fan-out
// (ANCHOR_POINTS) used to define "fully co-located" anchors.
func Match(ctx context.Context, st store.Store, queryPairs []landmark.Pair, anchorPoints int) ([]Candidate, error) {
	anchors := make(map[string]map[int]int)
	songTimes := make(map[string][]hashTime)

	for _, qp := range queryPairs {
		postings, err := st.GetPostings(ctx, qp.Hash)
		if err != nil {
			return nil, xerrors.New(xerrors.KindStore, "fetch postings for query hash", err)
		}

		for _, p := range postings {
			if anchors[p.TrackID] == nil {
				anchors[p.TrackID] = make(map[int]int)
			}
			anchors[p.TrackID][p.TimeMS]++
			songTimes[p.TrackID] = append(songTimes[p.TrackID], hashTime{hash: qp.Hash, time: p.TimeMS})
		}

		songTimes[querySentinel] = append(songTimes[querySentinel], hashTime{hash: qp.Hash, time: qp.Time})
	}

	queryHits := songTimes[querySentinel]

	type scored struct {
		trackID  string
		count    int
		timeDiff int
	}
	var candidates []scored

	for trackID, hits := range anchors {
		if trackID == querySentinel {
			continue
		}

		count := 0
		for _, n := range hits {
			if n == anchorPoints-1 {
				count++
			}
		}
		if count < minCandidateCount {
			continue
		}

		timeDiff := coherence(songTimes[trackID], queryHits)
		candidates = append(candidates, scored{trackID: trackID, count: count, timeDiff: timeDiff})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.timeDiff != b.timeDiff {
			return a.timeDiff < b.timeDiff
		}
		return a.count < b.count
	})
	reverse(candidates)

	if len(candidates) > 5 {
		candidates = candidates[:5]
	}

	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		data, err := st.GetMetadata(ctx, c.trackID)
		if err == store.ErrNotFound {
			return nil, xerrors.New(xerrors.KindMatch, "metadata missing for surviving candidate "+c.trackID, err)
		}
		if err != nil {
			return nil, xerrors.New(xerrors.KindStore, "resolve candidate metadata", err)
		}
		out = append(out, Candidate{TrackID: c.trackID, Count: c.count, TimeDiff: c.timeDiff, Metadata: data})
	}
	return out, nil
}

// coherence pairs candidateHits with queryHits by index (not by sorted
// time — the pairing is deliberately order-sensitive, reproducing the
// source's ambiguous behavior rather than imposing a stable sort
// neither side chose), keeps only the index-aligned pairs whose hashes
// agree, and counts sliding windows of 2 over the surviving pairs
// where the two sides' time deltas agree within 100 ms.
func coherence(candidateHits, queryHits []hashTime) int {
	n := len(candidateHits)
	if len(queryHits) < n {
		n = len(queryHits)
	}

	type timePair struct{ candidate, query int }
	var aligned []timePair
	for i := 0; i < n; i++ {
		if candidateHits[i].hash == queryHits[i].hash {
			aligned = append(aligned, timePair{candidateHits[i].time, queryHits[i].time})
		}
	}
	if len(aligned) < 2 {
		return 0
	}

	timeDiff := 0
	for i := 0; i < len(aligned)-1; i++ {
		deltaCat := abs(aligned[i].candidate - aligned[i+1].candidate)
		deltaQuery := abs(aligned[i].query - aligned[i+1].query)
		if abs(deltaCat-deltaQuery) < 100 {
			timeDiff++
		}
	}
	return timeDiff
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
