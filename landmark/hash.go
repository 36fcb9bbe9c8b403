package landmark

import "github.com/soundtrace/engine/dsp"

// Pair is one landmark: the bit-packed hash of an anchor/target peak
// pair and the anchor's frame time, the unit the inverted index is
// queried and ranked by.
type Pair struct {
	Hash uint64
	Time int
}

// PackHash bit-packs an anchor frequency bin, a target frequency bin,
// and the absolute time delta between them into the 64-bit landmark
// hash: bits 63..48 the anchor bin, bits 47..16 the target bin's low
// 16 bits shifted left 16, bits 31..0 the time delta masked to 32
// bits. Bits 31..16 are shared between the target-bin field and the
// delta-time field — the overlap is intentional and must be
// reproduced exactly, since the index was built bit-for-bit this way;
// "fixing" it would break interoperability with existing stores.
func PackHash(anchorBin, targetBin int, absDeltaTime int) uint64 {
	hash := uint64(anchorBin) << 48
	hash |= (uint64(targetBin) & 0xFFFF) << 16
	hash |= uint64(absDeltaTime) & 0xFFFFFFFF
	return hash
}

// Pairs builds every anchor/target landmark pair for a track's peak
// set: for each peak, the anchorPoints nearest neighbors (in
// time/freq space, including the peak itself) are found via a k-d
// tree, the peak's own zero-distance match is skipped, and each
// remaining neighbor is packed into a hash anchored at that peak.
func Pairs(peaks []dsp.Peak, anchorPoints int) []Pair {
	if len(peaks) == 0 {
		return nil
	}

	pts := make([]point, len(peaks))
	for i, p := range peaks {
		pts[i] = point{time: float64(p.TimeMS), freq: float64(p.FreqHz), index: i}
	}
	tree := NewKDTree(pts)

	var out []Pair
	for _, anchor := range peaks {
		query := point{time: float64(anchor.TimeMS), freq: float64(anchor.FreqHz)}
		neighbors := tree.Nearest(query, anchorPoints)

		skippedSelf := false
		for _, n := range neighbors {
			if !skippedSelf && n.time == query.time && n.freq == query.freq {
				skippedSelf = true
				continue
			}
			deltaTime := int(n.time) - anchor.TimeMS
			if deltaTime < 0 {
				deltaTime = -deltaTime
			}
			hash := PackHash(anchor.FreqHz, int(n.freq), deltaTime)
			out = append(out, Pair{Hash: hash, Time: anchor.TimeMS})
		}
	}
	return dedupByHash(out)
}

// dedupByHash collapses pairs with equal hashes, keeping the last
// occurrence's time. This reproduces a deliberate information loss:
// within one track's ingest, only the most recent time anchored to a
// given hash survives.
func dedupByHash(pairs []Pair) []Pair {
	latest := make(map[uint64]int, len(pairs))
	order := make([]uint64, 0, len(pairs))
	for _, p := range pairs {
		if _, seen := latest[p.Hash]; !seen {
			order = append(order, p.Hash)
		}
		latest[p.Hash] = p.Time
	}

	out := make([]Pair, len(order))
	for i, h := range order {
		out[i] = Pair{Hash: h, Time: latest[h]}
	}
	return out
}
