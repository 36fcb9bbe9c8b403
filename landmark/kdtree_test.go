package landmark

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKDTreeNearestFindsClosest(t *testing.T) {
	pts := []point{
		{time: 0, freq: 0, index: 0},
		{time: 10, freq: 10, index: 1},
		{time: 1, freq: 1, index: 2},
		{time: 100, freq: 100, index: 3},
	}
	tree := NewKDTree(pts)

	result := tree.Nearest(point{time: 0, freq: 0}, 1)
	require.Len(t, result, 1)
	assert.Equal(t, 0, result[0].index)
}

func TestKDTreeNearestKReturnsSortedBySquaredDistance(t *testing.T) {
	pts := []point{
		{time: 0, freq: 0, index: 0},
		{time: 5, freq: 0, index: 1},
		{time: 2, freq: 0, index: 2},
		{time: 9, freq: 0, index: 3},
	}
	tree := NewKDTree(pts)

	result := tree.Nearest(point{time: 0, freq: 0}, 3)
	require.Len(t, result, 3)

	var lastDist float64 = -1
	for _, p := range result {
		d := sqDist(p, point{time: 0, freq: 0})
		assert.GreaterOrEqual(t, d, lastDist)
		lastDist = d
	}
	assert.Equal(t, 0, result[0].index)
	assert.Equal(t, 2, result[1].index)
	assert.Equal(t, 1, result[2].index)
}

func TestKDTreeNearestClampsToTreeSize(t *testing.T) {
	pts := []point{{time: 0, freq: 0, index: 0}}
	tree := NewKDTree(pts)
	result := tree.Nearest(point{time: 5, freq: 5}, 10)
	assert.Len(t, result, 1)
}

func TestKDTreeEmptyTree(t *testing.T) {
	tree := NewKDTree(nil)
	result := tree.Nearest(point{time: 0, freq: 0}, 5)
	assert.Empty(t, result)
}

func TestSqDist(t *testing.T) {
	d := sqDist(point{time: 0, freq: 0}, point{time: 3, freq: 4})
	assert.InDelta(t, 25.0, d, 1e-9)
	assert.InDelta(t, 5.0, math.Sqrt(d), 1e-9)
}
