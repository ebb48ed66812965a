package market

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomWalkShape(t *testing.T) {
	now := time.Date(2025, 6, 11, 14, 3, 27, 0, time.UTC)
	series := RandomWalk(now, DefaultPoints, rand.New(rand.NewSource(42)))

	require.Len(t, series, 20)
	assert.Equal(t, "12:23", series[0].Time)
	assert.Equal(t, "13:58", series[19].Time)

	prev := StartPrice
	for i, p := range series {
		// each step moves at most 0.25 (plus rounding)
		assert.LessOrEqual(t, math.Abs(p.Value-prev), 0.2502, "point %d", i)
		assert.Equal(t, p.Value, math.Round(p.Value*1e4)/1e4, "point %d has more than 4 decimals", i)
		prev = p.Value
	}
	assert.InDelta(t, StartPrice, series[19].Value, 5.0)
}

func TestRandomWalkIsDeterministicForSeed(t *testing.T) {
	now := time.Date(2025, 6, 11, 14, 0, 0, 0, time.UTC)

	a := RandomWalk(now, 20, rand.New(rand.NewSource(7)))
	b := RandomWalk(now, 20, rand.New(rand.NewSource(7)))
	c := RandomWalk(now, 20, rand.New(rand.NewSource(8)))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestRandomWalkUsesUTCLabels(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2025, 6, 11, 17, 0, 0, 0, zone)

	series := RandomWalk(now, 1, rand.New(rand.NewSource(1)))
	require.Len(t, series, 1)
	assert.Equal(t, "13:55", series[0].Time)
}

func TestRandomWalkEmpty(t *testing.T) {
	series := RandomWalk(time.Now(), 0, rand.New(rand.NewSource(1)))
	assert.NotNil(t, series)
	assert.Empty(t, series)
}
