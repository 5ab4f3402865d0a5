package triscan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type reading struct {
	Station string
	Value   float64
}

func newReadingCollection(n int) *Collection[reading] {
	col := NewCollection[reading]()
	records := make([]reading, n)
	for i := range records {
		station := "east"
		if i%2 == 0 {
			station = "west"
		}
		records[i] = reading{Station: station, Value: float64(i)}
	}
	col.Append(records...)
	return col
}

func TestQueryPredicateAcrossStrategies(t *testing.T) {
	col := newReadingCollection(100)
	engine := newTestEngine(t, 4, DefaultChunkFactor)

	var expected []float64
	for _, r := range col.Records() {
		if r.Value >= 50 {
			expected = append(expected, r.Value)
		}
	}

	for _, strategy := range Strategies() {
		t.Run(strategy.String(), func(t *testing.T) {
			matches := QueryPredicate(engine, col, strategy, func(r reading) bool { return r.Value >= 50 })
			values := make([]float64, 0, len(matches))
			for _, m := range matches {
				values = append(values, m.Value)
			}
			assert.ElementsMatch(t, expected, values, "All strategies should return the same match set")
		})
	}
}

func TestQueryPredicateNilMatchesEverything(t *testing.T) {
	col := newReadingCollection(25)
	engine := newTestEngine(t, 4, DefaultChunkFactor)

	matches := QueryPredicate(engine, col, StrategyDataParallel, nil)
	assert.Len(t, matches, 25, "Nil predicate should return every record")
}

func TestQueryPredicateEmptyCollection(t *testing.T) {
	col := NewCollection[reading]()
	engine := newTestEngine(t, 4, DefaultChunkFactor)

	for _, strategy := range Strategies() {
		matches := QueryPredicate(engine, col, strategy, func(reading) bool { return true })
		assert.Empty(t, matches, "Empty collection should return no matches under %s", strategy)
	}
}

func TestAggregateSum(t *testing.T) {
	const n = 200
	col := newReadingCollection(n)
	engine := newTestEngine(t, 8, DefaultChunkFactor)

	expected := float64(n*(n-1)) / 2

	for _, strategy := range Strategies() {
		sum := Aggregate(engine, col, strategy, nil,
			func(acc float64, r reading) float64 { return acc + r.Value },
			func(a, b float64) float64 { return a + b },
		)
		if sum != expected {
			t.Fatalf("Strategy %s: expected sum %.0f, got %.0f", strategy, expected, sum)
		}
	}
}

func TestAggregateWithPredicate(t *testing.T) {
	col := newReadingCollection(100)
	engine := newTestEngine(t, 4, DefaultChunkFactor)

	west := MatchString(func(r reading) string { return r.Station }, StringEquals("west"))
	count := Aggregate(engine, col, StrategyCentralizedQueue, west,
		func(acc int, r reading) int { return acc + 1 },
		func(a, b int) int { return a + b },
	)
	assert.Equal(t, 50, count, "Half the readings belong to the west station")
}

func TestSummarizeAcrossStrategies(t *testing.T) {
	col := newReadingCollection(100)
	engine := newTestEngine(t, 4, DefaultChunkFactor)

	for _, strategy := range Strategies() {
		s := Summarize(engine, col, strategy, nil, func(r reading) float64 { return r.Value })
		assert.Equal(t, int64(100), s.Count, "Count should match under %s", strategy)
		assert.Equal(t, float64(0), s.Min, "Min should match under %s", strategy)
		assert.Equal(t, float64(99), s.Max, "Max should match under %s", strategy)
		assert.InDelta(t, 49.5, s.Mean(), 1e-9, "Mean should match under %s", strategy)
	}
}

func TestSummarizeWithPredicate(t *testing.T) {
	col := newReadingCollection(10)
	engine := newTestEngine(t, 2, DefaultChunkFactor)

	s := Summarize(engine, col, StrategyRoundRobin,
		MatchNumeric(func(r reading) float64 { return r.Value }, NumericBetween(3, 6)),
		func(r reading) float64 { return r.Value },
	)
	assert.Equal(t, int64(4), s.Count)
	assert.Equal(t, float64(3), s.Min)
	assert.Equal(t, float64(6), s.Max)
	assert.Equal(t, float64(18), s.Sum)
}

func TestSummarizeEmptyMatchSet(t *testing.T) {
	col := newReadingCollection(10)
	engine := newTestEngine(t, 4, DefaultChunkFactor)

	s := Summarize(engine, col, StrategyDataParallel, func(reading) bool { return false }, func(r reading) float64 { return r.Value })
	assert.Equal(t, Summary{}, s, "No matches should yield the zero summary")
	assert.Equal(t, float64(0), s.Mean(), "Mean of an empty summary is zero")
}

func TestSummaryObserve(t *testing.T) {
	var s Summary
	for _, v := range []float64{3, -1, 4, 1.5} {
		s = s.Observe(v)
	}

	assert.Equal(t, int64(4), s.Count)
	assert.Equal(t, float64(-1), s.Min)
	assert.Equal(t, float64(4), s.Max)
	assert.InDelta(t, 7.5, s.Sum, 1e-9)
}

func TestSummaryMergeIdentity(t *testing.T) {
	s := Summary{}.Observe(2).Observe(8)

	assert.Equal(t, s, s.Merge(Summary{}), "Zero summary should be the right identity")
	assert.Equal(t, s, Summary{}.Merge(s), "Zero summary should be the left identity")
}

func TestSummaryMergeCommutes(t *testing.T) {
	a := Summary{}.Observe(1).Observe(5)
	b := Summary{}.Observe(-3).Observe(10)

	assert.Equal(t, a.Merge(b), b.Merge(a), "Merge order should not matter")

	merged := a.Merge(b)
	assert.Equal(t, int64(4), merged.Count)
	assert.Equal(t, float64(-3), merged.Min)
	assert.Equal(t, float64(10), merged.Max)
	assert.True(t, math.Abs(merged.Sum-13) < 1e-9)
}
