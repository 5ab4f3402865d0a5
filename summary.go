package triscan

// Summary accumulates the count, sum, minimum and maximum of observed values.
// The zero value is an empty summary and the identity element for Merge.
type Summary struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
}

// Observe folds one value into the summary and returns the updated summary.
func (s Summary) Observe(v float64) Summary {
	if s.Count == 0 {
		return Summary{Count: 1, Sum: v, Min: v, Max: v}
	}

	s.Count++
	s.Sum += v
	if v < s.Min {
		s.Min = v
	}
	if v > s.Max {
		s.Max = v
	}
	return s
}

// Merge combines two summaries. Merge is associative and commutative, so
// worker partials can combine in any completion order.
func (s Summary) Merge(other Summary) Summary {
	if s.Count == 0 {
		return other
	}
	if other.Count == 0 {
		return s
	}

	merged := Summary{
		Count: s.Count + other.Count,
		Sum:   s.Sum + other.Sum,
		Min:   s.Min,
		Max:   s.Max,
	}
	if other.Min < merged.Min {
		merged.Min = other.Min
	}
	if other.Max > merged.Max {
		merged.Max = other.Max
	}
	return merged
}

// Mean returns Sum/Count, or 0 for an empty summary.
func (s Summary) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}
