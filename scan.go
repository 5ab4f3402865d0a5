package triscan

// matchAll stands in for a nil predicate.
func matchAll[R any](R) bool { return true }

// QueryPredicate scans every record under the given strategy and returns
// those matching pred. A nil pred matches everything. All strategies return
// the same set of records for the same input; ordering is unspecified, since
// workers merge their partials in completion order.
func QueryPredicate[R any](e *Engine, c *Collection[R], strategy Strategy, pred func(R) bool) []R {
	if pred == nil {
		pred = matchAll[R]
	}

	records := c.Records()
	return RunRange(e, len(records), strategy,
		func(acc []R, i int) []R {
			if pred(records[i]) {
				acc = append(acc, records[i])
			}
			return acc
		},
		func(into, part []R) []R {
			return append(into, part...)
		})
}

// Aggregate reduces the records matching pred to a single value of type A.
// fold runs once per matching record inside a worker, starting from the zero
// value of A; combine folds one worker's state into the shared state at merge
// time and must be associative and commutative, since sub-aggregates combine
// in completion order. A nil pred matches everything.
func Aggregate[R, A any](e *Engine, c *Collection[R], strategy Strategy, pred func(R) bool, fold func(A, R) A, combine func(A, A) A) A {
	if pred == nil {
		pred = matchAll[R]
	}

	records := c.Records()
	return RunRange(e, len(records), strategy,
		func(acc A, i int) A {
			if pred(records[i]) {
				acc = fold(acc, records[i])
			}
			return acc
		},
		combine)
}

// Summarize aggregates value(record) over the records matching pred into a
// Summary. A nil pred summarizes every record.
func Summarize[R any](e *Engine, c *Collection[R], strategy Strategy, pred func(R) bool, value func(R) float64) Summary {
	return Aggregate(e, c, strategy, pred,
		func(s Summary, r R) Summary {
			return s.Observe(value(r))
		},
		Summary.Merge)
}
