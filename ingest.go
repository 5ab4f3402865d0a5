package triscan

import (
	"fmt"
	"time"
)

// MapFunc converts one row of fields into a record. Returning false skips the
// row, which is how mappers drop malformed and header rows.
type MapFunc[R any] func(fields []string) (R, bool)

// LoadEvent reports the outcome of one input during a load.
type LoadEvent struct {
	Path    string
	Records int
	Err     error
}

// LoadStats summarizes one batch load. Files counts inputs that loaded;
// FailedFiles counts inputs that were skipped because they could not be read.
type LoadStats struct {
	Files       int
	Records     int
	SkippedRows int
	FailedFiles int
	Bytes       int64
	Duration    time.Duration
}

func (s LoadStats) add(other LoadStats) LoadStats {
	s.Files += other.Files
	s.Records += other.Records
	s.SkippedRows += other.SkippedRows
	s.FailedFiles += other.FailedFiles
	s.Bytes += other.Bytes
	return s
}

// String renders the stats with human-readable rates.
func (s LoadStats) String() string {
	return fmt.Sprintf("%d files, %d records in %s (%s records/s, %s, %d rows skipped, %d files failed)",
		s.Files, s.Records, s.Duration,
		FormatRate(int64(s.Records), s.Duration), FormatBytesPerSecond(s.Bytes, s.Duration),
		s.SkippedRows, s.FailedFiles)
}

// TrySend offers a value to a channel without blocking. Returns true if the
// value was accepted, false if the channel is nil, full, or nobody is
// listening.
func TrySend[T any](ch chan<- T, value T) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- value:
		return true
	default:
		return false
	}
}

// Loader runs the ingestion side of a batch: it lists inputs from Source,
// loads and maps them under a strategy, appends the merged records into a
// collection, and rebuilds the collection's indexes. Engine, Source, and Map
// must be set; Filter and Progress are optional.
type Loader[R any] struct {
	Source RecordSource
	Map    MapFunc[R]
	Engine *Engine

	// Filter, when set, keeps only the inputs it returns true for.
	Filter func(path string) bool

	// Progress, when set, receives one LoadEvent per input. Events are
	// offered without blocking and are dropped if the receiver lags.
	Progress chan<- LoadEvent
}

// loadPartial is one worker's accumulated ingest output.
type loadPartial[R any] struct {
	records []R
	stats   LoadStats
}

// LoadInto loads every input under path into col. See LoadFiles.
func (l *Loader[R]) LoadInto(col *Collection[R], path string, strategy Strategy) (LoadStats, error) {
	inputs, err := l.Source.ListInputs(path)
	if err != nil {
		return LoadStats{}, err
	}

	if l.Filter != nil {
		kept := inputs[:0]
		for _, input := range inputs {
			if l.Filter(input) {
				kept = append(kept, input)
			}
		}
		inputs = kept
	}
	return l.LoadFiles(col, inputs, strategy)
}

// LoadFiles loads the given inputs into col under the chosen strategy, then
// rebuilds col's indexes. Workers accumulate records and stats locally and
// merge once each; the collection is touched only after the join barrier. An
// empty input list is a trivial success. An input that fails to load is
// counted, logged, and skipped; it never aborts the batch and is not retried.
func (l *Loader[R]) LoadFiles(col *Collection[R], files []string, strategy Strategy) (LoadStats, error) {
	if len(files) == 0 {
		return LoadStats{}, nil
	}

	start := time.Now()
	l.Engine.log.Debug().
		Int("inputs", len(files)).
		Str("strategy", strategy.String()).
		Msg("starting batch load")

	merged := RunBatch(l.Engine, files, strategy,
		func(acc loadPartial[R], path string) loadPartial[R] {
			rows, bytes, err := l.Source.LoadOne(path)
			acc.stats.Bytes += bytes
			if err != nil {
				acc.stats.FailedFiles++
				l.Engine.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable input")
				TrySend(l.Progress, LoadEvent{Path: path, Err: err})
				return acc
			}

			loaded := 0
			for _, row := range rows {
				record, ok := l.Map(row)
				if !ok {
					acc.stats.SkippedRows++
					continue
				}
				acc.records = append(acc.records, record)
				loaded++
			}

			acc.stats.Files++
			acc.stats.Records += loaded
			TrySend(l.Progress, LoadEvent{Path: path, Records: loaded})
			return acc
		},
		func(into, part loadPartial[R]) loadPartial[R] {
			into.records = append(into.records, part.records...)
			into.stats = into.stats.add(part.stats)
			return into
		})

	col.Append(merged.records...)
	col.BuildIndexes()

	stats := merged.stats
	stats.Duration = time.Since(start)
	l.Engine.log.Info().
		Int("files", stats.Files).
		Int("records", stats.Records).
		Int("skipped_rows", stats.SkippedRows).
		Int("failed_files", stats.FailedFiles).
		Dur("duration", stats.Duration).
		Str("rate", FormatRate(int64(stats.Records), stats.Duration)).
		Str("throughput", FormatBytesPerSecond(stats.Bytes, stats.Duration)).
		Msg("batch load complete")
	return stats, nil
}
