package triscan

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
)

// indexFilterFalsePositiveRate sizes the per-index key filters; misses fall
// through to the map lookup, so false positives only cost a hash probe.
const indexFilterFalsePositiveRate = 0.01

// IndexSpec declares one secondary index over records of type R. Key extracts
// the index key from a record; equal keys group records together.
type IndexSpec[R any] struct {
	Name string
	Key  func(R) string
}

// Collection is an append-only array of records plus declared secondary
// indexes mapping keys to record positions. Records are written during
// ingestion (Append, after a batch's join barrier) and are read-only for all
// queries. Indexes are rebuilt wholesale by BuildIndexes whenever the record
// array changes, never patched incrementally.
type Collection[R any] struct {
	mu      sync.RWMutex
	records []R
	specs   []IndexSpec[R]
	indexes map[string]map[string][]int
	filters map[string]*bloom.BloomFilter
}

// NewCollection returns an empty collection with the given index
// declarations.
func NewCollection[R any](specs ...IndexSpec[R]) *Collection[R] {
	return &Collection[R]{specs: specs}
}

// Append adds records at the tail and invalidates any built indexes; call
// BuildIndexes once the batch is complete.
func (c *Collection[R]) Append(records ...R) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append(c.records, records...)
	c.indexes = nil
	c.filters = nil
}

// Len reports the number of records.
func (c *Collection[R]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Clear drops all records and indexes in one step.
func (c *Collection[R]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = nil
	c.indexes = nil
	c.filters = nil
}

// Records returns the record array for scanning. Callers must treat it as
// read-only: the array is shared with every concurrent query.
func (c *Collection[R]) Records() []R {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records
}

// BuildIndexes rebuilds every declared index from scratch: the position of
// each record is appended under its key, so duplicate keys accumulate
// positions in ascending order. A key-membership bloom filter per index is
// rebuilt alongside to short-circuit lookups for absent keys. Rebuilding an
// unchanged collection yields identical contents (see IndexDigest).
func (c *Collection[R]) BuildIndexes() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.indexes = make(map[string]map[string][]int, len(c.specs))
	c.filters = make(map[string]*bloom.BloomFilter, len(c.specs))

	// Distinct keys are bounded by the record count.
	expected := uint(len(c.records))
	if expected == 0 {
		expected = 1
	}

	for _, spec := range c.specs {
		index := make(map[string][]int)
		filter := bloom.NewWithEstimates(expected, indexFilterFalsePositiveRate)

		for p, record := range c.records {
			key := spec.Key(record)
			index[key] = append(index[key], p)
			filter.AddString(key)
		}

		c.indexes[spec.Name] = index
		c.filters[spec.Name] = filter
	}
}

// QueryExact returns the records whose index key equals key, in ascending
// position order. Absent keys, unknown index names, and collections whose
// indexes have not been built return nil.
func (c *Collection[R]) QueryExact(index, key string) []R {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if filter, ok := c.filters[index]; ok && !filter.TestString(key) {
		// Definite miss.
		return nil
	}

	positions := c.indexes[index][key]
	if len(positions) == 0 {
		return nil
	}

	matches := make([]R, 0, len(positions))
	for _, p := range positions {
		matches = append(matches, c.records[p])
	}
	return matches
}

// IndexDigest returns a stable hash of one index's full contents, for
// verifying rebuilds and for log fields. ok is false when the index has not
// been built or the name is unknown.
func (c *Collection[R]) IndexDigest(name string) (digest uint64, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	index, ok := c.indexes[name]
	if !ok {
		return 0, false
	}

	keys := make([]string, 0, len(index))
	for key := range index {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Length-prefixed framing keeps adjacent entries from blurring together.
	hash := xxhash.New()
	var buf [8]byte
	for _, key := range keys {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(key)))
		hash.Write(buf[:])
		hash.WriteString(key)

		positions := index[key]
		binary.LittleEndian.PutUint64(buf[:], uint64(len(positions)))
		hash.Write(buf[:])
		for _, p := range positions {
			binary.LittleEndian.PutUint64(buf[:], uint64(p))
			hash.Write(buf[:])
		}
	}
	return hash.Sum64(), true
}
