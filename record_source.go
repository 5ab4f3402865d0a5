package triscan

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/tidwall/gjson"
)

// RecordSource enumerates and loads raw inputs for a batch load.
//
// ListInputs returns the input identifiers under a path in lexical order.
// LoadOne returns one input's rows of fields, in input order, plus the number
// of raw (decompressed) bytes consumed. Failures to load a single input are
// reported to the caller, which skips the input and continues the batch.
type RecordSource interface {
	ListInputs(path string) ([]string, error)
	LoadOne(path string) ([][]string, int64, error)
}

// CSVSource reads delimited text files from the filesystem. ListInputs
// accepts a single file or a directory walked recursively, matching .csv
// files with optional .gz or .zst compression suffixes; LoadOne decompresses
// transparently and parses tolerantly: quoted fields with doubled-quote
// escapes, \r\n line endings, ragged row lengths, and blank lines skipped.
type CSVSource struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

func NewCSVSource() *CSVSource {
	return &CSVSource{Comma: ','}
}

func (s *CSVSource) ListInputs(path string) ([]string, error) {
	return walkInputs(path, ".csv")
}

func (s *CSVSource) LoadOne(path string) ([][]string, int64, error) {
	reader, closeInput, err := openInput(path)
	if err != nil {
		return nil, 0, err
	}
	defer closeInput()

	counted := &countingReader{r: reader}
	parser := csv.NewReader(counted)
	parser.Comma = s.Comma
	if parser.Comma == 0 {
		parser.Comma = ','
	}
	parser.FieldsPerRecord = -1
	parser.LazyQuotes = true

	rows, err := parser.ReadAll()
	if err != nil {
		return nil, counted.n, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, counted.n, nil
}

// NDJSONSource reads newline-delimited JSON files, extracting the configured
// gjson paths from each non-blank line into one row of fields (missing paths
// yield empty strings). ListInputs matches .ndjson and .jsonl files,
// compression suffixes included.
type NDJSONSource struct {
	// Fields are the gjson paths extracted from each line, in row order.
	Fields []string
}

func NewNDJSONSource(fields ...string) *NDJSONSource {
	return &NDJSONSource{Fields: fields}
}

func (s *NDJSONSource) ListInputs(path string) ([]string, error) {
	return walkInputs(path, ".ndjson", ".jsonl")
}

func (s *NDJSONSource) LoadOne(path string) ([][]string, int64, error) {
	reader, closeInput, err := openInput(path)
	if err != nil {
		return nil, 0, err
	}
	defer closeInput()

	counted := &countingReader{r: reader}
	scanner := bufio.NewScanner(counted)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var rows [][]string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := make([]string, len(s.Fields))
		for i, result := range gjson.GetMany(line, s.Fields...) {
			fields[i] = result.String()
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, counted.n, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, counted.n, nil
}

// TESTING
//
// StaticSource is an in-memory RecordSource mapping input identifiers to
// their rows. ListInputs returns the identifiers with the given prefix,
// sorted; the reported byte count is the total field length.
type StaticSource map[string][][]string

func (s StaticSource) ListInputs(path string) ([]string, error) {
	var inputs []string
	for id := range s {
		if strings.HasPrefix(id, path) {
			inputs = append(inputs, id)
		}
	}
	sort.Strings(inputs)
	return inputs, nil
}

func (s StaticSource) LoadOne(path string) ([][]string, int64, error) {
	rows, ok := s[path]
	if !ok {
		return nil, 0, fmt.Errorf("no such input: %s", path)
	}

	var bytes int64
	for _, row := range rows {
		for _, field := range row {
			bytes += int64(len(field))
		}
	}
	return rows, bytes, nil
}

func init() {
	var _ RecordSource = &CSVSource{}
	var _ RecordSource = &NDJSONSource{}
	var _ RecordSource = StaticSource{}
}

// walkInputs returns every file under path (or path itself) whose name ends
// in one of the extensions, before any .gz or .zst compression suffix, in
// lexical order.
func walkInputs(path string, exts ...string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("listing inputs: %w", err)
	}

	if !info.IsDir() {
		if matchesExt(path, exts) {
			return []string{path}, nil
		}
		return nil, nil
	}

	var inputs []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && matchesExt(p, exts) {
			inputs = append(inputs, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing inputs: %w", err)
	}

	sort.Strings(inputs)
	return inputs, nil
}

func matchesExt(path string, exts []string) bool {
	name := strings.ToLower(path)
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".zst")
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// openInput opens path for reading, wrapping it in a decompressor when the
// extension calls for one. The returned close function releases the
// decompressor and the file.
func openInput(path string) (io.Reader, func() error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
		}
		return gz, func() error {
			gz.Close()
			return file.Close()
		}, nil

	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, nil, fmt.Errorf("opening zstd stream %s: %w", path, err)
		}
		return dec, func() error {
			dec.Close()
			return file.Close()
		}, nil

	default:
		return file, file.Close, nil
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// toFloat parses a numeric cell leniently: empty or unparsable cells become 0.
func toFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// toInt parses an integer cell leniently, truncating decimal cells and
// turning unparsable cells into 0.
func toInt(s string) int {
	trimmed := strings.TrimSpace(s)
	if v, err := strconv.Atoi(trimmed); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return int(f)
	}
	return 0
}
