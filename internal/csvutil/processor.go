package csvutil

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ProcessorOptions configures CSV processing behavior.
type ProcessorOptions struct {
	// FieldsPerRecord follows encoding/csv: 0 uses the header's field count,
	// a negative value allows ragged rows.
	FieldsPerRecord int

	// SkipInvalid skips rows the parser rejects instead of failing.
	SkipInvalid bool

	// OnHeader receives the header row before any record is parsed.
	OnHeader func(header []string) error
}

// ProcessCSV reads a CSV file with a header row and parses every following
// record into T.
func ProcessCSV[T any](filename string, parser func([]string) (T, error), opts ProcessorOptions) ([]T, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = f.Close() }()

	items, err := Process(f, parser, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return items, nil
}

// Process is ProcessCSV over any reader. A leading UTF-8 byte order mark,
// as written by spreadsheet exports, is dropped.
func Process[T any](r io.Reader, parser func([]string) (T, error), opts ProcessorOptions) ([]T, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = opts.FieldsPerRecord

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if opts.OnHeader != nil {
		if err := opts.OnHeader(header); err != nil {
			return nil, err
		}
	}

	var items []T
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			// Malformed rows are skipped; the reader resumes on the next line.
			slog.Warn("Skipping unreadable CSV row", "error", err)
			continue
		}
		line, _ := reader.FieldPos(0)

		item, err := parser(record)
		if err != nil {
			if opts.SkipInvalid {
				slog.Debug("Skipping CSV row", "line", line, "error", err)
				continue
			}
			return nil, fmt.Errorf("invalid record on line %d: %w", line, err)
		}
		items = append(items, item)
	}
}
