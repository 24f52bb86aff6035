/*
PURPOSE:
  Writes graded outcomes to a CSV file, one row per question.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - Spreadsheet-friendly view of the individual results.

  Implementation-discovered:
  - Details are free-form; store them as compact JSON in one column.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Harness.Sink) while questions are graded
  - Opened and closed by: internal/cli
  - Consumes: internal/model.Outcome

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (crash resilience).
  - Mutex-guarded: the parallel harness streams rows from several goroutines,
    so rows appear in completion order.

USAGE:
  w, err := output.NewCSVWriter("results.csv")
  w.Write(outcome)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update header and record conversion.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Write() mapping when Outcome struct changes.
*/

package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/daryltucker/lexbench/internal/model"
)

// CSVHeader is the first row of every outcome CSV.
var CSVHeader = []string{
	"id", "type", "passed", "score", "max_score", "elapsed_ms", "error", "details",
}

// CSVWriter handles writing outcomes to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
	closed bool
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{
		file:   f,
		writer: w,
	}, nil
}

// Write writes a single outcome to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(o model.Outcome) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	details, err := json.Marshal(o.Details)
	if err != nil {
		return fmt.Errorf("encode details for %s: %w", o.ID, err)
	}

	record := []string{
		o.ID,
		o.Type,
		strconv.FormatBool(o.Passed),
		fmt.Sprintf("%.4f", o.Score),
		fmt.Sprintf("%.4f", o.MaxScore),
		strconv.FormatInt(o.ElapsedMs, 10),
		o.Error,
		string(details),
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close flushes and closes the underlying file. Calling it again is a no-op.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.closed {
		return nil
	}
	cw.closed = true

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.file.Close()
		return err
	}
	return cw.file.Close()
}
