package views

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"pressle-logger/models"
)

// CSVWriter is an append-only CSV sink that pushes every row to the OS
// before returning, and optionally fsyncs it. Input is sensor-bound, so
// per-row durability costs nothing that matters.
type CSVWriter struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	buf    *bufio.Writer
	csv    *csv.Writer
	fsync  bool
	width  int
	rows   uint64
	closed bool
}

// NewCSVWriter creates (truncating) a file and writes the header row
// immediately.
func NewCSVWriter(path string, header []string, fsync bool) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	w := &CSVWriter{
		path:  path,
		file:  f,
		buf:   bw,
		csv:   csv.NewWriter(bw),
		fsync: fsync,
		width: len(header),
	}

	if err := w.write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("csv write header: %w", err)
	}

	return w, nil
}

// WriteRow appends a single CSV row and flushes it.
func (w *CSVWriter) WriteRow(row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("csv %s: write after close", w.path)
	}
	if err := w.write(row); err != nil {
		return fmt.Errorf("csv %s: %w", w.path, err)
	}
	w.rows++
	return nil
}

// WriteRecord appends r's row. The row must be as wide as the header
// the file was opened with.
func (w *CSVWriter) WriteRecord(r models.CSVRowWriter) error {
	row := r.CSVRow()
	if len(row) != w.width {
		return fmt.Errorf("csv %s: row has %d fields, header has %d", w.path, len(row), w.width)
	}
	return w.WriteRow(row)
}

func (w *CSVWriter) write(row []string) error {
	if err := w.csv.Write(row); err != nil {
		return err
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.fsync {
		return w.file.Sync()
	}
	return nil
}

// Close makes a last flush attempt and closes the file. Failures are
// swallowed and reported only through the returned error, which callers
// on the shutdown path ignore. Safe to call more than once.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.csv.Flush()
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Path returns the file the writer appends to.
func (w *CSVWriter) Path() string {
	return w.path
}

// Rows returns the number of data rows written (excludes header).
func (w *CSVWriter) Rows() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}
