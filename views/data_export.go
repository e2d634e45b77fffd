package views

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"motion-resampler/models"
)

const defaultBufSize = 256 * 1024 // 256 KB

// CSVWriter is a buffered CSV file writer. Rows are encoded into a
// bufio.Writer; Close flushes and reports the first error seen.
type CSVWriter struct {
	path string
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
	rows uint64
	err  error
}

// NewCSVWriter creates (or truncates) path and writes the header row.
func NewCSVWriter(path string, bufSizeBytes int, header []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &models.FileSystemError{Op: "create", Path: path, Err: err}
	}

	if bufSizeBytes <= 0 {
		bufSizeBytes = defaultBufSize
	}

	bw := bufio.NewWriterSize(f, bufSizeBytes)
	w := &CSVWriter{
		path: path,
		file: f,
		buf:  bw,
		csv:  csv.NewWriter(bw),
	}

	if len(header) > 0 {
		if err := w.csv.Write(header); err != nil {
			f.Close()
			return nil, &models.FileSystemError{Op: "write", Path: path, Err: fmt.Errorf("csv header: %w", err)}
		}
	}
	return w, nil
}

// WriteRow appends a single CSV row. After the first failure further rows
// are dropped and the error is returned again.
func (w *CSVWriter) WriteRow(row []string) error {
	if w.err != nil {
		return w.err
	}
	if err := w.csv.Write(row); err != nil {
		w.err = &models.FileSystemError{Op: "write", Path: w.path, Err: err}
		return w.err
	}
	w.rows++
	return nil
}

// WriteRecord appends one model row.
func (w *CSVWriter) WriteRecord(r models.CSVRowWriter) error {
	return w.WriteRow(r.CSVRow())
}

// Flush pushes the buffered data to the OS.
func (w *CSVWriter) Flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return &models.FileSystemError{Op: "write", Path: w.path, Err: err}
	}
	if err := w.buf.Flush(); err != nil {
		return &models.FileSystemError{Op: "write", Path: w.path, Err: err}
	}
	return nil
}

// Close flushes remaining data and closes the file. It is safe to call
// more than once.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return w.err
	}
	flushErr := w.Flush()
	closeErr := w.file.Close()
	w.file = nil
	if closeErr != nil {
		closeErr = &models.FileSystemError{Op: "close", Path: w.path, Err: closeErr}
	}
	return errors.Join(w.err, flushErr, closeErr)
}

// Rows returns the number of data rows written (excludes header).
func (w *CSVWriter) Rows() uint64 {
	return w.rows
}

// Path returns the destination file.
func (w *CSVWriter) Path() string { return w.path }
