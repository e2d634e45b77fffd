package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"motion-resampler/models"
	"motion-resampler/utils"
)

// Column names of the phone-recorder export. Matching is case-insensitive.
const (
	ColTimestamp = "timestamp"
	ColAccX      = "accX"
	ColAccY      = "accY"
	ColAccZ      = "accZ"
	ColLabel     = "label"
)

var rawColumns = []string{ColTimestamp, ColAccX, ColAccY, ColAccZ}

const readBufSize = 64 * 1024

// ReadRawRecording loads one raw recording file and normalizes its
// timestamps from microseconds to seconds. Samples keep file order.
func ReadRawRecording(path string) (*models.Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &models.FileSystemError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	rec, err := DecodeRaw(path, f)
	if err != nil {
		return nil, err
	}
	utils.L().Debug("read %s  (samples=%d)", path, rec.Len())
	return rec, nil
}

// DecodeRaw parses raw CSV from r. path is only used in errors.
func DecodeRaw(path string, r io.Reader) (*models.Recording, error) {
	t, err := newTable(path, r, rawColumns)
	if err != nil {
		return nil, err
	}

	rec := &models.Recording{Path: path}
	for {
		row, line, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var vals [4]float64
		for i, col := range rawColumns {
			if vals[i], err = t.float(row, line, col); err != nil {
				return nil, err
			}
		}
		rec.Samples = append(rec.Samples, models.RawSample{
			TimestampS: utils.MicrosToSeconds(vals[0]),
			AccX:       vals[1],
			AccY:       vals[2],
			AccZ:       vals[3],
		})
	}
	return rec, nil
}

// ReadResampled loads a resampler output file.
func ReadResampled(path string) ([]models.ResampledSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &models.FileSystemError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	t, err := newTable(path, f, []string{ColTimestamp, ColAccX, ColAccY, ColAccZ, ColLabel})
	if err != nil {
		return nil, err
	}

	var out []models.ResampledSample
	for {
		row, line, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var vals [4]float64
		for i, col := range rawColumns {
			if vals[i], err = t.float(row, line, col); err != nil {
				return nil, err
			}
		}
		out = append(out, models.ResampledSample{
			Timestamp: vals[0],
			AccX:      vals[1],
			AccY:      vals[2],
			AccZ:      vals[3],
			Label:     models.Label(t.field(row, ColLabel)),
		})
	}
	return out, nil
}

// ─── header-mapped CSV table ────────────────────────────────────────────

type table struct {
	path string
	r    *csv.Reader
	cols map[string]int
	line int
}

func newTable(path string, r io.Reader, required []string) (*table, error) {
	cr := csv.NewReader(bufio.NewReaderSize(r, readBufSize))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &models.ParseError{Path: path, Line: 1, Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, csvError(path, err)
	}

	t := &table{path: path, r: cr, cols: make(map[string]int, len(header)), line: 1}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		t.cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := t.cols[strings.ToLower(col)]; !ok {
			return nil, &models.ParseError{Path: path, Column: col, Err: models.ErrMissingColumn}
		}
	}
	return t, nil
}

// next returns the next non-blank row and its 1-based line number.
func (t *table) next() ([]string, int, error) {
	for {
		row, err := t.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, 0, io.EOF
			}
			return nil, 0, csvError(t.path, err)
		}
		t.line, _ = t.r.FieldPos(0)
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		return row, t.line, nil
	}
}

func (t *table) field(row []string, col string) string {
	i := t.cols[strings.ToLower(col)]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) float(row []string, line int, col string) (float64, error) {
	s := t.field(row, col)
	if s == "" {
		return 0, &models.ParseError{Path: t.path, Line: line, Column: col, Value: s, Err: errors.New("empty value")}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &models.ParseError{Path: t.path, Line: line, Column: col, Value: s, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &models.ParseError{Path: t.path, Line: line, Column: col, Value: s, Err: errors.New("not a finite number")}
	}
	return v, nil
}

func csvError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &models.ParseError{Path: path, Line: pe.Line, Err: pe.Err}
	}
	return &models.FileSystemError{Op: "read", Path: path, Err: fmt.Errorf("csv: %w", err)}
}
