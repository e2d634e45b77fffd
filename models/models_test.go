package models

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestResampledName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Normal_kørsel1.csv", "Normal_kørsel1_resampled.csv"},
		{"Udryknings_kørsel.csv.csv", "Udryknings_kørsel.csv_resampled.csv"},
	}
	for _, tt := range tests {
		if got := ResampledName(tt.in); got != tt.want {
			t.Errorf("ResampledName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := SourceName("Normal_kørsel1_resampled.csv"); got != "Normal_kørsel1" {
		t.Errorf("SourceName = %q", got)
	}
	if got := SourceName("Normal_kørsel1.csv"); got != "Normal_kørsel1" {
		t.Errorf("SourceName(raw) = %q", got)
	}
}

func TestRecordingSortKeepsPairs(t *testing.T) {
	rec := &Recording{Samples: []RawSample{
		{TimestampS: 3, AccX: 30, AccY: 31, AccZ: 32},
		{TimestampS: 1, AccX: 10, AccY: 11, AccZ: 12},
		{TimestampS: 2, AccX: 20, AccY: 21, AccZ: 22},
		{TimestampS: 1, AccX: 15, AccY: 16, AccZ: 17},
	}}
	rec.Sort()
	if !rec.Sorted() {
		t.Fatal("Sorted() false after Sort()")
	}
	want := []float64{10, 15, 20, 30}
	for i, s := range rec.Samples {
		if s.AccX != want[i] || s.AccY != s.AccX+1 || s.AccZ != s.AccX+2 {
			t.Errorf("sample %d = %+v", i, s)
		}
	}
}

func TestCSVRows(t *testing.T) {
	s := ResampledSample{Timestamp: 1.23, AccX: -0.015625, AccY: 0, AccZ: 1, Label: LabelUdrykning}
	got := fmt.Sprint(s.CSVRow())
	if want := "[1.23 -0.015625 0 1 udrykning]"; got != want {
		t.Errorf("ResampledSample.CSVRow = %s, want %s", got, want)
	}

	r := RawSample{TimestampS: 2.5, AccX: 0.1, AccY: 0.2, AccZ: 0.98}
	if got, want := fmt.Sprint(r.CSVRow()), "[2500000 0.100000 0.200000 0.980000]"; got != want {
		t.Errorf("RawSample.CSVRow = %s, want %s", got, want)
	}

	fv := FeatureVector{Source: "Normal_kørsel1", Label: LabelNormal, WindowStart: 0, WindowEnd: 1.99}
	row := fv.CSVRow()
	if len(row) != len(fv.CSVHeader()) {
		t.Errorf("feature row has %d fields, header %d", len(row), len(fv.CSVHeader()))
	}
}

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("resample: %w", &ParseError{Path: "a.csv", Line: 3, Column: "accX", Value: "x", Err: errors.New("bad")})
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{wrapped, "parse"},
		{&EmptyRecordingError{Path: "a.csv", Samples: 1}, "empty"},
		{&FileSystemError{Op: "open", Path: "a.csv", Err: os.ErrNotExist}, "filesystem"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
