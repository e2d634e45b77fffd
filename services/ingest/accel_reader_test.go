package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"motion-resampler/models"
)

func TestDecodeRawNormalizesTimestamps(t *testing.T) {
	in := "timestamp,accX,accY,accZ\n" +
		"2500000,2.0,0.1,0.98\n" +
		"0,0.0,0.2,0.99\n" +
		"1000000,1.0,0.3,1.01\n"
	rec, err := DecodeRaw("Normal_kørsel1.csv", strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeRaw: %v", err)
	}
	if rec.Len() != 3 {
		t.Fatalf("got %d samples, want 3", rec.Len())
	}
	// File order is kept; sorting is a separate step.
	want := []models.RawSample{
		{TimestampS: 2.5, AccX: 2.0, AccY: 0.1, AccZ: 0.98},
		{TimestampS: 0.0, AccX: 0.0, AccY: 0.2, AccZ: 0.99},
		{TimestampS: 1.0, AccX: 1.0, AccY: 0.3, AccZ: 1.01},
	}
	for i := range want {
		if rec.Samples[i] != want[i] {
			t.Errorf("sample %d = %+v, want %+v", i, rec.Samples[i], want[i])
		}
	}

	rec.Sort()
	ts := rec.Timestamps()
	if ts[0] != 0 || ts[1] != 1 || ts[2] != 2.5 {
		t.Errorf("sorted timestamps = %v", ts)
	}
	x, y, _ := rec.Axes()
	if x[1] != 1.0 || y[1] != 0.3 {
		t.Errorf("axes lost pairing after sort: x=%v y=%v", x, y)
	}
}

func TestDecodeRawHeaderHandling(t *testing.T) {
	in := "\ufeffAccZ, timestamp ,ACCX,accY,extra\n" +
		"1.0,10,0.5,0.25,ignored\n" +
		"\n" +
		"1.0,20,0.75,0.5,ignored\n"
	rec, err := DecodeRaw("x.csv", strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeRaw: %v", err)
	}
	if rec.Len() != 2 {
		t.Fatalf("got %d samples, want 2", rec.Len())
	}
	if s := rec.Samples[1]; s.TimestampS != 0.00002 || s.AccX != 0.75 || s.AccY != 0.5 || s.AccZ != 1.0 {
		t.Errorf("sample 1 = %+v", s)
	}
}

func TestDecodeRawErrors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantLine int
		wantCol  string
	}{
		{"non-numeric timestamp", "timestamp,accX,accY,accZ\n0,1,2,3\nnope,1,2,3\n", 3, ColTimestamp},
		{"non-numeric axis", "timestamp,accX,accY,accZ\n0,1,x,3\n", 2, ColAccY},
		{"empty value", "timestamp,accX,accY,accZ\n0,1,2,\n", 2, ColAccZ},
		{"short row", "timestamp,accX,accY,accZ\n0,1\n", 2, ColAccY},
		{"nan", "timestamp,accX,accY,accZ\n0,NaN,2,3\n", 2, ColAccX},
		{"missing column", "timestamp,accX,accY\n0,1,2\n", 0, ColAccZ},
		{"no header", "", 1, ""},
	}
	for _, tt := range tests {
		_, err := DecodeRaw("bad.csv", strings.NewReader(tt.in))
		var pe *models.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: err = %v, want ParseError", tt.name, err)
			continue
		}
		if pe.Line != tt.wantLine || pe.Column != tt.wantCol {
			t.Errorf("%s: got line %d column %q, want line %d column %q", tt.name, pe.Line, pe.Column, tt.wantLine, tt.wantCol)
		}
	}

	_, err := DecodeRaw("bad.csv", strings.NewReader("timestamp,accX\n"))
	if !errors.Is(err, models.ErrMissingColumn) {
		t.Errorf("missing column error does not wrap ErrMissingColumn: %v", err)
	}
}

func TestDecodeRawHeaderOnly(t *testing.T) {
	rec, err := DecodeRaw("h.csv", strings.NewReader("timestamp,accX,accY,accZ\n"))
	if err != nil {
		t.Fatalf("DecodeRaw: %v", err)
	}
	if rec.Len() != 0 {
		t.Errorf("got %d samples, want 0", rec.Len())
	}
}

func TestReadRawRecordingMissingFile(t *testing.T) {
	_, err := ReadRawRecording(filepath.Join(t.TempDir(), "absent.csv"))
	var fe *models.FileSystemError
	if !errors.As(err, &fe) || fe.Op != "open" {
		t.Fatalf("err = %v, want FileSystemError{Op: open}", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("FileSystemError does not unwrap to os.ErrNotExist")
	}
}

func TestReadResampled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Normal_kørsel1_resampled.csv")
	body := "timestamp,accX,accY,accZ,label\n0.0,0.5,0.1,1.0,normal\n0.01,0.6,0.1,1.0,normal\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadResampled(path)
	if err != nil {
		t.Fatalf("ReadResampled: %v", err)
	}
	if len(got) != 2 || got[1].Timestamp != 0.01 || got[1].AccX != 0.6 || got[1].Label != models.LabelNormal {
		t.Errorf("ReadResampled = %+v", got)
	}
}
