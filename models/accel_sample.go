package models

import (
	"math"
	"sort"
	"strconv"
)

// RawSample is one accelerometer reading as recorded on the device.
// The timestamp is already normalized from microseconds to seconds.
type RawSample struct {
	TimestampS float64 `json:"timestamp"`
	AccX       float64 `json:"accX"` // g
	AccY       float64 `json:"accY"`
	AccZ       float64 `json:"accZ"`
}

// CSVHeader is the phone-recorder export layout.
func (RawSample) CSVHeader() []string {
	return []string{"timestamp", "accX", "accY", "accZ"}
}

// CSVRow writes the timestamp back as integer microseconds.
func (s *RawSample) CSVRow() []string {
	return []string{
		strconv.FormatInt(int64(math.Round(s.TimestampS*1_000_000)), 10),
		ftoa(s.AccX, 6), ftoa(s.AccY, 6), ftoa(s.AccZ, 6),
	}
}

// Recording is every raw sample of one input file.
type Recording struct {
	Path    string
	Samples []RawSample
}

// Len returns the number of samples.
func (r *Recording) Len() int { return len(r.Samples) }

// Sort orders samples by ascending timestamp. Whole samples move, so each
// axis stays paired with its timestamp; equal timestamps keep file order.
func (r *Recording) Sort() {
	sort.SliceStable(r.Samples, func(i, j int) bool {
		return r.Samples[i].TimestampS < r.Samples[j].TimestampS
	})
}

// Sorted reports whether timestamps are non-decreasing.
func (r *Recording) Sorted() bool {
	return sort.SliceIsSorted(r.Samples, func(i, j int) bool {
		return r.Samples[i].TimestampS < r.Samples[j].TimestampS
	})
}

// Timestamps returns the timestamp column.
func (r *Recording) Timestamps() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.TimestampS
	}
	return out
}

// Axes returns the three acceleration columns.
func (r *Recording) Axes() (x, y, z []float64) {
	n := len(r.Samples)
	x, y, z = make([]float64, n), make([]float64, n), make([]float64, n)
	for i, s := range r.Samples {
		x[i], y[i], z[i] = s.AccX, s.AccY, s.AccZ
	}
	return x, y, z
}

// ResampledSample is one point of the uniform grid.
type ResampledSample struct {
	Timestamp float64 `json:"timestamp"` // s, millisecond-rounded
	AccX      float64 `json:"accX"`
	AccY      float64 `json:"accY"`
	AccZ      float64 `json:"accZ"`
	Label     Label   `json:"label"`
}

func (ResampledSample) CSVHeader() []string {
	return []string{"timestamp", "accX", "accY", "accZ", "label"}
}

func (s *ResampledSample) CSVRow() []string {
	return []string{
		ftoa(s.Timestamp, -1),
		ftoa(s.AccX, -1), ftoa(s.AccY, -1), ftoa(s.AccZ, -1),
		s.Label.String(),
	}
}

// ResampledRecording is the uniform-grid version of a Recording.
type ResampledRecording struct {
	Source  string
	Label   Label
	Samples []ResampledSample

	// Diagnostics, not persisted.
	RealizedDt float64 // mean spacing of the rounded grid (s)
	RealizedHz float64
	Collapsed  int // raw samples merged by the duplicate-timestamp policy
}

// WithLabel stamps every sample with l.
func (r *ResampledRecording) WithLabel(l Label) {
	r.Label = l
	for i := range r.Samples {
		r.Samples[i].Label = l
	}
}
