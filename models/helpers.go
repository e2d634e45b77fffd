package models

import (
	"strconv"
)

// ─── shared formatting helpers (package-private) ────────────────────────

// ftoa formats v in fixed notation. prec < 0 selects the shortest
// representation that parses back to the same float64.
func ftoa(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// CSVRowWriter is the interface every exportable model must satisfy.
type CSVRowWriter interface {
	CSVHeader() []string
	CSVRow() []string
}
