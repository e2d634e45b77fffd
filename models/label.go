package models

import "strings"

// Label is the class tag attached to a whole recording.
type Label string

const (
	LabelNormal    Label = "normal"
	LabelUdrykning Label = "udrykning" // emergency driving
)

func (l Label) String() string { return string(l) }

const (
	rawSuffix       = ".csv"
	resampledSuffix = "_resampled.csv"
)

// ResampledName maps a raw file name to its resampled counterpart by
// replacing the trailing ".csv" with "_resampled.csv".
func ResampledName(base string) string {
	return strings.TrimSuffix(base, rawSuffix) + resampledSuffix
}

// IsResampledName reports whether base looks like a resampler output.
func IsResampledName(base string) bool {
	return strings.HasSuffix(base, resampledSuffix)
}

// SourceName strips the resampler suffix, giving back the raw file's stem.
func SourceName(base string) string {
	if IsResampledName(base) {
		return strings.TrimSuffix(base, resampledSuffix)
	}
	return strings.TrimSuffix(base, rawSuffix)
}
