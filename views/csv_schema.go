package views

// Column layouts of every CSV the tool reads or writes.

// FileKind identifies a CSV layout for schema lookups.
type FileKind int

const (
	KindRaw FileKind = iota
	KindResampled
	KindFeatures
)

var kindNames = map[FileKind]string{
	KindRaw:       "raw",
	KindResampled: "resampled",
	KindFeatures:  "features",
}

func (k FileKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// SchemaColumns returns the canonical column list for each layout.
// Writers take their header from the model's CSVHeader(); this table is
// kept for validation and as a human-readable reference.
var SchemaColumns = map[FileKind][]string{
	KindRaw: {
		"timestamp", // µs
		"accX", "accY", "accZ",
	},
	KindResampled: {
		"timestamp", // s, millisecond-rounded
		"accX", "accY", "accZ",
		"label",
	},
	KindFeatures: {
		"source", "label", "window_start", "window_end",
		"y_band_15_40", "y_band_5_15", "mag_band_15_40",
		"x_band_15_40", "z_band_15_40",
		"y_kurtosis", "y_rms", "y_energy", "y_max", "y_p10",
	},
}

// MatchesSchema reports whether header is exactly the layout of kind.
func MatchesSchema(kind FileKind, header []string) bool {
	want, ok := SchemaColumns[kind]
	if !ok || len(want) != len(header) {
		return false
	}
	for i := range want {
		if want[i] != header[i] {
			return false
		}
	}
	return true
}
