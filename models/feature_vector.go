package models

// NumFeatures is the length of the on-device classifier's input vector.
const NumFeatures = 10

// FeatureNames lists the feature columns in classifier input order.
var FeatureNames = [NumFeatures]string{
	"y_band_15_40",
	"y_band_5_15",
	"mag_band_15_40",
	"x_band_15_40",
	"z_band_15_40",
	"y_kurtosis",
	"y_rms",
	"y_energy",
	"y_max",
	"y_p10",
}

// FeatureVector holds the features of one analysis window.
type FeatureVector struct {
	Source      string  `json:"source"`
	Label       Label   `json:"label"`
	WindowStart float64 `json:"window_start"` // s
	WindowEnd   float64 `json:"window_end"`
	Values      [NumFeatures]float64
}

func (FeatureVector) CSVHeader() []string {
	h := []string{"source", "label", "window_start", "window_end"}
	return append(h, FeatureNames[:]...)
}

func (f *FeatureVector) CSVRow() []string {
	row := []string{f.Source, f.Label.String(), ftoa(f.WindowStart, 3), ftoa(f.WindowEnd, 3)}
	for _, v := range f.Values {
		row = append(row, ftoa(v, 6))
	}
	return row
}
