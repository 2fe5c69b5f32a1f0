package types

import "go.skia.org/visualdiff/go/skerr"

// Magnitude buckets a diff percentage.
type Magnitude int

const (
	MagnitudeTiny   Magnitude = iota // < 0.1%
	MagnitudeSmall                   // < 1%
	MagnitudeMedium                  // < 5%
	MagnitudeLarge                   // < 20%
	MagnitudeMassive
)

// String representation for Magnitudes. The order must match order above.
var magnitudeStringRepresentation = []string{
	"tiny",
	"small",
	"medium",
	"large",
	"massive",
}

func (m Magnitude) String() string {
	if m < 0 || int(m) >= len(magnitudeStringRepresentation) {
		return "unknown"
	}
	return magnitudeStringRepresentation[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Magnitude) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Magnitude) UnmarshalText(b []byte) error {
	for i, s := range magnitudeStringRepresentation {
		if s == string(b) {
			*m = Magnitude(i)
			return nil
		}
	}
	return skerr.Fmt("unknown diff magnitude %q", string(b))
}

// DiffFingerprint is a compact, order-independent descriptor of a diff's
// clusters, used to group recurring visual changes.
type DiffFingerprint struct {
	ClusterCount int `json:"clusterCount"`
	// ClusterPositions are centroids normalized to [0,1]x[0,1].
	ClusterPositions [][2]float64 `json:"clusterPositions"`
	// ClusterSizes are pixel counts as a fraction of the image area.
	ClusterSizes  []float64 `json:"clusterSizes"`
	AvgIntensity  float64   `json:"avgIntensity"`
	AvgDensity    float64   `json:"avgDensity"`
	ZoneMask      uint16    `json:"zoneMask"`
	DiffMagnitude Magnitude `json:"diffMagnitude"`
	Hash          string    `json:"hash"`
}
