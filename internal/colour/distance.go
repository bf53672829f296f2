package colour

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownMetric is returned when a metric name is not recognised.
var ErrUnknownMetric = errors.New("unknown distance metric")

// Metric names a colour distance strategy.
// The set is closed so that every supported metric can be audited and tested.
type Metric string

const (
	// MetricEuclidean is the straight-line distance in RGB space.
	MetricEuclidean Metric = "euclidean"

	// MetricRMSE is the root mean squared channel error.
	MetricRMSE Metric = "rmse"

	// MetricWeightedRMSE weights channels by their contribution to perceived
	// brightness (Rec. 601 luma coefficients).
	MetricWeightedRMSE Metric = "weighted-rmse"

	// MetricCIE76 is the CIE76 delta E in CIELAB space.
	MetricCIE76 Metric = "cie76"
)

// Luma weights used by MetricWeightedRMSE.
const (
	weightR = 0.299
	weightG = 0.587
	weightB = 0.114
)

// MaxEuclidean is the largest possible Euclidean distance between two RGB colours.
var MaxEuclidean = math.Sqrt(3 * 255 * 255)

// ValidMetrics returns the supported metrics.
func ValidMetrics() []Metric {
	return []Metric{
		MetricEuclidean,
		MetricRMSE,
		MetricWeightedRMSE,
		MetricCIE76,
	}
}

// IsValid reports whether m is a supported metric.
func (m Metric) IsValid() bool {
	for _, valid := range ValidMetrics() {
		if m == valid {
			return true
		}
	}
	return false
}

// ParseMetric converts a name into a Metric.
func ParseMetric(name string) (Metric, error) {
	m := Metric(name)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %s (valid metrics: %v)", ErrUnknownMetric, name, ValidMetrics())
	}
	return m, nil
}

// String implements fmt.Stringer and pflag.Value.
func (m Metric) String() string {
	return string(m)
}

// Set implements pflag.Value.
func (m *Metric) Set(name string) error {
	parsed, err := ParseMetric(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *Metric) Type() string {
	return "metric"
}

// Distance measures a and b under the metric.
// An unrecognised metric falls back to Euclidean distance; use ParseMetric
// to reject unknown names at the edge.
func (m Metric) Distance(a, b RGB) float64 {
	switch m {
	case MetricRMSE:
		return RMSE(a, b)
	case MetricWeightedRMSE:
		return WeightedRMSE(a, b)
	case MetricCIE76:
		return CIE76(a, b)
	default:
		return Euclidean(a, b)
	}
}

// Euclidean returns sqrt(sum((a_i - b_i)^2)) over the three channels.
func Euclidean(a, b RGB) float64 {
	dr, dg, db := channelDeltas(a, b)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// RMSE returns the root mean squared error over the three channels.
func RMSE(a, b RGB) float64 {
	dr, dg, db := channelDeltas(a, b)
	return math.Sqrt((dr*dr + dg*dg + db*db) / 3)
}

// WeightedRMSE returns the luma-weighted root mean squared channel error.
func WeightedRMSE(a, b RGB) float64 {
	dr, dg, db := channelDeltas(a, b)
	return math.Sqrt(weightR*dr*dr + weightG*dg*dg + weightB*db*db)
}

// CIE76 returns the CIE76 colour difference (delta E on the 0..100 lightness scale).
func CIE76(a, b RGB) float64 {
	return Colorful(a).DistanceLab(Colorful(b)) * 100
}

func channelDeltas(a, b RGB) (float64, float64, float64) {
	return float64(a.R) - float64(b.R),
		float64(a.G) - float64(b.G),
		float64(a.B) - float64(b.B)
}
