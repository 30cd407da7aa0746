package viz

import (
	"fmt"
	"math"

	"github.com/couchcryptid/campus-tree-forest/internal/domain"
)

// ColorPolicy selects how population is turned into a color.
type ColorPolicy string

const (
	// ColorBanded buckets count/maxCount into ten fixed greens.
	ColorBanded ColorPolicy = "banded"
	// ColorContinuous shades linearly with count/maxCount.
	ColorContinuous ColorPolicy = "continuous"
)

// ParseColorPolicy validates a policy name.
func ParseColorPolicy(s string) (ColorPolicy, error) {
	switch p := ColorPolicy(s); p {
	case ColorBanded, ColorContinuous:
		return p, nil
	default:
		return "", fmt.Errorf("unknown color policy %q", s)
	}
}

// Bands lists the banded palette from darkest (ratio in (0.9, 1.0]) to
// lightest (ratio in (0.0, 0.1] and ratio 0).
var Bands = [10]string{
	"#004B00",
	"#006400",
	"#008000",
	"#228B22",
	"#32CD32",
	"#90EE90",
	"#98FB98",
	"#B4EEB4",
	"#C1FFC1",
	"#E0FFE0",
}

// ColorScale maps a genus population to a color string usable in SVG fill
// attributes.
type ColorScale struct {
	Policy   ColorPolicy
	maxCount int
}

// NewColorScale fits a color scale to the aggregate set.
func NewColorScale(genera []domain.GenusAggregate, policy ColorPolicy) ColorScale {
	s := ColorScale{Policy: policy}
	for _, g := range genera {
		if g.Count > s.maxCount {
			s.maxCount = g.Count
		}
	}
	return s
}

// Ratio returns count/maxCount, or 0 for an empty set.
func (s ColorScale) Ratio(count int) float64 {
	if s.maxCount <= 0 {
		return 0
	}
	return float64(count) / float64(s.maxCount)
}

// Color returns the color for a population count.
func (s ColorScale) Color(count int) string {
	ratio := s.Ratio(count)
	if s.Policy == ColorContinuous {
		return continuousColor(ratio)
	}
	return bandedColor(ratio)
}

func continuousColor(ratio float64) string {
	intensity := int(math.Floor(ratio * 200))
	return fmt.Sprintf("rgb(%d, %d, %d)", 2+intensity, 10+intensity, 20)
}

// bandLowerBounds holds the exclusive lower bound of each band in Bands.
var bandLowerBounds = [10]float64{0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1, 0}

// bandedColor picks the band whose half-open interval (lo, lo+0.1] holds
// ratio. A ratio of 0 falls through to the lightest band.
func bandedColor(ratio float64) string {
	for i, lo := range bandLowerBounds {
		if ratio > lo {
			return Bands[i]
		}
	}
	return Bands[len(Bands)-1]
}
