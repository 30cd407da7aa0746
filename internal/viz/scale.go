// Package viz derives the visual encoding of genus aggregates: icon size from
// average height, color from population, and the search-filtered,
// sort-ordered view handed to the renderer.
package viz

import (
	"github.com/couchcryptid/campus-tree-forest/internal/domain"
)

// Default icon size range in pixels.
const (
	DefaultMinSize = 16.0
	DefaultMaxSize = 64.0
)

// SizeScale maps average height linearly onto [Min, Max]. The tallest genus
// in the set maps to Max and a height of 0 maps to Min.
type SizeScale struct {
	Min       float64
	Max       float64
	maxHeight float64
}

// NewSizeScale fits a size scale to the aggregate set.
func NewSizeScale(genera []domain.GenusAggregate, minSize, maxSize float64) SizeScale {
	s := SizeScale{Min: minSize, Max: maxSize}
	for _, g := range genera {
		if g.AvgHeight > s.maxHeight {
			s.maxHeight = g.AvgHeight
		}
	}
	return s
}

// Size returns the icon size for an average height. When the set is empty or
// every height is 0 the scale is degenerate and Min is returned.
func (s SizeScale) Size(avgHeight float64) float64 {
	if s.maxHeight <= 0 {
		return s.Min
	}
	return s.Min + (avgHeight/s.maxHeight)*(s.Max-s.Min)
}
