package domain

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// genusTotals is the running tuple kept per genus while aggregating.
type genusTotals struct {
	count     int
	heightSum float64
	spreadSum float64
	species   map[string]struct{}
}

// Accumulator groups tree records by genus. The zero value is not usable;
// create one with NewAccumulator.
type Accumulator struct {
	totals map[string]*genusTotals
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{totals: make(map[string]*genusTotals)}
}

// Seed registers a genus without counting any record for it. Seeded genera
// that never receive a record are dropped by Result.
func (a *Accumulator) Seed(genus string) {
	a.entry(genus)
}

// Add folds one record into its genus totals.
func (a *Accumulator) Add(rec TreeRecord) {
	t := a.entry(rec.Genus)
	t.count++
	t.heightSum += finiteOrZero(rec.Height)
	t.spreadSum += finiteOrZero(rec.CanopySpread)
	t.species[rec.Species] = struct{}{}
}

// Result converts the running totals into aggregates sorted by genus name.
// Genera with a zero count are discarded.
func (a *Accumulator) Result() []GenusAggregate {
	out := make([]GenusAggregate, 0, len(a.totals))
	for genus, t := range a.totals {
		if t.count == 0 {
			continue
		}
		n := float64(t.count)
		out = append(out, GenusAggregate{
			Genus:        genus,
			Count:        t.count,
			AvgHeight:    t.heightSum / n,
			AvgSpread:    t.spreadSum / n,
			SpeciesCount: len(t.species),
		})
	}
	slices.SortFunc(out, func(x, y GenusAggregate) int {
		return strings.Compare(x.Genus, y.Genus)
	})
	return out
}

func (a *Accumulator) entry(genus string) *genusTotals {
	t, ok := a.totals[genus]
	if !ok {
		t = &genusTotals{species: make(map[string]struct{})}
		a.totals[genus] = t
	}
	return t
}

// Aggregate reduces records to one GenusAggregate per distinct genus.
// The result is ordered by genus name.
func Aggregate(records []TreeRecord) []GenusAggregate {
	acc := NewAccumulator()
	for _, rec := range records {
		acc.Add(rec)
	}
	return acc.Result()
}

// decimalNumeral matches plain decimal numerals with an optional exponent.
// strconv.ParseFloat alone would also accept hex floats, a leading '+',
// underscores, and Inf/NaN spellings.
var decimalNumeral = regexp.MustCompile(`^-?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][-+]?[0-9]+)?$`)

// ParseMeasurement coerces a raw CSV cell to a number the way the census is
// loosely typed: decimal numerals convert, everything else is 0.
func ParseMeasurement(s string) float64 {
	s = strings.TrimSpace(s)
	if !decimalNumeral.MatchString(s) {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(v)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
