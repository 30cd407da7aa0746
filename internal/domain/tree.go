package domain

import "time"

// CSV column names used by the census export.
const (
	ColumnGenus        = "Genus"
	ColumnSpecies      = "Species"
	ColumnHeight       = "Height"
	ColumnCanopySpread = "Canopy Spread"
)

// TreeRecord is one surveyed tree, i.e. one CSV row after type coercion.
type TreeRecord struct {
	Genus        string  `json:"Genus"`
	Species      string  `json:"Species"`
	Height       float64 `json:"Height"`        // feet; 0 when missing or unparsable
	CanopySpread float64 `json:"Canopy Spread"` // feet; 0 when missing or unparsable
}

// Census is the parsed content of one CSV document.
type Census struct {
	Records []TreeRecord
	Skipped int // malformed lines dropped by the parser
}

// GenusAggregate summarizes all records sharing a genus.
type GenusAggregate struct {
	Genus        string  `json:"genus"`
	Count        int     `json:"count"`
	AvgHeight    float64 `json:"avgHeight"`
	AvgSpread    float64 `json:"avgSpread"`
	SpeciesCount int     `json:"speciesCount"`
}

// Dataset is the immutable result of one load of the census.
type Dataset struct {
	Genera   []GenusAggregate `json:"genera"`
	Records  int              `json:"records"`
	Skipped  int              `json:"skipped"`
	LoadedAt time.Time        `json:"loaded_at"`

	// Err is set when the load failed; Genera is empty in that case.
	Err error `json:"-"`
}

// NewDataset aggregates a census and stamps the result with the load time.
func NewDataset(c Census) *Dataset {
	return &Dataset{
		Genera:   Aggregate(c.Records),
		Records:  len(c.Records),
		Skipped:  c.Skipped,
		LoadedAt: clock.Now(),
	}
}

// FailedDataset returns an empty dataset recording why the load failed.
func FailedDataset(err error) *Dataset {
	return &Dataset{
		Genera:   []GenusAggregate{},
		LoadedAt: clock.Now(),
		Err:      err,
	}
}

// Lookup returns the aggregate for genus, if present.
func (d *Dataset) Lookup(genus string) (GenusAggregate, bool) {
	if d == nil {
		return GenusAggregate{}, false
	}
	for _, g := range d.Genera {
		if g.Genus == genus {
			return g, true
		}
	}
	return GenusAggregate{}, false
}

// Generation identifies this load; it changes whenever a new dataset replaces
// the previous one.
func (d *Dataset) Generation() int64 {
	if d == nil {
		return 0
	}
	return d.LoadedAt.UnixNano()
}
