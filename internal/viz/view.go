package viz

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/couchcryptid/campus-tree-forest/internal/domain"
)

// ErrUnknownSortKey is returned by ParseSortKey for values outside SortKeys.
var ErrUnknownSortKey = errors.New("unknown sort key")

// SortKey selects the aggregate field the view is ordered by, descending.
type SortKey string

const (
	SortPopulation SortKey = "population"
	SortHeight     SortKey = "height"
	SortDiversity  SortKey = "diversity"
	SortSpread     SortKey = "spread"
)

// SortKeys lists the accepted sort keys in selector order.
var SortKeys = []SortKey{SortPopulation, SortHeight, SortDiversity, SortSpread}

// ParseSortKey validates s. An empty string selects SortPopulation.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortPopulation, nil
	}
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(SortKeys, k) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
	}
	return k, nil
}

// Item is one genus as handed to the renderer.
type Item struct {
	domain.GenusAggregate
	Size        float64 `json:"size"`
	Color       string  `json:"color"`
	Highlighted bool    `json:"highlighted"`
}

// Query carries the live values of the search field and sort selector.
type Query struct {
	Search string
	Sort   SortKey
}

// Options configures the visual encoding.
type Options struct {
	MinSize float64
	MaxSize float64
	Color   ColorPolicy
}

// DefaultOptions returns the 16 to 64 pixel size range and banded colors.
func DefaultOptions() Options {
	return Options{
		MinSize: DefaultMinSize,
		MaxSize: DefaultMaxSize,
		Color:   ColorBanded,
	}
}

// View is the filtered, ordered sequence of items for one query.
type View struct {
	Query Query  `json:"-"`
	Items []Item `json:"items"`
	Total int    `json:"total"` // genera in the full set, before filtering
}

// Build encodes every genus, then filters and orders the result. Size and
// color scales are fitted to the full aggregate set so filtering does not
// change how a genus looks.
func Build(genera []domain.GenusAggregate, q Query, opts Options) View {
	sizes := NewSizeScale(genera, opts.MinSize, opts.MaxSize)
	colors := NewColorScale(genera, opts.Color)

	items := make([]Item, 0, len(genera))
	for _, g := range genera {
		if !Matches(g.Genus, q.Search) {
			continue
		}
		items = append(items, Item{
			GenusAggregate: g,
			Size:           sizes.Size(g.AvgHeight),
			Color:          colors.Color(g.Count),
			Highlighted:    Highlighted(g.Genus, q.Search),
		})
	}
	Sort(items, q.Sort)

	return View{Query: q, Items: items, Total: len(genera)}
}

// Matches reports whether genus contains term, ignoring case. An empty term
// matches everything.
func Matches(genus, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(genus), strings.ToLower(term))
}

// Highlighted reports whether genus should be emphasized for term: the term
// must be non-empty and match.
func Highlighted(genus, term string) bool {
	return term != "" && Matches(genus, term)
}

// Sort orders items descending by key. Ties keep their input order. An
// unrecognized key sorts by population.
func Sort(items []Item, key SortKey) {
	slices.SortStableFunc(items, func(a, b Item) int {
		switch key {
		case SortHeight:
			return cmp.Compare(b.AvgHeight, a.AvgHeight)
		case SortDiversity:
			return cmp.Compare(b.SpeciesCount, a.SpeciesCount)
		case SortSpread:
			return cmp.Compare(b.AvgSpread, a.AvgSpread)
		default:
			return cmp.Compare(b.Count, a.Count)
		}
	})
}

// Find returns the item for genus, if it is part of the view.
func (v View) Find(genus string) (Item, bool) {
	for _, it := range v.Items {
		if it.Genus == genus {
			return it, true
		}
	}
	return Item{}, false
}
