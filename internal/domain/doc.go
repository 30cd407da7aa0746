// Package domain models the UC Berkeley campus tree census and its per-genus
// aggregates.
//
// # Data Source
//
// The census is a single CSV file (Data_Viz_Challenge_2025-UCB_Trees.csv)
// with one row per surveyed tree. The header names at least these columns:
//
//	Genus, Species, Height, Canopy Spread
//
// Height and Canopy Spread are measured in feet. Rows are loosely typed:
// numeric-looking strings become numbers, anything else keeps its raw value.
//
// # Data Quality Conventions
//
// Missing genus:
//
//	A row without a Genus column (short row or header without the column)
//	is grouped under the empty-string genus rather than rejected.
//
// Missing or non-numeric measurements:
//
//	Height and Canopy Spread that are absent, empty, zero, or unparsable
//	contribute 0 to the genus sums but the row still counts toward the genus
//	population. Averages for genera with unmeasured trees are therefore biased
//	downward. This matches how the census has always been summarized and is
//	kept deliberately so published figures stay reproducible.
//
// Species diversity:
//
//	The number of distinct Species strings seen for a genus. An empty species
//	is a distinct value of its own.
//
// # Lifecycle
//
// A [Dataset] is built once per load by [NewDataset] and never mutated
// afterwards. See [Aggregate].
package domain
