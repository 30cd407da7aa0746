// Package csvsource loads the tree census CSV and turns each row into a
// domain.TreeRecord.
//
// Parsing follows the census conventions: the first row names the fields,
// empty lines are skipped, numeric-looking cells become numbers, and a line
// the CSV reader cannot parse is skipped rather than failing the document.
package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/campus-tree-forest/internal/domain"
)

const utf8BOM = "\uFEFF"

// Parse reads a whole CSV document. Only I/O failures are returned as errors;
// a document with no rows yields an empty census.
func Parse(r io.Reader) (domain.Census, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var census domain.Census

	header, err := readHeader(reader)
	if errors.Is(err, io.EOF) {
		return census, nil
	}
	if err != nil {
		return census, err
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				census.Skipped++
				continue
			}
			return census, fmt.Errorf("read csv: %w", err)
		}
		census.Records = append(census.Records, header.record(row))
	}
	return census, nil
}

// header maps the census column names to their positions in a row.
type header struct {
	index map[string]int
}

func readHeader(reader *csv.Reader) (header, error) {
	for {
		names, err := reader.Read()
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return header{}, err
			}
			return header{}, fmt.Errorf("read csv header: %w", err)
		}

		h := header{index: make(map[string]int, len(names))}
		for i, name := range names {
			if i == 0 {
				name = strings.TrimPrefix(name, utf8BOM)
			}
			name = strings.TrimSpace(name)
			if _, dup := h.index[name]; !dup {
				h.index[name] = i
			}
		}
		return h, nil
	}
}

// field returns the cell for column name and whether the row has it.
func (h header) field(row []string, name string) (string, bool) {
	i, ok := h.index[name]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

// record coerces one row. Absent columns fall back to zero values so a short
// row still counts under the empty genus.
func (h header) record(row []string) domain.TreeRecord {
	genus, _ := h.field(row, domain.ColumnGenus)
	species, _ := h.field(row, domain.ColumnSpecies)
	height, _ := h.field(row, domain.ColumnHeight)
	spread, _ := h.field(row, domain.ColumnCanopySpread)

	return domain.TreeRecord{
		Genus:        genus,
		Species:      species,
		Height:       domain.ParseMeasurement(height),
		CanopySpread: domain.ParseMeasurement(spread),
	}
}
