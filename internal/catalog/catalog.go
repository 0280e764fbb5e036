// Package catalog loads property listings from tabular CSV exports.
// Each row is one property; factor columns hold either a plain numeric
// cell (possibly with a unit suffix, "1.2 km") or, for multi-POI
// factors, a JSON array of distances.
package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"github.com/nestquest/homescout/internal/scoring"
)

// ColumnSpec binds one scoring factor to its CSV column.
type ColumnSpec struct {
	Factor        string `json:"factor" yaml:"factor"`
	Column        string `json:"column" yaml:"column"`
	QualityColumn string `json:"quality_column,omitempty" yaml:"quality_column,omitempty"`
	Multi         bool   `json:"multi,omitempty" yaml:"multi,omitempty"`

	// DeriveQuality ranks the column's values across the file and maps
	// them onto the rating scale (lower raw value = higher rating).
	// Only meaningful for scalar columns without a QualityColumn.
	DeriveQuality bool `json:"derive_quality,omitempty" yaml:"derive_quality,omitempty"`
}

type Options struct {
	AddressColumn  string       `json:"address_column,omitempty" yaml:"address_column,omitempty"`
	PriorityColumn string       `json:"priority_column,omitempty" yaml:"priority_column,omitempty"`
	MaxQuality     float64      `json:"max_quality,omitempty" yaml:"max_quality,omitempty"`
	Columns        []ColumnSpec `json:"columns" yaml:"columns"`
}

// Entry is one parsed catalog row, ready to be scored or stored.
type Entry struct {
	Address  string
	Priority string
	Raw      scoring.RawInput
	Quality  scoring.QualityInput
}

var numericRe = regexp.MustCompile(`-?[\d.]+`)

// parseNumeric extracts the first number from a cell like "2.3 km" or
// "4 mins". The second return is false for an unparsable cell.
func parseNumeric(cell string) (float64, bool) {
	m := numericRe.FindString(cell)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseMulti decodes a JSON-array cell. Elements are either bare
// numbers or objects of the export shape
// {"walking": {"distance": "1.2 km"}}.
func parseMulti(cell string) ([]float64, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(cell), &elems); err != nil {
		return nil, false
	}
	out := make([]float64, 0, len(elems))
	for _, e := range elems {
		var n float64
		if err := json.Unmarshal(e, &n); err == nil {
			out = append(out, n)
			continue
		}
		var rec struct {
			Walking struct {
				Distance string `json:"distance"`
			} `json:"walking"`
		}
		if err := json.Unmarshal(e, &rec); err != nil {
			continue
		}
		if v, ok := parseNumeric(rec.Walking.Distance); ok {
			out = append(out, v)
		}
	}
	return out, true
}

// Load parses the CSV and returns entries sorted by priority: rows with
// a numeric priority first in ascending order, then the rest in file
// order. A factor whose column is missing from the header is simply
// absent from every entry, which downstream scoring treats as a skip.
func Load(r io.Reader, opts Options) ([]Entry, error) {
	if opts.AddressColumn == "" {
		opts.AddressColumn = "Address"
	}
	if opts.PriorityColumn == "" {
		opts.PriorityColumn = "Priority order"
	}
	if opts.MaxQuality <= 1 {
		opts.MaxQuality = 5
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, rec)
	}

	cell := func(row []string, col string) (string, bool) {
		idx, ok := colIdx[col]
		if !ok || idx >= len(row) {
			return "", false
		}
		return row[idx], true
	}

	entries := make([]Entry, len(rows))
	for i, row := range rows {
		e := Entry{
			Raw:     scoring.RawInput{},
			Quality: scoring.QualityInput{},
		}
		if v, ok := cell(row, opts.AddressColumn); ok && v != "" {
			e.Address = v
		} else {
			e.Address = fmt.Sprintf("Row %d", i+1)
		}
		if v, ok := cell(row, opts.PriorityColumn); ok {
			e.Priority = v
		}
		entries[i] = e
	}

	for _, spec := range opts.Columns {
		if _, ok := colIdx[spec.Column]; !ok {
			continue
		}
		if spec.Multi {
			for i, row := range rows {
				c, _ := cell(row, spec.Column)
				if vals, ok := parseMulti(c); ok {
					entries[i].Raw[spec.Factor] = scoring.Multi(vals...)
				}
			}
		} else {
			scalars := make([]*float64, len(rows))
			for i, row := range rows {
				c, _ := cell(row, spec.Column)
				if v, ok := parseNumeric(c); ok {
					entries[i].Raw[spec.Factor] = scoring.Scalar(v)
					scalars[i] = &v
				}
			}
			if spec.DeriveQuality && spec.QualityColumn == "" {
				for i, q := range deriveQuality(scalars, opts.MaxQuality) {
					if q != nil {
						entries[i].Quality[spec.Factor] = *q
					}
				}
			}
		}
		if spec.QualityColumn != "" {
			for i, row := range rows {
				c, _ := cell(row, spec.QualityColumn)
				if v, ok := parseNumeric(c); ok {
					entries[i].Quality[spec.Factor] = v
				}
			}
		}
	}

	sortByPriority(entries)
	return entries, nil
}

// deriveQuality maps each value's position between the column's min and
// max onto [1, maxQuality], lower raw value rating higher. Rows where
// every value ties get the scale midpoint.
func deriveQuality(vals []*float64, maxQuality float64) []*float64 {
	var present []float64
	for _, v := range vals {
		if v != nil {
			present = append(present, *v)
		}
	}
	out := make([]*float64, len(vals))
	if len(present) == 0 {
		return out
	}

	mn, mx := present[0], present[0]
	for _, v := range present[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}

	mid := (1 + maxQuality) / 2
	for i, v := range vals {
		if v == nil {
			continue
		}
		q := mid
		if mx > mn {
			q = 1 + (maxQuality-1)*(mx-*v)/(mx-mn)
		}
		out[i] = &q
	}
	return out
}

func sortByPriority(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		numI, errI := strconv.ParseFloat(entries[i].Priority, 64)
		numJ, errJ := strconv.ParseFloat(entries[j].Priority, 64)
		switch {
		case errI == nil && errJ == nil:
			return numI < numJ
		case errI == nil:
			return true
		default:
			return false
		}
	})
}
