// Package frame provides the in-memory dataset model: a rectangular table of
// named numeric columns where missing values are represented as NaN.
package frame

import (
	"math"
	"sort"

	"specsearch/domain/core"
)

// Frame is an immutable rectangular table of observations. Filtering always
// copies; the source frame is never modified.
type Frame struct {
	columns []string
	data    map[string][]float64
	rows    int
}

// New builds a frame from an ordered column list and per-column values.
// Every column must have the same length.
func New(columns []string, data map[string][]float64) (*Frame, error) {
	rows := -1
	for _, name := range columns {
		values, ok := data[name]
		if !ok {
			return nil, core.NewColumnMissingError(name)
		}
		if rows == -1 {
			rows = len(values)
		} else if len(values) != rows {
			return nil, core.ErrRaggedFrame
		}
	}
	if rows == -1 {
		rows = 0
	}
	return &Frame{columns: columns, data: data, rows: rows}, nil
}

// Columns returns the ordered column names.
func (f *Frame) Columns() []string {
	return f.columns
}

// Rows returns the number of observations.
func (f *Frame) Rows() int {
	return f.rows
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.data[name]
	return ok
}

// Column returns the values of the named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	values, ok := f.data[name]
	return values, ok
}

// Filter returns a new frame containing the rows for which keep returns true.
// Column values are copied; the receiver is untouched.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	var kept []int
	for i := 0; i < f.rows; i++ {
		if keep(i) {
			kept = append(kept, i)
		}
	}

	data := make(map[string][]float64, len(f.columns))
	for _, name := range f.columns {
		src := f.data[name]
		dst := make([]float64, len(kept))
		for j, i := range kept {
			dst[j] = src[i]
		}
		data[name] = dst
	}
	columns := make([]string, len(f.columns))
	copy(columns, f.columns)
	return &Frame{columns: columns, data: data, rows: len(kept)}
}

// DistinctYears returns the sorted set of distinct non-missing values of the
// year column.
func (f *Frame) DistinctYears(yearVar string) ([]float64, error) {
	values, ok := f.data[yearVar]
	if !ok {
		return nil, core.NewColumnMissingError(yearVar)
	}
	seen := make(map[float64]bool)
	var years []float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !seen[v] {
			seen[v] = true
			years = append(years, v)
		}
	}
	sort.Float64s(years)
	return years, nil
}

// DropEarliestYears produces one data variant per requested drop count,
// keyed by the number of earliest distinct years removed. Key 0 always maps
// to the full sample, even when never requested. A non-positive count is
// treated as "no drop"; a count at or beyond the number of distinct years is
// an error.
func DropEarliestYears(f *Frame, yearVar string, dropCounts []int) (map[int]*Frame, error) {
	if len(dropCounts) == 0 {
		return map[int]*Frame{0: f}, nil
	}

	years, err := f.DistinctYears(yearVar)
	if err != nil {
		return nil, err
	}

	variants := make(map[int]*Frame)
	for _, dropN := range dropCounts {
		if dropN <= 0 {
			variants[0] = f
			continue
		}
		if dropN >= len(years) {
			return nil, core.NewYearDropError(dropN, len(years))
		}
		remaining := make(map[float64]bool, len(years)-dropN)
		for _, y := range years[dropN:] {
			remaining[y] = true
		}
		yearCol, _ := f.Column(yearVar)
		variants[dropN] = f.Filter(func(row int) bool {
			return remaining[yearCol[row]]
		})
	}
	if _, ok := variants[0]; !ok {
		variants[0] = f
	}
	return variants, nil
}

// SortedDropCounts returns the variant keys in ascending order so that runs
// iterate deterministically.
func SortedDropCounts(variants map[int]*Frame) []int {
	counts := make([]int, 0, len(variants))
	for n := range variants {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	return counts
}
