// Package design builds the covariate design matrix that conditions a model
// on slide-level metadata.
package design

import (
	"fmt"
	"sort"
)

// Slide is one sample: a name and its covariate assignments, for example
// {"individual": "A", "treatment": "LPS"}.
type Slide struct {
	Name       string
	Covariates map[string]string
}

// Matrix is a one-hot encoding of slide covariates. Rows follow the input
// slide order; columns are "covariate=level" pairs in sorted order, so the
// same slides always produce the same matrix.
type Matrix struct {
	Slides  []string
	Columns []string
	Values  [][]float64
}

// From builds the design matrix for the given slides. Slides missing a
// covariate that others define simply get zeros in that covariate's columns.
func From(slides []Slide) (*Matrix, error) {
	names := make([]string, len(slides))
	seen := make(map[string]bool, len(slides))
	levels := make(map[string]map[string]bool)
	for i, s := range slides {
		if s.Name == "" {
			return nil, fmt.Errorf("design: slide %d has no name", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("design: duplicate slide %q", s.Name)
		}
		seen[s.Name] = true
		names[i] = s.Name
		for covariate, level := range s.Covariates {
			if levels[covariate] == nil {
				levels[covariate] = make(map[string]bool)
			}
			levels[covariate][level] = true
		}
	}

	var columns []string
	for covariate, lvls := range levels {
		for level := range lvls {
			columns = append(columns, covariate+"="+level)
		}
	}
	sort.Strings(columns)

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	values := make([][]float64, len(slides))
	for i, s := range slides {
		row := make([]float64, len(columns))
		for covariate, level := range s.Covariates {
			row[index[covariate+"="+level]] = 1
		}
		values[i] = row
	}

	return &Matrix{Slides: names, Columns: columns, Values: values}, nil
}

// Dims returns the matrix dimensions as (slides, columns).
func (m *Matrix) Dims() (int, int) {
	return len(m.Slides), len(m.Columns)
}

// Row returns the covariate row for the named slide.
func (m *Matrix) Row(slide string) ([]float64, bool) {
	for i, name := range m.Slides {
		if name == slide {
			return m.Values[i], true
		}
	}
	return nil, false
}
