// Package testkit generates deterministic synthetic panel datasets for tests.
package testkit

import (
	"math/rand"

	"specsearch/domain/frame"
)

// PanelOptions controls the synthetic panel generator.
type PanelOptions struct {
	Years       []float64
	RowsPerYear int
	Seed        int64
}

// DefaultPanelOptions returns a small panel covering 2015-2019.
func DefaultPanelOptions() PanelOptions {
	return PanelOptions{
		Years:       []float64{2015, 2016, 2017, 2018, 2019},
		RowsPerYear: 40,
		Seed:        42,
	}
}

// GeneratePanel builds a panel with columns y, x1, x2, c1, c2, m1 and year.
// The outcome follows y = 1.5*x1 - 0.8*x2 + 0.5*c1 + 0.3*m1 + 0.4*x1*m1 + e
// with standard normal noise, so x1 and the x1:m1 interaction carry strong,
// recoverable signal.
func GeneratePanel(opts PanelOptions) *frame.Frame {
	rng := rand.New(rand.NewSource(opts.Seed))
	n := len(opts.Years) * opts.RowsPerYear

	columns := []string{"y", "x1", "x2", "c1", "c2", "m1", "year"}
	data := make(map[string][]float64, len(columns))
	for _, name := range columns {
		data[name] = make([]float64, 0, n)
	}

	for _, year := range opts.Years {
		for i := 0; i < opts.RowsPerYear; i++ {
			x1 := rng.NormFloat64()
			x2 := rng.NormFloat64()
			c1 := rng.NormFloat64()
			c2 := rng.NormFloat64()
			m1 := rng.NormFloat64()
			noise := rng.NormFloat64()
			y := 1.5*x1 - 0.8*x2 + 0.5*c1 + 0.3*m1 + 0.4*x1*m1 + noise

			data["y"] = append(data["y"], y)
			data["x1"] = append(data["x1"], x1)
			data["x2"] = append(data["x2"], x2)
			data["c1"] = append(data["c1"], c1)
			data["c2"] = append(data["c2"], c2)
			data["m1"] = append(data["m1"], m1)
			data["year"] = append(data["year"], year)
		}
	}

	panel, err := frame.New(columns, data)
	if err != nil {
		// The generator always produces rectangular data.
		panic(err)
	}
	return panel
}
