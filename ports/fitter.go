package ports

import (
	"specsearch/domain/frame"
)

// CoefficientStats holds the per-term statistics returned by a model fit.
type CoefficientStats struct {
	Estimate float64
	StdError float64
	PValue   float64
}

// ModelFitter fits a formula against a dataset and returns statistics for
// every term the engine retained, keyed by canonical term name. Terms the
// engine drops (collinear or duplicate) are simply absent from the map.
// Any fitting failure is returned as an error and is fatal for the run.
type ModelFitter interface {
	Fit(formula string, data *frame.Frame) (map[string]CoefficientStats, error)
}
