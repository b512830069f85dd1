// Package app drives the specification enumeration: baseline regressions,
// incremental controls, moderation checks and early-year sample trims.
package app

import (
	"fmt"

	"specsearch/domain/core"
	"specsearch/domain/frame"
	"specsearch/domain/result"
	"specsearch/domain/spec"
	"specsearch/internal"
	"specsearch/ports"
)

// Model labels emitted by the enumerators.
const (
	LabelBaseline            = "baseline_main_effects"
	labelIncrementalControls = "incremental_controls_%d"
	labelModeration          = "moderation_%s_x_%s"
)

// SearchService enumerates regression specifications over the data variants
// and records coefficient diagnostics for every fit. Fits run strictly one
// after another; the result list has a single writer.
type SearchService struct {
	fitter ports.ModelFitter
}

// Outcome is everything a completed run produced.
type Outcome struct {
	Results        []result.CoefficientResult
	FormulasFitted int
	DataVariants   int
}

// NewSearchService creates a search service around a fitting engine.
func NewSearchService(fitter ports.ModelFitter) *SearchService {
	return &SearchService{fitter: fitter}
}

// Run executes the full enumeration for the request against the dataset.
// Any configuration, dataset, formula or fitting error aborts the run; there
// is no partial-results fallback.
func (s *SearchService) Run(req *spec.Request, data *frame.Frame) (*Outcome, error) {
	if req.YearVariable != "" && !data.HasColumn(req.YearVariable) {
		return nil, fmt.Errorf("year variable %q is not present in the dataset: %w",
			req.YearVariable, core.ErrColumnMissing)
	}

	variants := map[int]*frame.Frame{0: data}
	if req.YearVariable != "" {
		var err error
		variants, err = frame.DropEarliestYears(data, req.YearVariable, req.DropEarliestYears)
		if err != nil {
			return nil, err
		}
	}

	outcome := &Outcome{DataVariants: len(variants)}
	if err := s.runBaselineAndControls(req, variants, outcome); err != nil {
		return nil, err
	}
	if err := s.runModerationChecks(req, variants, outcome); err != nil {
		return nil, err
	}

	internal.DefaultLogger.Info("[SearchService] fitted %d formulas across %d data variants, %d records",
		outcome.FormulasFitted, outcome.DataVariants, len(outcome.Results))
	return outcome, nil
}

// runBaselineAndControls fits, per data variant, the main-predictors-only
// baseline and then one model per control prefix, growing the prefix
// monotonically in configured order ("add one control at a time").
func (s *SearchService) runBaselineAndControls(req *spec.Request, variants map[int]*frame.Frame, outcome *Outcome) error {
	for _, dropCount := range frame.SortedDropCounts(variants) {
		subset := variants[dropCount]

		formula, err := spec.BuildFormula(req.Dependent, req.MainPredictors)
		if err != nil {
			return err
		}
		if err := s.fitAndRecord(outcome, LabelBaseline, formula, dropCount, subset, req.MainPredictors); err != nil {
			return err
		}

		for endIdx := 1; endIdx <= len(req.Controls); endIdx++ {
			activeControls := req.Controls[:endIdx]
			rhsTerms := append(append([]string{}, req.MainPredictors...), activeControls...)
			formula, err := spec.BuildFormula(req.Dependent, rhsTerms)
			if err != nil {
				return err
			}
			label := fmt.Sprintf(labelIncrementalControls, endIdx)
			if err := s.fitAndRecord(outcome, label, formula, dropCount, subset, rhsTerms); err != nil {
				return err
			}
		}
	}
	return nil
}

// runModerationChecks fits, per data variant, one interaction model per
// (moderator, predictor) pair. Controls are always included unconditionally.
func (s *SearchService) runModerationChecks(req *spec.Request, variants map[int]*frame.Frame, outcome *Outcome) error {
	if len(req.Moderators) == 0 {
		return nil
	}

	for _, dropCount := range frame.SortedDropCounts(variants) {
		subset := variants[dropCount]
		for _, moderator := range req.Moderators {
			for _, predictor := range req.MainPredictors {
				rhsTerms := []string{predictor, moderator, predictor + "*" + moderator}
				rhsTerms = append(rhsTerms, req.Controls...)
				formula, err := spec.BuildFormula(req.Dependent, rhsTerms)
				if err != nil {
					return err
				}
				label := fmt.Sprintf(labelModeration, predictor, moderator)
				// The engine reports the interaction under its colon-joined name.
				focusTerms := []string{predictor, moderator, predictor + ":" + moderator}
				if err := s.fitAndRecord(outcome, label, formula, dropCount, subset, focusTerms); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// fitAndRecord runs one regression and appends one result row per focus term
// the engine retained. Focus terms missing from the fitted statistics were
// dropped as collinear and are skipped silently.
func (s *SearchService) fitAndRecord(outcome *Outcome, label, formula string, dropCount int, subset *frame.Frame, focusTerms []string) error {
	internal.DefaultLogger.Debug("[SearchService] fitting %s (drop=%d): %s", label, dropCount, formula)
	coeffStats, err := s.fitter.Fit(formula, subset)
	if err != nil {
		return err
	}
	outcome.FormulasFitted++

	for _, term := range focusTerms {
		stats, ok := coeffStats[term]
		if !ok {
			continue
		}
		outcome.Results = append(outcome.Results, result.New(
			label, formula, dropCount, term,
			stats.Estimate, stats.StdError, stats.PValue,
		))
	}
	return nil
}
