package app

import (
	"errors"
	"strings"
	"testing"

	"specsearch/adapters/ols"
	"specsearch/domain/core"
	"specsearch/domain/frame"
	"specsearch/domain/spec"
	"specsearch/internal/testkit"
	"specsearch/ports"
)

// stubFitter records every formula it is asked to fit and returns canned
// statistics for each right-hand-side term (interactions under their
// colon-joined name), omitting any term listed in missing.
type stubFitter struct {
	formulas []string
	missing  map[string]bool
}

func (s *stubFitter) Fit(formula string, data *frame.Frame) (map[string]ports.CoefficientStats, error) {
	s.formulas = append(s.formulas, formula)

	stats := map[string]ports.CoefficientStats{
		"Intercept": {Estimate: 0.1, StdError: 0.2, PValue: 0.6},
	}
	rhs := formula[strings.Index(formula, "~")+1:]
	for _, raw := range strings.Split(rhs, "+") {
		term := strings.TrimSpace(raw)
		if term == "" {
			continue
		}
		if strings.Contains(term, "*") {
			term = strings.ReplaceAll(term, "*", ":")
		}
		if s.missing[term] {
			continue
		}
		stats[term] = ports.CoefficientStats{Estimate: 1.0, StdError: 0.5, PValue: 0.03}
	}
	return stats, nil
}

func smallPanel(t *testing.T) *frame.Frame {
	t.Helper()
	return testkit.GeneratePanel(testkit.PanelOptions{
		Years:       []float64{2018, 2019, 2020},
		RowsPerYear: 10,
		Seed:        7,
	})
}

func TestRun_BaselineOnly(t *testing.T) {
	req := &spec.Request{
		Dependent:         "y",
		MainPredictors:    []string{"x1", "x2"},
		Controls:          []string{},
		Moderators:        []string{},
		YearVariable:      "year",
		DropEarliestYears: []int{0, 1},
		ModelType:         spec.ModelTypeOLS,
	}
	fitter := &stubFitter{}

	outcome, err := NewSearchService(fitter).Run(req, smallPanel(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One result per (variant x main predictor), all baseline.
	if len(outcome.Results) != 2*2 {
		t.Fatalf("expected 4 results, got %d", len(outcome.Results))
	}
	for _, r := range outcome.Results {
		if r.ModelLabel != LabelBaseline {
			t.Errorf("expected label %q, got %q", LabelBaseline, r.ModelLabel)
		}
	}
	if outcome.DataVariants != 2 {
		t.Errorf("expected 2 data variants, got %d", outcome.DataVariants)
	}
	if outcome.FormulasFitted != 2 {
		t.Errorf("expected 2 formulas fitted, got %d", outcome.FormulasFitted)
	}
}

func TestRun_IncrementalControls(t *testing.T) {
	req := &spec.Request{
		Dependent:         "y",
		MainPredictors:    []string{"x1"},
		Controls:          []string{"c1", "c2"},
		Moderators:        []string{},
		DropEarliestYears: []int{0},
		ModelType:         spec.ModelTypeOLS,
	}
	fitter := &stubFitter{}

	outcome, err := NewSearchService(fitter).Run(req, smallPanel(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Baseline plus one formula per control prefix.
	wantFormulas := []string{
		"y ~ x1",
		"y ~ x1 + c1",
		"y ~ x1 + c1 + c2",
	}
	if len(fitter.formulas) != len(wantFormulas) {
		t.Fatalf("expected formulas %v, got %v", wantFormulas, fitter.formulas)
	}
	for i, want := range wantFormulas {
		if fitter.formulas[i] != want {
			t.Errorf("formula %d: expected %q, got %q", i, want, fitter.formulas[i])
		}
	}

	labels := map[string]int{}
	for _, r := range outcome.Results {
		labels[r.ModelLabel]++
	}
	if labels[LabelBaseline] != 1 {
		t.Errorf("expected 1 baseline record, got %d", labels[LabelBaseline])
	}
	if labels["incremental_controls_1"] != 2 {
		t.Errorf("expected 2 records for incremental_controls_1, got %d", labels["incremental_controls_1"])
	}
	if labels["incremental_controls_2"] != 3 {
		t.Errorf("expected 3 records for incremental_controls_2, got %d", labels["incremental_controls_2"])
	}
}

func TestRun_ModerationChecks(t *testing.T) {
	req := &spec.Request{
		Dependent:         "y",
		MainPredictors:    []string{"x1", "x2"},
		Controls:          []string{"c1"},
		Moderators:        []string{"m1"},
		DropEarliestYears: []int{0},
		ModelType:         spec.ModelTypeOLS,
	}
	fitter := &stubFitter{}

	outcome, err := NewSearchService(fitter).Run(req, smallPanel(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var moderationFormulas []string
	for _, formula := range fitter.formulas {
		if strings.Contains(formula, "*") {
			moderationFormulas = append(moderationFormulas, formula)
		}
	}
	// One moderation formula per (moderator x predictor).
	if len(moderationFormulas) != 2 {
		t.Fatalf("expected 2 moderation formulas, got %v", moderationFormulas)
	}
	for _, formula := range moderationFormulas {
		// Controls appended unconditionally.
		if !strings.Contains(formula, "c1") {
			t.Errorf("moderation formula missing controls: %q", formula)
		}
	}
	if moderationFormulas[0] != "y ~ x1 + m1 + x1*m1 + c1" {
		t.Errorf("unexpected moderation formula %q", moderationFormulas[0])
	}

	var interactionRecords int
	for _, r := range outcome.Results {
		if strings.HasPrefix(r.ModelLabel, "moderation_") && strings.Contains(r.Coefficient, ":") {
			interactionRecords++
		}
	}
	if interactionRecords != 2 {
		t.Errorf("expected 2 interaction coefficient records, got %d", interactionRecords)
	}
}

func TestRun_MissingFocusTermSkippedSilently(t *testing.T) {
	req := &spec.Request{
		Dependent:         "y",
		MainPredictors:    []string{"x1"},
		Controls:          []string{},
		Moderators:        []string{"m1"},
		DropEarliestYears: []int{0},
		ModelType:         spec.ModelTypeOLS,
	}
	fitter := &stubFitter{missing: map[string]bool{"x1:m1": true}}

	outcome, err := NewSearchService(fitter).Run(req, smallPanel(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range outcome.Results {
		if r.Coefficient == "x1:m1" {
			t.Errorf("dropped term should not have been recorded: %+v", r)
		}
	}
}

func TestRun_YearVariableMissing(t *testing.T) {
	req := &spec.Request{
		Dependent:         "y",
		MainPredictors:    []string{"x1"},
		YearVariable:      "period",
		DropEarliestYears: []int{0},
		ModelType:         spec.ModelTypeOLS,
	}

	_, err := NewSearchService(&stubFitter{}).Run(req, smallPanel(t))
	if !errors.Is(err, core.ErrColumnMissing) {
		t.Fatalf("expected ErrColumnMissing, got %v", err)
	}
}

func TestRun_EndToEndWithOLSEngine(t *testing.T) {
	req := &spec.Request{
		Dependent:         "y",
		MainPredictors:    []string{"x1", "x2"},
		Controls:          []string{"c1", "c2"},
		Moderators:        []string{"m1"},
		YearVariable:      "year",
		DropEarliestYears: []int{0, 1},
		ModelType:         spec.ModelTypeOLS,
	}
	panel := testkit.GeneratePanel(testkit.DefaultPanelOptions())

	outcome, err := NewSearchService(ols.NewEngine()).Run(req, panel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Per variant: baseline + 2 incremental + 2 moderation formulas.
	if outcome.FormulasFitted != 2*(1+2+2) {
		t.Errorf("expected 10 formulas fitted, got %d", outcome.FormulasFitted)
	}

	labels := map[string]bool{}
	for _, r := range outcome.Results {
		labels[r.ModelLabel] = true

		if r.Significant1 && !r.Significant5 {
			t.Errorf("non-monotone significance flags: %+v", r)
		}
		if r.Significant5 && !r.Significant10 {
			t.Errorf("non-monotone significance flags: %+v", r)
		}
		if r.PValue < 0 || r.PValue > 1 {
			t.Errorf("p-value outside [0,1]: %+v", r)
		}
	}

	for _, want := range []string{
		LabelBaseline,
		"incremental_controls_1",
		"incremental_controls_2",
		"moderation_x1_x_m1",
		"moderation_x2_x_m1",
	} {
		if !labels[want] {
			t.Errorf("expected label %q in results, got %v", want, labels)
		}
	}
}
