// Package result defines the coefficient diagnostics recorded for every
// fitted specification.
package result

// Significance thresholds for the three indicator flags.
const (
	Threshold10 = 0.1
	Threshold5  = 0.05
	Threshold1  = 0.01
)

// CoefficientResult is one recorded coefficient from one fitted model.
// Created immediately after a fit and immutable thereafter.
type CoefficientResult struct {
	ModelLabel    string
	Formula       string
	DroppedYears  int
	Coefficient   string
	Estimate      float64
	StdError      float64
	PValue        float64
	Significant10 bool
	Significant5  bool
	Significant1  bool
}

// New builds a coefficient result, deriving the significance flags from the
// p-value. A flag is set iff the p-value is strictly below its threshold, so
// the flags are monotone: 1% implies 5% implies 10%.
func New(label, formula string, droppedYears int, coefficient string, estimate, stdError, pValue float64) CoefficientResult {
	return CoefficientResult{
		ModelLabel:    label,
		Formula:       formula,
		DroppedYears:  droppedYears,
		Coefficient:   coefficient,
		Estimate:      estimate,
		StdError:      stdError,
		PValue:        pValue,
		Significant10: pValue < Threshold10,
		Significant5:  pValue < Threshold5,
		Significant1:  pValue < Threshold1,
	}
}

// Record is the flat serialization shared by the CSV, JSON, Excel and
// database outputs.
type Record struct {
	ModelLabel           string  `json:"model_label" db:"model_label"`
	Formula              string  `json:"formula" db:"formula"`
	DroppedEarliestYears int     `json:"dropped_earliest_years" db:"dropped_earliest_years"`
	Coefficient          string  `json:"coefficient" db:"coefficient"`
	Estimate             float64 `json:"estimate" db:"estimate"`
	StdError             float64 `json:"std_error" db:"std_error"`
	PValue               float64 `json:"p_value" db:"p_value"`
	SignificantAt10Pct   bool    `json:"significant_at_10pct" db:"significant_at_10pct"`
	SignificantAt5Pct    bool    `json:"significant_at_5pct" db:"significant_at_5pct"`
	SignificantAt1Pct    bool    `json:"significant_at_1pct" db:"significant_at_1pct"`
}

// AsRecord converts the result to its flat serialization.
func (r CoefficientResult) AsRecord() Record {
	return Record{
		ModelLabel:           r.ModelLabel,
		Formula:              r.Formula,
		DroppedEarliestYears: r.DroppedYears,
		Coefficient:          r.Coefficient,
		Estimate:             r.Estimate,
		StdError:             r.StdError,
		PValue:               r.PValue,
		SignificantAt10Pct:   r.Significant10,
		SignificantAt5Pct:    r.Significant5,
		SignificantAt1Pct:    r.Significant1,
	}
}

// Records converts an ordered result list to its flat serialization.
func Records(results []CoefficientResult) []Record {
	records := make([]Record, len(results))
	for i, r := range results {
		records[i] = r.AsRecord()
	}
	return records
}
