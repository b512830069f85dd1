package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"specsearch/domain/frame"
)

// VariableProfile holds descriptive statistics for one referenced variable.
type VariableProfile struct {
	Variable string  `json:"variable"`
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// ProfileVariables computes descriptive statistics for each named variable
// present in the frame. Variables absent from the frame are skipped; they
// will surface as fit errors if a formula references them.
func ProfileVariables(names []string, data *frame.Frame) []VariableProfile {
	var profiles []VariableProfile
	for _, name := range names {
		column, ok := data.Column(name)
		if !ok {
			continue
		}
		var values stats.Float64Data
		missing := 0
		for _, v := range column {
			if math.IsNaN(v) {
				missing++
				continue
			}
			values = append(values, v)
		}

		profile := VariableProfile{Variable: name, Count: len(values), Missing: missing}
		if len(values) > 0 {
			profile.Mean, _ = stats.Mean(values)
			profile.Min, _ = stats.Min(values)
			profile.Max, _ = stats.Max(values)
		}
		if len(values) > 1 {
			profile.StdDev, _ = stats.StandardDeviation(values)
		}
		profiles = append(profiles, profile)
	}
	return profiles
}

// RenderProfiles renders the dataset profile as a Markdown table.
func RenderProfiles(profiles []VariableProfile) string {
	lines := []string{
		"# Dataset profile",
		"",
		"|Variable|N|Missing|Mean|Std. Dev|Min|Max|",
		"|---|---|---|---|---|---|---|",
	}
	for _, p := range profiles {
		lines = append(lines, fmt.Sprintf("|%s|%d|%d|%.4f|%.4f|%.4f|%.4f|",
			p.Variable, p.Count, p.Missing, p.Mean, p.StdDev, p.Min, p.Max))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}
