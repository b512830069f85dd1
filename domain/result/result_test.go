package result

import (
	"testing"
)

func TestNew_SignificanceFlags(t *testing.T) {
	tests := []struct {
		name   string
		pValue float64
		sig10  bool
		sig5   bool
		sig1   bool
	}{
		{name: "highly significant", pValue: 0.005, sig10: true, sig5: true, sig1: true},
		{name: "significant at 5 percent", pValue: 0.03, sig10: true, sig5: true, sig1: false},
		{name: "significant at 10 percent only", pValue: 0.07, sig10: true, sig5: false, sig1: false},
		{name: "not significant", pValue: 0.5, sig10: false, sig5: false, sig1: false},
		{name: "exactly at threshold is not significant", pValue: 0.05, sig10: true, sig5: false, sig1: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("baseline_main_effects", "y ~ x1", 0, "x1", 1.0, 0.5, tt.pValue)

			if r.Significant10 != tt.sig10 {
				t.Errorf("Significant10: expected %v, got %v", tt.sig10, r.Significant10)
			}
			if r.Significant5 != tt.sig5 {
				t.Errorf("Significant5: expected %v, got %v", tt.sig5, r.Significant5)
			}
			if r.Significant1 != tt.sig1 {
				t.Errorf("Significant1: expected %v, got %v", tt.sig1, r.Significant1)
			}

			// Flags must be monotone: 1% implies 5% implies 10%.
			if r.Significant1 && !r.Significant5 {
				t.Error("Significant1 without Significant5")
			}
			if r.Significant5 && !r.Significant10 {
				t.Error("Significant5 without Significant10")
			}
		})
	}
}

func TestAsRecord(t *testing.T) {
	r := New("moderation_x1_x_m1", "y ~ x1 + m1 + x1*m1", 2, "x1:m1", -0.42, 0.1, 0.002)

	record := r.AsRecord()
	if record.ModelLabel != "moderation_x1_x_m1" {
		t.Errorf("unexpected model label %q", record.ModelLabel)
	}
	if record.Formula != "y ~ x1 + m1 + x1*m1" {
		t.Errorf("unexpected formula %q", record.Formula)
	}
	if record.DroppedEarliestYears != 2 {
		t.Errorf("unexpected dropped years %d", record.DroppedEarliestYears)
	}
	if record.Coefficient != "x1:m1" {
		t.Errorf("unexpected coefficient %q", record.Coefficient)
	}
	if record.Estimate != -0.42 || record.StdError != 0.1 || record.PValue != 0.002 {
		t.Errorf("numeric fields not carried over: %+v", record)
	}
	if !record.SignificantAt10Pct || !record.SignificantAt5Pct || !record.SignificantAt1Pct {
		t.Errorf("significance flags not carried over: %+v", record)
	}
}
