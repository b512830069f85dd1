package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"specsearch/domain/frame"
	"specsearch/domain/result"
	"specsearch/domain/run"
)

func sampleResults() []result.CoefficientResult {
	return []result.CoefficientResult{
		result.New("incremental_controls_1", "y ~ x1 + c1", 0, "x1", 1.5234, 0.2211, 0.0012),
		result.New("baseline_main_effects", "y ~ x1", 0, "x1", 1.4567, 0.3001, 0.03),
		result.New("baseline_main_effects", "y ~ x1", 1, "x1", 1.2345, 0.4321, 0.07),
	}
}

func TestWriteAll_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	results := sampleResults()
	manifest := run.NewManifest("panel.csv", "config.json", dir)
	manifest.RecordCount = len(results)

	if err := NewWriter(dir).WriteAll(results, nil, manifest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// JSON round-trip.
	jsonDoc, err := os.ReadFile(filepath.Join(dir, ResultsJSONName))
	if err != nil {
		t.Fatalf("failed to read results JSON: %v", err)
	}
	var records []result.Record
	if err := json.Unmarshal(jsonDoc, &records); err != nil {
		t.Fatalf("failed to unmarshal results JSON: %v", err)
	}
	if len(records) != len(results) {
		t.Fatalf("expected %d JSON records, got %d", len(results), len(records))
	}
	for i, want := range result.Records(results) {
		if records[i] != want {
			t.Errorf("JSON record %d: expected %+v, got %+v", i, want, records[i])
		}
	}

	// CSV round-trip.
	csvFile, err := os.Open(filepath.Join(dir, ResultsCSVName))
	if err != nil {
		t.Fatalf("failed to open results CSV: %v", err)
	}
	defer csvFile.Close()
	rows, err := csv.NewReader(csvFile).ReadAll()
	if err != nil {
		t.Fatalf("failed to read results CSV: %v", err)
	}
	if len(rows) != len(results)+1 {
		t.Fatalf("expected %d CSV rows incl. header, got %d", len(results)+1, len(rows))
	}
	for i, want := range result.Records(results) {
		row := rows[i+1]
		if row[0] != want.ModelLabel || row[1] != want.Formula || row[3] != want.Coefficient {
			t.Errorf("CSV row %d text fields mismatch: %v", i, row)
		}
		estimate, err := strconv.ParseFloat(row[4], 64)
		if err != nil || estimate != want.Estimate {
			t.Errorf("CSV row %d estimate not recoverable: %v (%v)", i, row[4], err)
		}
		pValue, err := strconv.ParseFloat(row[6], 64)
		if err != nil || pValue != want.PValue {
			t.Errorf("CSV row %d p-value not recoverable: %v (%v)", i, row[6], err)
		}
		if row[8] != strconv.FormatBool(want.SignificantAt5Pct) {
			t.Errorf("CSV row %d significance flag mismatch: %v", i, row)
		}
	}

	// Manifest and workbook exist.
	for _, name := range []string{ManifestName, ResultsXLSXName, SummaryName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected artifact %s: %v", name, err)
		}
	}
}

func TestWriteAll_IdempotentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir)

	if err := w.WriteAll(nil, nil, nil); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	// Writing into the already-existing directory is not an error.
	if err := w.WriteAll(sampleResults(), nil, nil); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleResults())

	if !strings.HasPrefix(summary, "# Model search summary") {
		t.Errorf("summary missing title: %q", summary)
	}

	// Groups in alphabetical label order.
	baselineIdx := strings.Index(summary, "## baseline_main_effects")
	controlsIdx := strings.Index(summary, "## incremental_controls_1")
	if baselineIdx == -1 || controlsIdx == -1 {
		t.Fatalf("summary missing group headers:\n%s", summary)
	}
	if baselineIdx > controlsIdx {
		t.Error("groups not in alphabetical order")
	}

	// Rows sorted by dropped years within a group: the drop-0 row first.
	first := strings.Index(summary, "|x1|0|1.4567|")
	second := strings.Index(summary, "|x1|1|1.2345|")
	if first == -1 || second == -1 || first > second {
		t.Errorf("baseline rows not sorted by dropped years:\n%s", summary)
	}

	// p=0.0012 row significant at every level, p=0.07 at 10% only.
	if !strings.Contains(summary, "|0.0012|✅|✅|✅|") {
		t.Errorf("expected all three significance marks for p=0.0012:\n%s", summary)
	}
	if !strings.Contains(summary, "|0.0700|✅|||") {
		t.Errorf("expected 10%%-only significance marks for p=0.07:\n%s", summary)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil); got != "No models were estimated." {
		t.Errorf("expected empty-run sentinel text, got %q", got)
	}
}

func TestProfileVariables(t *testing.T) {
	f, err := frame.New(
		[]string{"y", "x"},
		map[string][]float64{"y": {1, 2, 3, 4}, "x": {2, 4, 6, 8}},
	)
	if err != nil {
		t.Fatalf("failed to build frame: %v", err)
	}

	profiles := ProfileVariables([]string{"y", "x", "absent"}, f)
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Variable != "y" || profiles[0].Count != 4 {
		t.Errorf("unexpected profile %+v", profiles[0])
	}
	if profiles[1].Mean != 5 {
		t.Errorf("expected mean 5 for x, got %v", profiles[1].Mean)
	}

	rendered := RenderProfiles(profiles)
	if !strings.Contains(rendered, "|x|4|0|5.0000|") {
		t.Errorf("unexpected rendered profile:\n%s", rendered)
	}
}
