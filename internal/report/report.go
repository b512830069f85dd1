// Package report serializes a run's coefficient results into the output
// directory: a CSV table, a JSON record list, an Excel workbook, a Markdown
// summary and the run manifest.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"specsearch/domain/result"
	"specsearch/domain/run"
	"specsearch/internal"
)

// Output artifact names inside the output directory.
const (
	ResultsCSVName  = "regression_search_results.csv"
	ResultsJSONName = "regression_search_results.json"
	ResultsXLSXName = "regression_search_results.xlsx"
	SummaryName     = "regression_search_summary.md"
	ProfileName     = "dataset_profile.md"
	ManifestName    = "run_manifest.json"
)

// emptySummary is the complete summary text when no models were estimated.
const emptySummary = "No models were estimated."

var resultColumns = []string{
	"model_label", "formula", "dropped_earliest_years", "coefficient",
	"estimate", "std_error", "p_value",
	"significant_at_10pct", "significant_at_5pct", "significant_at_1pct",
}

// Writer writes all artifacts of one run into a single output directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a writer for the given output directory.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// WriteAll creates the output directory if needed (idempotent) and writes
// every artifact. Any write failure aborts the run.
func (w *Writer) WriteAll(results []result.CoefficientResult, profiles []VariableProfile, manifest *run.Manifest) error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", w.outputDir, err)
	}

	records := result.Records(results)
	if err := w.writeCSV(records); err != nil {
		return err
	}
	if err := w.writeJSON(records); err != nil {
		return err
	}
	if err := w.writeExcel(records); err != nil {
		return err
	}
	if err := w.writeFile(SummaryName, []byte(Summarize(results))); err != nil {
		return err
	}
	if len(profiles) > 0 {
		if err := w.writeFile(ProfileName, []byte(RenderProfiles(profiles))); err != nil {
			return err
		}
	}
	if manifest != nil {
		if err := w.writeManifest(manifest); err != nil {
			return err
		}
	}

	internal.DefaultLogger.Info("[Report] wrote %d records to %s", len(records), w.outputDir)
	return nil
}

func (w *Writer) writeCSV(records []result.Record) error {
	file, err := os.Create(filepath.Join(w.outputDir, ResultsCSVName))
	if err != nil {
		return fmt.Errorf("failed to create results CSV: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(resultColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ModelLabel,
			r.Formula,
			strconv.Itoa(r.DroppedEarliestYears),
			r.Coefficient,
			formatFloat(r.Estimate),
			formatFloat(r.StdError),
			formatFloat(r.PValue),
			strconv.FormatBool(r.SignificantAt10Pct),
			strconv.FormatBool(r.SignificantAt5Pct),
			strconv.FormatBool(r.SignificantAt1Pct),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (w *Writer) writeJSON(records []result.Record) error {
	// An empty run still writes a valid (empty) record list.
	if records == nil {
		records = []result.Record{}
	}
	doc, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results JSON: %w", err)
	}
	return w.writeFile(ResultsJSONName, doc)
}

func (w *Writer) writeExcel(records []result.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(resultColumns))
	for i, name := range resultColumns {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range records {
		row := []interface{}{
			r.ModelLabel, r.Formula, r.DroppedEarliestYears, r.Coefficient,
			r.Estimate, r.StdError, r.PValue,
			r.SignificantAt10Pct, r.SignificantAt5Pct, r.SignificantAt1Pct,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SaveAs(filepath.Join(w.outputDir, ResultsXLSXName)); err != nil {
		return fmt.Errorf("failed to write results workbook: %w", err)
	}
	return nil
}

func (w *Writer) writeManifest(manifest *run.Manifest) error {
	if err := manifest.Validate(); err != nil {
		return err
	}
	doc, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run manifest: %w", err)
	}
	return w.writeFile(ManifestName, doc)
}

func (w *Writer) writeFile(name string, content []byte) error {
	path := filepath.Join(w.outputDir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Summarize renders the human-readable Markdown summary: one table per model
// label (alphabetical), rows sorted by (dropped years, coefficient).
func Summarize(results []result.CoefficientResult) string {
	if len(results) == 0 {
		return emptySummary
	}

	grouped := make(map[string][]result.CoefficientResult)
	var labels []string
	for _, item := range results {
		if _, ok := grouped[item.ModelLabel]; !ok {
			labels = append(labels, item.ModelLabel)
		}
		grouped[item.ModelLabel] = append(grouped[item.ModelLabel], item)
	}
	sort.Strings(labels)

	lines := []string{"# Model search summary", ""}
	for _, label := range labels {
		group := grouped[label]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].DroppedYears != group[j].DroppedYears {
				return group[i].DroppedYears < group[j].DroppedYears
			}
			return group[i].Coefficient < group[j].Coefficient
		})

		lines = append(lines,
			fmt.Sprintf("## %s", label),
			"|Coefficient|Drop earliest years|Estimate|Std. Error|p-value|Sig. 10%|Sig. 5%|Sig. 1%|",
			"|---|---|---|---|---|---|---|---|")
		for _, entry := range group {
			lines = append(lines, fmt.Sprintf("|%s|%d|%.4f|%.4f|%.4f|%s|%s|%s|",
				entry.Coefficient,
				entry.DroppedYears,
				entry.Estimate,
				entry.StdError,
				entry.PValue,
				checkmark(entry.Significant10),
				checkmark(entry.Significant5),
				checkmark(entry.Significant1),
			))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func checkmark(significant bool) string {
	if significant {
		return "✅"
	}
	return ""
}

// formatFloat writes the shortest representation that round-trips, so CSV
// readers recover the exact field values.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
