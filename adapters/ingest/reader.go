// Package ingest loads delimited and Excel datasets into numeric frames.
package ingest

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"specsearch/domain/frame"
	"specsearch/internal"
)

// Reader handles reading CSV and Excel dataset files.
type Reader struct {
	filePath string
	fileType string // "csv" or "xlsx"
}

// NewReader creates a reader for the given file, choosing the format from
// the file extension. Anything that is not .csv is read as an Excel workbook.
func NewReader(filePath string) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Read loads the dataset into a frame. The first row names the columns;
// every cell that does not parse as a number becomes NaN (missing).
func (r *Reader) Read() (*frame.Frame, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("dataset file not found: %s", r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	internal.DefaultLogger.Debug("[Reader] CSV file read (%d rows)", len(rows))
	return rows, nil
}

func (r *Reader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	internal.DefaultLogger.Debug("[Reader] sheet %q read (%d rows)", sheets[0], len(rows))
	return rows, nil
}

// processRows converts raw string rows into a numeric frame.
func (r *Reader) processRows(rows [][]string) (*frame.Frame, error) {
	headerRow := rows[0]
	columns := make([]string, 0, len(headerRow))
	seen := make(map[string]bool, len(headerRow))
	for i, header := range headerRow {
		name := strings.TrimSpace(header)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column name %q in header", name)
		}
		seen[name] = true
		columns = append(columns, name)
	}

	data := make(map[string][]float64, len(columns))
	for _, name := range columns {
		data[name] = make([]float64, 0, len(rows)-1)
	}

	for _, row := range rows[1:] {
		for i, name := range columns {
			value := math.NaN()
			if i < len(row) {
				cell := strings.TrimSpace(row[i])
				if cell != "" {
					if parsed, err := strconv.ParseFloat(cell, 64); err == nil {
						value = parsed
					}
				}
			}
			data[name] = append(data[name], value)
		}
	}

	return frame.New(columns, data)
}
