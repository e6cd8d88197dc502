// Package importer reads product rows from spreadsheets for bulk import.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andy/invoicer/internal/domain"
)

var (
	requiredColumns = []string{"name", "wholesale_price", "retail_price", "base_unit"}
	optionalColumns = []string{"alt_unit", "unit_ratio", "description"}
)

// ReadFile loads product rows from an .xlsx workbook (first sheet) or a .csv
// file. The first row is the header. A missing required column rejects the
// whole file; individual rows are not validated here.
func ReadFile(path string) ([]domain.ProductFields, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, domain.NewValidationError("file", "must be an .xlsx or .csv file")
	}
	if err != nil {
		return nil, err
	}

	return mapRows(rows)
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w: %w", domain.ErrIO, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.NewValidationError("file", "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w: %w", sheets[0], domain.ErrIO, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w: %w", domain.ErrIO, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w: %w", domain.ErrIO, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// mapRows converts raw cells using the header row. Fully blank rows are dropped.
func mapRows(rows [][]string) ([]domain.ProductFields, error) {
	if len(rows) == 0 {
		return nil, domain.NewValidationError("file", "is empty")
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	verr := &domain.ValidationError{}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			verr.Add(col, "column is missing")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]domain.ProductFields, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		out = append(out, domain.ProductFields{
			Name:           cell(row, "name"),
			WholesalePrice: cell(row, "wholesale_price"),
			RetailPrice:    cell(row, "retail_price"),
			BaseUnit:       cell(row, "base_unit"),
			AltUnit:        cell(row, optionalColumns[0]),
			UnitRatio:      cell(row, optionalColumns[1]),
			Description:    cell(row, optionalColumns[2]),
		})
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
