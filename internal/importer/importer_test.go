package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/andy/invoicer/internal/domain"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "products.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestReadFile_Workbook(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Name", " Wholesale_Price ", "RETAIL_PRICE", "base_unit", "unit_ratio"},
		{"Widget", 8.5, 10, "pcs", ""},
		{},
		{"Crate", "20", "25", "box", 12},
	})

	rows, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "Widget" || rows[0].WholesalePrice != "8.5" || rows[0].RetailPrice != "10" {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[1].UnitRatio != "12" || rows[1].BaseUnit != "box" {
		t.Fatalf("unexpected second row %+v", rows[1])
	}
}

func TestReadFile_MissingColumn(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"name", "wholesale_price", "base_unit"},
		{"Widget", 8, "pcs"},
	})

	_, err := ReadFile(path)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || !verr.Has("retail_price") {
		t.Fatalf("expected missing retail_price column, got %v", err)
	}
}

func TestReadFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	data := "name,wholesale_price,retail_price,base_unit,description\n" +
		"Widget,8,10,pcs,\"blue, small\"\n" +
		"Gadget,abc,2,pcs\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Description != "blue, small" {
		t.Fatalf("unexpected description %q", rows[0].Description)
	}
	// Invalid values are passed through for the registry to reject
	if rows[1].WholesalePrice != "abc" || rows[1].Description != "" {
		t.Fatalf("unexpected second row %+v", rows[1])
	}
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	if _, err := ReadFile("products.ods"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
