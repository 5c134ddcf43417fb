package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"carvalu/models"
)

// TrimsSheet is the worksheet holding the trims catalogue.
const TrimsSheet = "Trims"

var trimHeaders = []string{"id", "make", "model", "year", "trim", "bodytype", "drivetrain"}

// WriteTrimCatalogue saves the catalogue as an XLSX workbook at path.
func WriteTrimCatalogue(path string, entries []models.TrimEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TrimsSheet); err != nil {
		return fmt.Errorf("xlsx: name sheet: %w", err)
	}

	for i, h := range trimHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(TrimsSheet, cell, h); err != nil {
			return fmt.Errorf("xlsx: write header: %w", err)
		}
	}

	for i, e := range entries {
		row := i + 2
		values := []any{i, e.Make, e.Model, e.Year, e.Trim, e.BodyType, e.Drivetrain}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(TrimsSheet, cell, v); err != nil {
				return fmt.Errorf("xlsx: write row %d: %w", row, err)
			}
		}
	}

	_ = f.SetColWidth(TrimsSheet, "B", "C", 18)
	_ = f.SetColWidth(TrimsSheet, "E", "E", 28)
	_ = f.SetColWidth(TrimsSheet, "F", "F", 16)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", path, err)
	}
	return nil
}
