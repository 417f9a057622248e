// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package spreadsheet writes the extracted crosswalk to an xlsx workbook,
// with an optional CSV copy.
package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/crosswalk/pkg/types"
)

// DefaultSheet is the worksheet name used when none is configured.
const DefaultSheet = "relcd"

const (
	defaultSheetName = "Sheet1"
	columnWidth      = 36.0
)

// Write stores table in a single-sheet workbook at cfg.Path, replacing any
// existing file. When cfg.CSV is set a CSV copy is written beside it. Both
// files are written to a temporary name and renamed into place. Failures
// are reported as *types.WriteError.
func Write(cfg types.SpreadsheetConfig, table types.RawTable) error {
	if cfg.Path == "" {
		return &types.WriteError{Target: "spreadsheet", Err: fmt.Errorf("no spreadsheet path configured")}
	}
	sheet := cfg.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return &types.WriteError{Target: cfg.Path, Err: fmt.Errorf("creating directory: %w", err)}
	}

	if err := writeAtomic(cfg.Path, func(w io.Writer) error { return writeWorkbook(w, sheet, table) }); err != nil {
		return &types.WriteError{Target: cfg.Path, Err: err}
	}

	if cfg.CSV {
		csvPath := CSVPath(cfg.Path)
		if err := writeAtomic(csvPath, func(w io.Writer) error { return writeCSV(w, table) }); err != nil {
			return &types.WriteError{Target: csvPath, Err: err}
		}
	}
	return nil
}

// CSVPath returns the CSV copy's path for a workbook path.
func CSVPath(xlsxPath string) string {
	return strings.TrimSuffix(xlsxPath, filepath.Ext(xlsxPath)) + ".csv"
}

func writeWorkbook(w io.Writer, sheet string, table types.RawTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheetName, sheet); err != nil {
		return fmt.Errorf("naming sheet %q: %w", sheet, err)
	}

	header := make([]any, len(types.SpreadsheetHeader))
	for i, h := range types.SpreadsheetHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "C", columnWidth); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	for i, r := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Code, r.CWFCode, r.Description}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	return f.Write(w)
}

func writeCSV(w io.Writer, table types.RawTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.SpreadsheetHeader); err != nil {
		return err
	}
	for _, r := range table.Rows {
		if err := cw.Write([]string{r.Code, r.CWFCode, r.Description}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeAtomic writes through fill to a temp file next to dest and renames
// it over dest once fill and close succeed.
func writeAtomic(dest string, fill func(io.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".spreadsheet-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	fillErr := fill(tmpFile)
	closeErr := tmpFile.Close()
	if fillErr != nil {
		os.Remove(tmpPath)
		return fillErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
