// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store loads and saves the tracking spreadsheet. The workbook's
// first row is the header; columns the pipeline does not know are carried
// through untouched in each row's Extra bag, so a hand-curated workbook
// survives bot runs. See docs/ARCHITECTURE.md § Store.
package store

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/paw-tracker/pkg/types"
)

// DefaultSheet is the worksheet used when the config does not name one.
const DefaultSheet = "Sheet1"

// Load reads the workbook and returns its rows together with the column
// order to use on save: the workbook's own header order, with any missing
// required columns appended. An absent or unreadable workbook is an error;
// the caller treats it as fatal before any fetch starts.
func Load(path, sheet string) ([]types.Row, []string, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store workbook %s: %w", path, err)
	}
	defer f.Close()

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	var header []string
	if len(cells) > 0 {
		header = cells[0]
	}
	columns := mergeColumns(header)

	var rows []types.Row
	for _, line := range cells[min(1, len(cells)):] {
		var r types.Row
		empty := true
		for i, col := range header {
			val := ""
			if i < len(line) {
				val = line[i]
			}
			if val != "" {
				empty = false
			}
			setColumnValue(&r, col, val)
		}
		// GetRows can yield trailing fully empty lines; keep the store tidy.
		if empty {
			continue
		}
		rows = append(rows, r)
	}
	return rows, columns, nil
}

// Save writes the rows under the given column order, replacing the sheet's
// previous contents. The write is whole-file: the pipeline saves exactly
// once, after a run has fully succeeded.
func Save(path, sheet string, rows []types.Row, columns []string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if len(columns) == 0 {
		columns = RequiredColumns()
	}

	f := excelize.NewFile()
	defer f.Close()
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("naming sheet %q: %w", sheet, err)
		}
	}

	if err := writeLine(f, sheet, 1, toCells(columns)); err != nil {
		return err
	}
	for i, r := range rows {
		line := make([]interface{}, len(columns))
		for j, col := range columns {
			line[j] = columnValue(r, col)
		}
		if err := writeLine(f, sheet, i+2, line); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving store workbook %s: %w", path, err)
	}
	return nil
}

// Create writes a fresh workbook containing only the required header.
func Create(path, sheet string) error {
	return Save(path, sheet, nil, RequiredColumns())
}

// mergeColumns keeps the workbook's header order and appends any required
// column it lacks.
func mergeColumns(header []string) []string {
	columns := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))
	for _, col := range header {
		if col == "" || seen[col] {
			continue
		}
		columns = append(columns, col)
		seen[col] = true
	}
	for _, col := range RequiredColumns() {
		if !seen[col] {
			columns = append(columns, col)
			seen[col] = true
		}
	}
	return columns
}

func writeLine(f *excelize.File, sheet string, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell coordinates for row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", rowNum, err)
	}
	return nil
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
