package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/paw-tracker/pkg/types"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paw.xlsx")
	rows := []types.Row{
		{
			EID:        "2-s2.0-1",
			DOI:        "10.1/a",
			Title:      "Plasma-activated water",
			Authors:    "Kim J.; Park S.",
			CitedBy:    "12",
			CoverDate:  "2026-02-15",
			Year:       "2026",
			Include:    "YES",
			Screening:  "new",
			AddedAt:    "2026-08-30T12:00:00Z",
			Domain:     "agriculture",
			PH:         "1",
			Core6Count: "1",
		},
		{EID: "2-s2.0-2", Title: "Second entry", Year: "2025"},
	}

	require.NoError(t, Save(path, "", rows, nil))

	got, columns, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, RequiredColumns(), columns)
	require.Len(t, got, 2)
	assert.Equal(t, rows[0].EID, got[0].EID)
	assert.Equal(t, rows[0].AddedAt, got[0].AddedAt)
	assert.Equal(t, rows[0].Domain, got[0].Domain)
	assert.Equal(t, rows[0].PH, got[0].PH)
	assert.Equal(t, "Second entry", got[1].Title)
}

func TestLoadCarriesUnknownColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paw.xlsx")

	// Build a workbook the way a human curator would: an extra "Notes"
	// column the schema knows nothing about.
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow(DefaultSheet, "A1", &[]interface{}{ColEID, ColTitle, "Notes"}))
	require.NoError(t, f.SetSheetRow(DefaultSheet, "A2", &[]interface{}{"2-s2.0-1", "First", "check methods section"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, columns, err := Load(path, "")
	require.NoError(t, err)

	// The workbook's own order leads, missing required columns follow.
	assert.Equal(t, ColEID, columns[0])
	assert.Equal(t, ColTitle, columns[1])
	assert.Equal(t, "Notes", columns[2])
	assert.Len(t, columns, len(RequiredColumns())+1)

	require.Len(t, rows, 1)
	assert.Equal(t, "check methods section", rows[0].Extra["Notes"])

	// A full save keeps the curator's column and value.
	require.NoError(t, Save(path, "", rows, columns))
	again, _, err := Load(path, "")
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "check methods section", again[0].Extra["Notes"])
}

func TestLoadSkipsEmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paw.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow(DefaultSheet, "A1", &[]interface{}{ColEID, ColTitle}))
	require.NoError(t, f.SetSheetRow(DefaultSheet, "A2", &[]interface{}{"", ""}))
	require.NoError(t, f.SetSheetRow(DefaultSheet, "A3", &[]interface{}{"2-s2.0-1", "Kept"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, _, err := Load(path, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kept", rows[0].Title)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.xlsx"), "")
	assert.Error(t, err)
}

func TestLoadMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paw.xlsx")
	require.NoError(t, Create(path, "Tracker"))

	_, _, err := Load(path, "WrongSheet")
	assert.Error(t, err)
}

func TestCreateWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paw.xlsx")
	require.NoError(t, Create(path, "Tracker"))

	rows, columns, err := Load(path, "Tracker")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, RequiredColumns(), columns)
}

func TestMergeColumnsDeduplicates(t *testing.T) {
	columns := mergeColumns([]string{ColTitle, "", ColTitle, "Notes"})
	assert.Equal(t, ColTitle, columns[0])
	assert.Equal(t, "Notes", columns[1])
	assert.Len(t, columns, len(RequiredColumns())+1)
}
