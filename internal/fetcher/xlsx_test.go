package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeWorkbook(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)

	for _, row := range rows {
		r := sheet.AddRow()
		for _, val := range row {
			r.AddCell().SetString(val)
		}
	}

	path := filepath.Join(t.TempDir(), "blocks.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	rows := [][]string{
		{"STATE", "COUNTY", "TRACT", "BLKGRP", "P1_001N"},
		{"17", "031", "839000", "2", "10"},
	}
	path := writeWorkbook(t, "PL94", rows)

	t.Run("first sheet by default", func(t *testing.T) {
		got, err := ReadXLSX(path, XLSXOptions{})
		require.NoError(t, err)
		assert.Equal(t, rows, got)
	})

	t.Run("sheet by name", func(t *testing.T) {
		got, err := ReadXLSX(path, XLSXOptions{SheetName: "PL94"})
		require.NoError(t, err)
		assert.Equal(t, rows, got)
	})

	t.Run("unknown sheet name", func(t *testing.T) {
		_, err := ReadXLSX(path, XLSXOptions{SheetName: "Nope"})
		require.Error(t, err)
	})

	t.Run("sheet index out of range", func(t *testing.T) {
		_, err := ReadXLSX(path, XLSXOptions{SheetIndex: 5})
		require.Error(t, err)
	})
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	require.Error(t, err)
}
