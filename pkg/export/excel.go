// Package export renders milk entries into downloadable spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

const entriesSheet = "Milk Entries"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// EntriesWorkbook renders a customer's entries into an xlsx workbook with
// Date / Cow / Buffalo / Total columns, oldest first.
func EntriesWorkbook(entries []models.MilkEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(entriesSheet)
	if err != nil {
		return nil, fmt.Errorf("create entries sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	header := []interface{}{"Date", "Cow (L)", "Buffalo (L)", "Total (L)"}
	if err := f.SetSheetRow(entriesSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, entry := range entries {
		row := []interface{}{
			entry.Date.Format("2006-01-02"),
			entry.Cow,
			entry.Buffalo,
			entry.TotalLiters(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("compute row cell: %w", err)
		}
		if err := f.SetSheetRow(entriesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write entry row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf, nil
}

// Filename builds a safe attachment name from a customer's display name.
func Filename(customerName string) string {
	safe := unsafeNameChars.ReplaceAllString(customerName, "-")
	safe = strings.Trim(strings.ToLower(safe), "-")
	if safe == "" {
		safe = "customer"
	}
	return fmt.Sprintf("milk-entries-%s.xlsx", safe)
}
