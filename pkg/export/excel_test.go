package export_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/pkg/export"
)

func TestEntriesWorkbookRows(t *testing.T) {
	entries := []models.MilkEntry{
		{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), Cow: 4, Buffalo: 2},
		{Date: time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), Cow: 1.5, Buffalo: 0},
	}

	buf, err := export.EntriesWorkbook(entries)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Milk Entries")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Date", "Cow (L)", "Buffalo (L)", "Total (L)"}, rows[0])
	assert.Equal(t, "2024-03-10", rows[1][0])
	assert.Equal(t, "6", rows[1][3])
	assert.Equal(t, "1.5", rows[2][1])
}

func TestEntriesWorkbookEmpty(t *testing.T) {
	buf, err := export.EntriesWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Milk Entries")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "milk-entries-ravi-kumar.xlsx", export.Filename("Ravi Kumar"))
	assert.Equal(t, "milk-entries-customer.xlsx", export.Filename("!!!"))
}
