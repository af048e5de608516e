package archive_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/memory"
	"github.com/mamadbah2/dairy/internal/service/archive"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestRunArchivesPreviousMonthOnly(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")

	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: day(2024, 1, 5), Cow: 3})
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: day(2024, 1, 31), Cow: 4})
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: day(2024, 2, 1), Cow: 5})
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: day(2023, 12, 31), Cow: 6})

	archiver := archive.NewArchiver(store, store, zaptest.NewLogger(t))
	summary, err := archiver.Run(context.Background(), day(2024, 2, 10))
	require.NoError(t, err)

	assert.Equal(t, "2024-01", summary.Month)
	assert.Equal(t, 2, summary.Archived)
	assert.Equal(t, 2, summary.Purged)

	for _, archived := range store.Archived() {
		assert.Equal(t, "2024-01", archived.ArchivedMonth)
		assert.Equal(t, time.January, archived.Date.Month())
	}

	// December and February entries stay live.
	remaining := store.Entries()
	require.Len(t, remaining, 2)
	for _, entry := range remaining {
		assert.NotEqual(t, time.January, entry.Date.Month())
	}
}

func TestRunWithNothingToArchive(t *testing.T) {
	store := memory.NewStore()

	archiver := archive.NewArchiver(store, store, zaptest.NewLogger(t))
	summary, err := archiver.Run(context.Background(), day(2024, 2, 10))
	require.NoError(t, err)

	assert.Equal(t, "2024-01", summary.Month)
	assert.Zero(t, summary.Archived)
	assert.Zero(t, summary.Purged)
	assert.Empty(t, store.Archived())
}
