package carryforward_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/memory"
	"github.com/mamadbah2/dairy/internal/service/carryforward"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func newRunner(t *testing.T, store *memory.Store) *carryforward.Runner {
	t.Helper()
	return carryforward.NewRunner(store, store, store, nil, zaptest.NewLogger(t))
}

func entryFor(t *testing.T, store *memory.Store, customerID primitive.ObjectID, on time.Time) *models.MilkEntry {
	t.Helper()
	entry, err := store.FindEntryForDay(context.Background(), customerID, on)
	require.NoError(t, err)
	return entry
}

func TestCarryCreatesTodayFromYesterday(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")
	today := day(2024, 1, 2)
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: day(2024, 1, 1), Cow: 5, Buffalo: 3})

	summary, err := newRunner(t, store).Run(context.Background(), today)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Carried)
	assert.Equal(t, 0, summary.Updated, "a created entry counts as carried, not updated")
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)

	carried := entryFor(t, store, customerID, today)
	assert.Equal(t, 5.0, carried.Cow)
	assert.Equal(t, 3.0, carried.Buffalo)
	assert.Empty(t, carried.Products)
}

func TestCarryIsIdempotentAcrossRuns(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")
	today := day(2024, 1, 2)
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: day(2024, 1, 1), Cow: 5, Buffalo: 3})

	runner := newRunner(t, store)

	first, err := runner.Run(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Carried)

	second, err := runner.Run(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Carried)
	assert.Equal(t, 1, second.Skipped, "second run must see the carried entry and skip")

	assert.Len(t, store.Entries(), 2, "exactly one entry per day")
	carried := entryFor(t, store, customerID, today)
	assert.Equal(t, 5.0, carried.Cow)
	assert.Equal(t, 3.0, carried.Buffalo)
}

func TestCarryFillsOnlyZeroFields(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")
	today := day(2024, 1, 2)
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: day(2024, 1, 1), Cow: 5, Buffalo: 3})
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: today, Cow: 2, Buffalo: 0})

	summary, err := newRunner(t, store).Run(context.Background(), today)
	require.NoError(t, err)

	// Today already has nonzero cow, so the whole entry is left alone even
	// though buffalo is zero.
	assert.Equal(t, 1, summary.Skipped)
	todayEntry := entryFor(t, store, customerID, today)
	assert.Equal(t, 2.0, todayEntry.Cow)
	assert.Equal(t, 0.0, todayEntry.Buffalo)
}

func TestCarryUpdatesAllZeroTodayEntry(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")
	today := day(2024, 1, 2)
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: day(2024, 1, 1), Cow: 5, Buffalo: 0})
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: today, Cow: 0, Buffalo: 0})

	summary, err := newRunner(t, store).Run(context.Background(), today)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Carried)
	assert.Equal(t, 1, summary.Updated, "filling a zero field counts as carried and updated")

	todayEntry := entryFor(t, store, customerID, today)
	assert.Equal(t, 5.0, todayEntry.Cow)
	assert.Equal(t, 0.0, todayEntry.Buffalo, "zero prior buffalo must not be written")
}

func TestNoPriorEntryMeansSkip(t *testing.T) {
	store := memory.NewStore()
	store.SeedCustomer("Fresh")
	today := day(2024, 1, 2)

	summary, err := newRunner(t, store).Run(context.Background(), today)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, store.Entries(), "no document may be created without a prior entry")
}

func TestProductsAreNeverCarriedForward(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")
	productID := store.SeedProduct("Ghee", 120)
	today := day(2024, 1, 2)
	store.SeedEntry(models.MilkEntry{
		CustomerID: customerID,
		Date:       day(2024, 1, 1),
		Cow:        5,
		Buffalo:    3,
		Products: []models.ProductLine{{
			ProductID: productID, ProductName: "Ghee", Quantity: 1, Cost: 120,
		}},
	})

	_, err := newRunner(t, store).Run(context.Background(), today)
	require.NoError(t, err)

	carried := entryFor(t, store, customerID, today)
	assert.Equal(t, 5.0, carried.Cow)
	assert.Empty(t, carried.Products, "a new day starts with no product line")
}

func TestCarrySkipsGapDays(t *testing.T) {
	// Entry on Jan 1 only; run on Jan 5 carries from the most recent entry,
	// not just literal yesterday.
	store := memory.NewStore()
	customerID := store.SeedCustomer("C")
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: day(2024, 1, 1), Cow: 4, Buffalo: 0})
	today := day(2024, 1, 5)

	summary, err := newRunner(t, store).Run(context.Background(), today)
	require.NoError(t, err)

	assert.Equal(t, models.CarrySummary{
		RunID:     summary.RunID,
		Date:      summary.Date,
		Processed: 1,
		Carried:   1,
		Updated:   0,
		Skipped:   0,
		Errors:    0,
		StartedAt: summary.StartedAt,
		EndedAt:   summary.EndedAt,
	}, summary)

	carried := entryFor(t, store, customerID, today)
	assert.Equal(t, 4.0, carried.Cow)
	assert.Equal(t, 0.0, carried.Buffalo)
	assert.Empty(t, carried.Products)
}

func TestPerCustomerErrorsDoNotAbortRun(t *testing.T) {
	store := memory.NewStore()
	brokenID := store.SeedCustomer("Broken")
	healthyID := store.SeedCustomer("Healthy")
	today := day(2024, 1, 2)
	store.SeedEntry(models.MilkEntry{CustomerID: brokenID, Date: day(2024, 1, 1), Cow: 3})
	store.SeedEntry(models.MilkEntry{CustomerID: healthyID, Date: day(2024, 1, 1), Cow: 7, Buffalo: 1})
	store.EntryFailures[brokenID] = errors.New("connection reset")

	summary, err := newRunner(t, store).Run(context.Background(), today)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Carried, "the healthy customer must still be carried")

	carried := entryFor(t, store, healthyID, today)
	assert.Equal(t, 7.0, carried.Cow)
}

func TestFailedCustomerListingFailsRun(t *testing.T) {
	store := memory.NewStore()
	store.ListCustomersErr = errors.New("primary unavailable")

	_, err := newRunner(t, store).Run(context.Background(), day(2024, 1, 2))
	require.Error(t, err)
}

func TestRunPersistsSummaryWithRunID(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: day(2024, 1, 1), Cow: 5})

	summary, err := newRunner(t, store).Run(context.Background(), day(2024, 1, 2))
	require.NoError(t, err)
	require.NotEmpty(t, summary.RunID)

	persisted := store.Summaries()
	require.Len(t, persisted, 1)
	assert.Equal(t, summary.RunID, persisted[0].RunID)
	assert.Equal(t, summary.Carried, persisted[0].Carried)
}

type recordingNotifier struct {
	received []models.CarrySummary
	err      error
}

func (n *recordingNotifier) NotifyCarrySummary(_ context.Context, summary models.CarrySummary) error {
	n.received = append(n.received, summary)
	return n.err
}

func TestNotifierFailureDoesNotFailRun(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")
	store.SeedEntry(models.MilkEntry{CustomerID: customerID, Date: day(2024, 1, 1), Cow: 5})

	notifier := &recordingNotifier{err: errors.New("webhook down")}
	runner := carryforward.NewRunner(store, store, store, notifier, zaptest.NewLogger(t))

	summary, err := runner.Run(context.Background(), day(2024, 1, 2))
	require.NoError(t, err)
	require.Len(t, notifier.received, 1)
	assert.Equal(t, summary.RunID, notifier.received[0].RunID)
}
