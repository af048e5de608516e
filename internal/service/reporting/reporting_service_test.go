package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/memory"
	"github.com/mamadbah2/dairy/internal/service/reporting"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestDailySalesAggregates(t *testing.T) {
	store := memory.NewStore()
	store.SetPrices(52.5, 65)
	ravi := store.SeedCustomer("Ravi")
	meena := store.SeedCustomer("Meena")

	reportDay := day(2024, 3, 10)
	store.SeedEntry(models.MilkEntry{CustomerID: ravi, Date: reportDay, Cow: 2, Buffalo: 1})
	store.SeedEntry(models.MilkEntry{
		CustomerID: meena,
		Date:       reportDay,
		Cow:        1.5,
		Products:   []models.ProductLine{{ProductName: "Paneer", Quantity: 2, Cost: 160}},
	})
	// Entry on another day must not leak into the report.
	store.SeedEntry(models.MilkEntry{CustomerID: ravi, Date: day(2024, 3, 11), Cow: 9})

	svc := reporting.NewService(store, store, store, zaptest.NewLogger(t))
	report, err := svc.DailySales(context.Background(), reportDay)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-10", report.Date)
	assert.Equal(t, 2, report.Entries)
	assert.InDelta(t, 3.5, report.CowLiters, 1e-9)
	assert.InDelta(t, 1.0, report.BuffaloLiters, 1e-9)
	// 3.5 * 52.5 + 1 * 65 = 248.75
	assert.InDelta(t, 248.75, report.MilkRevenue, 1e-9)
	assert.InDelta(t, 160.0, report.ProductRevenue, 1e-9)
	assert.InDelta(t, 408.75, report.TotalRevenue, 1e-9)
}

func TestCustomerInvoiceUsesStoredSnapshots(t *testing.T) {
	store := memory.NewStore()
	store.SetPrices(50, 60)
	ravi := store.SeedCustomer("Ravi")
	other := store.SeedCustomer("Other")

	store.SeedEntry(models.MilkEntry{CustomerID: ravi, Date: day(2024, 3, 1), Cow: 2, Buffalo: 1})
	store.SeedEntry(models.MilkEntry{
		CustomerID: ravi,
		Date:       day(2024, 3, 2),
		Cow:        1,
		Products:   []models.ProductLine{{ProductName: "Ghee", Quantity: 1, Cost: 120}},
	})
	// Outside the range and someone else's entry are both excluded.
	store.SeedEntry(models.MilkEntry{CustomerID: ravi, Date: day(2024, 4, 1), Cow: 5})
	store.SeedEntry(models.MilkEntry{CustomerID: other, Date: day(2024, 3, 1), Cow: 8})

	svc := reporting.NewService(store, store, store, zaptest.NewLogger(t))
	invoice, err := svc.CustomerInvoice(context.Background(), ravi.Hex(), day(2024, 3, 1), day(2024, 3, 31))
	require.NoError(t, err)

	assert.Equal(t, "Ravi", invoice.CustomerName)
	require.Len(t, invoice.Lines, 2)

	first := invoice.Lines[0]
	assert.Equal(t, "2024-03-01", first.Date)
	assert.InDelta(t, 160.0, first.MilkAmount, 1e-9) // 2*50 + 1*60
	assert.Zero(t, first.ProductAmount)

	second := invoice.Lines[1]
	assert.Equal(t, "Ghee", second.ProductName)
	assert.InDelta(t, 120.0, second.ProductAmount, 1e-9)
	assert.InDelta(t, 170.0, second.LineTotal, 1e-9)

	assert.InDelta(t, 3.0, invoice.CowLiters, 1e-9)
	assert.InDelta(t, 1.0, invoice.BuffaloLiters, 1e-9)
	assert.InDelta(t, 210.0, invoice.MilkAmount, 1e-9)
	assert.InDelta(t, 120.0, invoice.ProductAmount, 1e-9)
	assert.InDelta(t, 330.0, invoice.Total, 1e-9)
}

func TestCustomerInvoiceRejectsMalformedID(t *testing.T) {
	store := memory.NewStore()
	svc := reporting.NewService(store, store, store, zaptest.NewLogger(t))

	_, err := svc.CustomerInvoice(context.Background(), "nope", day(2024, 3, 1), day(2024, 3, 31))
	assert.ErrorIs(t, err, reporting.ErrInvalidCustomerID)
}
