// Package reporting computes invoices and daily sales aggregates from
// finalized milk entries. It is a read-only consumer of the entry store;
// money arithmetic runs on decimals and converts to floats only at the
// response edge.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/mongodb"
)

// ErrInvalidCustomerID is returned for a malformed customer identifier.
var ErrInvalidCustomerID = errors.New("invalid customer id")

const dateLayout = "2006-01-02"

// DailySales aggregates one calendar day across all customers.
type DailySales struct {
	Date           string  `json:"date"`
	Entries        int     `json:"entries"`
	CowLiters      float64 `json:"cowLiters"`
	BuffaloLiters  float64 `json:"buffaloLiters"`
	MilkRevenue    float64 `json:"milkRevenue"`
	ProductRevenue float64 `json:"productRevenue"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

// InvoiceLine is one day on a customer's invoice.
type InvoiceLine struct {
	Date          string  `json:"date"`
	CowLiters     float64 `json:"cowLiters"`
	BuffaloLiters float64 `json:"buffaloLiters"`
	MilkAmount    float64 `json:"milkAmount"`
	ProductName   string  `json:"productName,omitempty"`
	ProductAmount float64 `json:"productAmount"`
	LineTotal     float64 `json:"lineTotal"`
}

// Invoice is a customer's bill for a date range, priced with the current milk
// prices and the product cost snapshots already stored on each entry.
type Invoice struct {
	CustomerID    string        `json:"customerId"`
	CustomerName  string        `json:"customerName"`
	From          string        `json:"from"`
	To            string        `json:"to"`
	Lines         []InvoiceLine `json:"lines"`
	CowLiters     float64       `json:"cowLiters"`
	BuffaloLiters float64       `json:"buffaloLiters"`
	MilkAmount    float64       `json:"milkAmount"`
	ProductAmount float64       `json:"productAmount"`
	Total         float64       `json:"total"`
}

// Service exposes the reporting queries.
type Service struct {
	entries   mongodb.EntryStore
	customers mongodb.CustomerStore
	prices    mongodb.PriceStore
	logger    *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(entries mongodb.EntryStore, customers mongodb.CustomerStore, prices mongodb.PriceStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{entries: entries, customers: customers, prices: prices, logger: logger}
}

// DailySales sums liters and revenue for every entry on one day. The day
// spans [day, day+24h) over normalized entry dates.
func (s *Service) DailySales(ctx context.Context, day time.Time) (*DailySales, error) {
	prices, err := s.prices.GetOrCreatePrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load milk prices: %w", err)
	}

	entriesForDay, err := s.entries.ListEntriesBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list entries for day: %w", err)
	}

	cowPrice := decimal.NewFromFloat(prices.CowPrice)
	buffaloPrice := decimal.NewFromFloat(prices.BuffaloPrice)

	var cowLiters, buffaloLiters, milkRevenue, productRevenue decimal.Decimal
	for _, entry := range entriesForDay {
		cow := decimal.NewFromFloat(entry.Cow)
		buffalo := decimal.NewFromFloat(entry.Buffalo)

		cowLiters = cowLiters.Add(cow)
		buffaloLiters = buffaloLiters.Add(buffalo)
		milkRevenue = milkRevenue.Add(cow.Mul(cowPrice)).Add(buffalo.Mul(buffaloPrice))
		productRevenue = productRevenue.Add(productTotal(entry))
	}

	report := &DailySales{
		Date:           day.Format(dateLayout),
		Entries:        len(entriesForDay),
		CowLiters:      cowLiters.InexactFloat64(),
		BuffaloLiters:  buffaloLiters.InexactFloat64(),
		MilkRevenue:    milkRevenue.InexactFloat64(),
		ProductRevenue: productRevenue.InexactFloat64(),
		TotalRevenue:   milkRevenue.Add(productRevenue).InexactFloat64(),
	}
	return report, nil
}

// CustomerInvoice builds a per-day invoice for one customer over
// [from, to+24h). Product amounts come from the stored cost snapshots, never
// the current catalog price.
func (s *Service) CustomerInvoice(ctx context.Context, customerID string, from, to time.Time) (*Invoice, error) {
	id, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, ErrInvalidCustomerID
	}

	customer, err := s.customers.GetCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	prices, err := s.prices.GetOrCreatePrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load milk prices: %w", err)
	}

	customerEntries, err := s.entries.ListEntriesBetweenForCustomer(ctx, id, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list entries for invoice: %w", err)
	}

	cowPrice := decimal.NewFromFloat(prices.CowPrice)
	buffaloPrice := decimal.NewFromFloat(prices.BuffaloPrice)

	invoice := &Invoice{
		CustomerID:   customerID,
		CustomerName: customer.Name,
		From:         from.Format(dateLayout),
		To:           to.Format(dateLayout),
		Lines:        make([]InvoiceLine, 0, len(customerEntries)),
	}

	var cowLiters, buffaloLiters, milkAmount, productAmount decimal.Decimal
	for _, entry := range customerEntries {
		cow := decimal.NewFromFloat(entry.Cow)
		buffalo := decimal.NewFromFloat(entry.Buffalo)
		lineMilk := cow.Mul(cowPrice).Add(buffalo.Mul(buffaloPrice))
		lineProduct := productTotal(entry)

		line := InvoiceLine{
			Date:          entry.Date.Format(dateLayout),
			CowLiters:     entry.Cow,
			BuffaloLiters: entry.Buffalo,
			MilkAmount:    lineMilk.InexactFloat64(),
			ProductAmount: lineProduct.InexactFloat64(),
			LineTotal:     lineMilk.Add(lineProduct).InexactFloat64(),
		}
		if len(entry.Products) > 0 {
			line.ProductName = entry.Products[0].ProductName
		}
		invoice.Lines = append(invoice.Lines, line)

		cowLiters = cowLiters.Add(cow)
		buffaloLiters = buffaloLiters.Add(buffalo)
		milkAmount = milkAmount.Add(lineMilk)
		productAmount = productAmount.Add(lineProduct)
	}

	invoice.CowLiters = cowLiters.InexactFloat64()
	invoice.BuffaloLiters = buffaloLiters.InexactFloat64()
	invoice.MilkAmount = milkAmount.InexactFloat64()
	invoice.ProductAmount = productAmount.InexactFloat64()
	invoice.Total = milkAmount.Add(productAmount).InexactFloat64()

	return invoice, nil
}

// productTotal sums the snapshot costs attached to an entry.
func productTotal(entry models.MilkEntry) decimal.Decimal {
	var total decimal.Decimal
	for _, line := range entry.Products {
		total = total.Add(decimal.NewFromFloat(line.Cost))
	}
	return total
}
