// Package entries holds the milk-entry reconciliation engine: the single
// authority for writing a customer's per-day delivery record. The save
// endpoint, the explicit-date update endpoint, and the carry-forward job all
// route their writes through it so the one-entry-per-customer-per-day
// invariant has a single enforcement point.
package entries

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/mongodb"
	"github.com/mamadbah2/dairy/pkg/dates"
)

// Validation errors surfaced to callers as client faults, before any
// persistence attempt.
var (
	ErrInvalidCustomerID = errors.New("invalid customer id")
	ErrInvalidEntryID    = errors.New("invalid entry id")
	ErrNegativeValue     = errors.New("cow, buffalo and quantity must not be negative")
	ErrEntryNotFound     = errors.New("milk entry not found")
)

// UpsertInput is the full desired state of one customer's entry for one day.
// Fields are replaced wholesale on every call; there is no partial merge.
type UpsertInput struct {
	CustomerID      string
	Date            string
	Cow             float64
	Buffalo         float64
	ProductID       string
	ProductQuantity float64
}

// Service implements the reconciliation rules over the entry store and the
// read-only product catalog.
type Service struct {
	store    mongodb.EntryStore
	products mongodb.ProductStore
	logger   *zap.Logger
}

// NewService wires a new reconciliation service instance.
func NewService(store mongodb.EntryStore, products mongodb.ProductStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, products: products, logger: logger}
}

// Upsert creates or replaces the entry for (customer, day). The boolean
// result reports whether a new record was created, so callers can answer
// 201 vs 200.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (*models.MilkEntry, bool, error) {
	entry, err := s.buildEntry(ctx, in)
	if err != nil {
		return nil, false, err
	}

	saved, created, err := s.store.UpsertEntry(ctx, *entry)
	if err != nil {
		return nil, false, fmt.Errorf("upsert entry: %w", err)
	}

	s.logger.Info("milk entry saved",
		zap.String("customer_id", in.CustomerID),
		zap.Time("date", entry.Date),
		zap.Bool("created", created))

	return saved, created, nil
}

// UpdateExisting replaces the entry for an explicit day and fails with
// ErrEntryNotFound when the customer has no entry on that day. It never
// creates one.
func (s *Service) UpdateExisting(ctx context.Context, in UpsertInput) (*models.MilkEntry, error) {
	entry, err := s.buildEntry(ctx, in)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateEntryForDay(ctx, *entry)
	if errors.Is(err, mongodb.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	return updated, nil
}

// ListByCustomer returns every entry for the customer, ascending by date.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]models.MilkEntry, error) {
	id, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, ErrInvalidCustomerID
	}
	return s.store.ListEntriesByCustomer(ctx, id)
}

// List returns all entries newest first, optionally filtered to one customer.
func (s *Service) List(ctx context.Context, customerID string) ([]models.MilkEntry, error) {
	var filter *primitive.ObjectID
	if customerID != "" {
		id, err := primitive.ObjectIDFromHex(customerID)
		if err != nil {
			return nil, ErrInvalidCustomerID
		}
		filter = &id
	}
	return s.store.ListEntries(ctx, filter)
}

// Delete removes one entry by id. ErrEntryNotFound when no such entry exists.
func (s *Service) Delete(ctx context.Context, entryID string) error {
	id, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return ErrInvalidEntryID
	}
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// buildEntry validates the input and materializes the full replacement state,
// including the snapshot product line.
func (s *Service) buildEntry(ctx context.Context, in UpsertInput) (*models.MilkEntry, error) {
	customerID, err := primitive.ObjectIDFromHex(in.CustomerID)
	if err != nil {
		return nil, ErrInvalidCustomerID
	}

	day, err := dates.Parse(in.Date)
	if err != nil {
		return nil, err
	}

	if in.Cow < 0 || in.Buffalo < 0 || in.ProductQuantity < 0 {
		return nil, ErrNegativeValue
	}

	return &models.MilkEntry{
		CustomerID: customerID,
		Date:       day,
		Cow:        in.Cow,
		Buffalo:    in.Buffalo,
		Products:   s.resolveProducts(ctx, in),
	}, nil
}

// resolveProducts turns an optional product reference into a zero-or-one
// element snapshot list. An absent, malformed or unknown product id degrades
// to no product line rather than an error.
func (s *Service) resolveProducts(ctx context.Context, in UpsertInput) []models.ProductLine {
	if in.ProductID == "" {
		return []models.ProductLine{}
	}

	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		s.logger.Warn("malformed product id on entry, saving without product",
			zap.String("product_id", in.ProductID))
		return []models.ProductLine{}
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		s.logger.Warn("product not resolved, saving entry without product",
			zap.String("product_id", in.ProductID),
			zap.Error(err))
		return []models.ProductLine{}
	}

	return []models.ProductLine{{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    in.ProductQuantity,
		Cost:        product.Cost * in.ProductQuantity,
	}}
}
