// Package memory provides a map-backed implementation of the mongodb store
// interfaces for tests. It mirrors the persistence contract that matters to
// the services: one entry per (customer, day), wholesale replacement on
// upsert, ErrNotFound on empty lookups.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/mongodb"
)

var (
	_ mongodb.EntryStore     = (*Store)(nil)
	_ mongodb.CustomerStore  = (*Store)(nil)
	_ mongodb.ProductStore   = (*Store)(nil)
	_ mongodb.PriceStore     = (*Store)(nil)
	_ mongodb.ArchiveStore   = (*Store)(nil)
	_ mongodb.ExtensionStore = (*Store)(nil)
)

// Store implements the mongodb store interfaces in memory.
type Store struct {
	mu         sync.Mutex
	entries    map[primitive.ObjectID]models.MilkEntry
	customers  []models.Customer
	products   map[primitive.ObjectID]models.Product
	extensions map[primitive.ObjectID]models.Extension
	prices     *models.MilkPrice
	archived   []models.ArchivedEntry
	tombstones []models.DeletedCustomer
	summaries  []models.CarrySummary

	// EntryFailures makes entry reads and writes fail for specific customers,
	// to exercise error isolation in batch runs.
	EntryFailures map[primitive.ObjectID]error
	// ListCustomersErr fails the customer listing as a whole.
	ListCustomersErr error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		entries:       make(map[primitive.ObjectID]models.MilkEntry),
		products:      make(map[primitive.ObjectID]models.Product),
		extensions:    make(map[primitive.ObjectID]models.Extension),
		EntryFailures: make(map[primitive.ObjectID]error),
	}
}

// SeedCustomer registers a customer and returns its id.
func (s *Store) SeedCustomer(name string) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer := models.Customer{ID: primitive.NewObjectID(), Name: name, CreatedAt: time.Now()}
	s.customers = append(s.customers, customer)
	return customer.ID
}

// SeedProduct registers a catalog product and returns its id.
func (s *Store) SeedProduct(name string, cost float64) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	product := models.Product{ID: primitive.NewObjectID(), Name: name, Cost: cost}
	s.products[product.ID] = product
	return product.ID
}

// SeedEntry inserts an entry directly, bypassing the upsert path.
func (s *Store) SeedEntry(entry models.MilkEntry) models.MilkEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	s.entries[entry.ID] = entry
	return entry
}

// SetPrices seeds the singleton price document.
func (s *Store) SetPrices(cow, buffalo float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices = &models.MilkPrice{ID: primitive.NewObjectID(), CowPrice: cow, BuffaloPrice: buffalo}
}

// Entries returns a snapshot of all stored entries.
func (s *Store) Entries() []models.MilkEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MilkEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	return out
}

// Archived returns a snapshot of archived entries.
func (s *Store) Archived() []models.ArchivedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ArchivedEntry(nil), s.archived...)
}

// Tombstones returns recorded customer deletions.
func (s *Store) Tombstones() []models.DeletedCustomer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.DeletedCustomer(nil), s.tombstones...)
}

// Summaries returns persisted carry-forward run summaries.
func (s *Store) Summaries() []models.CarrySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CarrySummary(nil), s.summaries...)
}

// UpsertEntry implements mongodb.EntryStore.
func (s *Store) UpsertEntry(_ context.Context, entry models.MilkEntry) (*models.MilkEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.EntryFailures[entry.CustomerID]; err != nil {
		return nil, false, err
	}

	now := time.Now()
	for id, existing := range s.entries {
		if existing.CustomerID == entry.CustomerID && existing.Date.Equal(entry.Date) {
			existing.Cow = entry.Cow
			existing.Buffalo = entry.Buffalo
			existing.Products = entry.Products
			existing.UpdatedAt = now
			s.entries[id] = existing
			return &existing, false, nil
		}
	}

	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	s.entries[entry.ID] = entry
	return &entry, true, nil
}

// UpdateEntryForDay implements mongodb.EntryStore.
func (s *Store) UpdateEntryForDay(_ context.Context, entry models.MilkEntry) (*models.MilkEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.EntryFailures[entry.CustomerID]; err != nil {
		return nil, err
	}

	for id, existing := range s.entries {
		if existing.CustomerID == entry.CustomerID && existing.Date.Equal(entry.Date) {
			existing.Cow = entry.Cow
			existing.Buffalo = entry.Buffalo
			existing.Products = entry.Products
			existing.UpdatedAt = time.Now()
			s.entries[id] = existing
			return &existing, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

// FindEntryForDay implements mongodb.EntryStore.
func (s *Store) FindEntryForDay(_ context.Context, customerID primitive.ObjectID, day time.Time) (*models.MilkEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.EntryFailures[customerID]; err != nil {
		return nil, err
	}

	for _, entry := range s.entries {
		if entry.CustomerID == customerID && entry.Date.Equal(day) {
			found := entry
			return &found, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

// FindLatestEntryBefore implements mongodb.EntryStore.
func (s *Store) FindLatestEntryBefore(_ context.Context, customerID primitive.ObjectID, day time.Time) (*models.MilkEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *models.MilkEntry
	for _, entry := range s.entries {
		if entry.CustomerID != customerID || !entry.Date.Before(day) {
			continue
		}
		if latest == nil || entry.Date.After(latest.Date) {
			found := entry
			latest = &found
		}
	}
	if latest == nil {
		return nil, mongodb.ErrNotFound
	}
	return latest, nil
}

// ListEntriesByCustomer implements mongodb.EntryStore.
func (s *Store) ListEntriesByCustomer(_ context.Context, customerID primitive.ObjectID) ([]models.MilkEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.MilkEntry
	for _, entry := range s.entries {
		if entry.CustomerID == customerID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ListEntries implements mongodb.EntryStore.
func (s *Store) ListEntries(_ context.Context, customerID *primitive.ObjectID) ([]models.MilkEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.MilkEntry
	for _, entry := range s.entries {
		if customerID == nil || entry.CustomerID == *customerID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// ListEntriesBetween implements mongodb.EntryStore.
func (s *Store) ListEntriesBetween(_ context.Context, from, to time.Time) ([]models.MilkEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.MilkEntry
	for _, entry := range s.entries {
		if !entry.Date.Before(from) && entry.Date.Before(to) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ListEntriesBetweenForCustomer implements mongodb.EntryStore.
func (s *Store) ListEntriesBetweenForCustomer(ctx context.Context, customerID primitive.ObjectID, from, to time.Time) ([]models.MilkEntry, error) {
	all, err := s.ListEntriesBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	var out []models.MilkEntry
	for _, entry := range all {
		if entry.CustomerID == customerID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// DeleteEntry implements mongodb.EntryStore.
func (s *Store) DeleteEntry(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return mongodb.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// DeleteEntriesByCustomer implements mongodb.EntryStore.
func (s *Store) DeleteEntriesByCustomer(_ context.Context, customerID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, entry := range s.entries {
		if entry.CustomerID == customerID {
			delete(s.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

// DeleteEntriesBetween implements mongodb.EntryStore.
func (s *Store) DeleteEntriesBetween(_ context.Context, from, to time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, entry := range s.entries {
		if !entry.Date.Before(from) && entry.Date.Before(to) {
			delete(s.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

// ListCustomers implements mongodb.CustomerStore.
func (s *Store) ListCustomers(_ context.Context, extensionID *primitive.ObjectID) ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListCustomersErr != nil {
		return nil, s.ListCustomersErr
	}

	var out []models.Customer
	for _, customer := range s.customers {
		if extensionID == nil || customer.ExtensionID == *extensionID {
			out = append(out, customer)
		}
	}
	return out, nil
}

// GetCustomer implements mongodb.CustomerStore.
func (s *Store) GetCustomer(_ context.Context, id primitive.ObjectID) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, customer := range s.customers {
		if customer.ID == id {
			found := customer
			return &found, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

// CreateCustomer implements mongodb.CustomerStore.
func (s *Store) CreateCustomer(_ context.Context, customer models.Customer) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	s.customers = append(s.customers, customer)
	return &customer, nil
}

// UpdateCustomer implements mongodb.CustomerStore.
func (s *Store) UpdateCustomer(_ context.Context, customer models.Customer) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.customers {
		if existing.ID == customer.ID {
			customer.CreatedAt = existing.CreatedAt
			customer.UpdatedAt = time.Now()
			s.customers[i] = customer
			return &customer, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

// DeleteCustomer implements mongodb.CustomerStore.
func (s *Store) DeleteCustomer(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, customer := range s.customers {
		if customer.ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			return nil
		}
	}
	return mongodb.ErrNotFound
}

// InsertTombstone implements mongodb.CustomerStore.
func (s *Store) InsertTombstone(_ context.Context, tombstone models.DeletedCustomer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tombstones = append(s.tombstones, tombstone)
	return nil
}

// ListProducts implements mongodb.ProductStore.
func (s *Store) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		out = append(out, product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetProduct implements mongodb.ProductStore.
func (s *Store) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	return &product, nil
}

// CreateProduct implements mongodb.ProductStore.
func (s *Store) CreateProduct(_ context.Context, product models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = primitive.NewObjectID()
	s.products[product.ID] = product
	return &product, nil
}

// UpdateProduct implements mongodb.ProductStore.
func (s *Store) UpdateProduct(_ context.Context, product models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; !ok {
		return nil, mongodb.ErrNotFound
	}
	s.products[product.ID] = product
	return &product, nil
}

// DeleteProduct implements mongodb.ProductStore.
func (s *Store) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return mongodb.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// ListExtensions implements mongodb.ExtensionStore.
func (s *Store) ListExtensions(_ context.Context) ([]models.Extension, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Extension, 0, len(s.extensions))
	for _, extension := range s.extensions {
		out = append(out, extension)
	}
	return out, nil
}

// GetExtension implements mongodb.ExtensionStore.
func (s *Store) GetExtension(_ context.Context, id primitive.ObjectID) (*models.Extension, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	extension, ok := s.extensions[id]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	return &extension, nil
}

// CreateExtension implements mongodb.ExtensionStore.
func (s *Store) CreateExtension(_ context.Context, extension models.Extension) (*models.Extension, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	extension.ID = primitive.NewObjectID()
	extension.CreatedAt = time.Now()
	s.extensions[extension.ID] = extension
	return &extension, nil
}

// UpdateExtension implements mongodb.ExtensionStore.
func (s *Store) UpdateExtension(_ context.Context, extension models.Extension) (*models.Extension, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.extensions[extension.ID]; !ok {
		return nil, mongodb.ErrNotFound
	}
	s.extensions[extension.ID] = extension
	return &extension, nil
}

// DeleteExtension implements mongodb.ExtensionStore.
func (s *Store) DeleteExtension(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.extensions[id]; !ok {
		return mongodb.ErrNotFound
	}
	delete(s.extensions, id)
	return nil
}

// GetOrCreatePrices implements mongodb.PriceStore.
func (s *Store) GetOrCreatePrices(_ context.Context) (*models.MilkPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prices == nil {
		s.prices = &models.MilkPrice{ID: primitive.NewObjectID()}
	}
	prices := *s.prices
	return &prices, nil
}

// UpdatePrices implements mongodb.PriceStore.
func (s *Store) UpdatePrices(_ context.Context, cowPrice, buffaloPrice float64) (*models.MilkPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prices == nil {
		s.prices = &models.MilkPrice{ID: primitive.NewObjectID()}
	}
	s.prices.CowPrice = cowPrice
	s.prices.BuffaloPrice = buffaloPrice
	s.prices.UpdatedAt = time.Now()
	prices := *s.prices
	return &prices, nil
}

// InsertArchivedEntries implements mongodb.ArchiveStore.
func (s *Store) InsertArchivedEntries(_ context.Context, entries []models.ArchivedEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archived = append(s.archived, entries...)
	return int64(len(entries)), nil
}

// DeleteArchivesByCustomer implements mongodb.ArchiveStore.
func (s *Store) DeleteArchivesByCustomer(_ context.Context, customerID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []models.ArchivedEntry
	var deleted int64
	for _, entry := range s.archived {
		if entry.CustomerID == customerID {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	s.archived = kept
	return deleted, nil
}

// SaveCarrySummary implements mongodb.ArchiveStore.
func (s *Store) SaveCarrySummary(_ context.Context, summary models.CarrySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
	return nil
}
