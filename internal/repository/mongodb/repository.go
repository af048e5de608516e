package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

// ErrNotFound is returned by lookups that matched no document. Callers use it
// to distinguish "nothing to update" from validation or transport failures.
var ErrNotFound = errors.New("document not found")

// EntryStore is the persistence surface of the milk-entry collection. The
// upsert is the single atomic write path shared by the save endpoint and the
// carry-forward job.
type EntryStore interface {
	UpsertEntry(ctx context.Context, entry models.MilkEntry) (*models.MilkEntry, bool, error)
	UpdateEntryForDay(ctx context.Context, entry models.MilkEntry) (*models.MilkEntry, error)
	FindEntryForDay(ctx context.Context, customerID primitive.ObjectID, day time.Time) (*models.MilkEntry, error)
	FindLatestEntryBefore(ctx context.Context, customerID primitive.ObjectID, day time.Time) (*models.MilkEntry, error)
	ListEntriesByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.MilkEntry, error)
	ListEntries(ctx context.Context, customerID *primitive.ObjectID) ([]models.MilkEntry, error)
	ListEntriesBetween(ctx context.Context, from, to time.Time) ([]models.MilkEntry, error)
	ListEntriesBetweenForCustomer(ctx context.Context, customerID primitive.ObjectID, from, to time.Time) ([]models.MilkEntry, error)
	DeleteEntry(ctx context.Context, id primitive.ObjectID) error
	DeleteEntriesByCustomer(ctx context.Context, customerID primitive.ObjectID) (int64, error)
	DeleteEntriesBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// CustomerStore exposes customer reference data and lifecycle operations.
type CustomerStore interface {
	ListCustomers(ctx context.Context, extensionID *primitive.ObjectID) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer models.Customer) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customer models.Customer) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id primitive.ObjectID) error
	InsertTombstone(ctx context.Context, tombstone models.DeletedCustomer) error
}

// ProductStore exposes the product catalog.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
}

// ExtensionStore exposes delivery zones.
type ExtensionStore interface {
	ListExtensions(ctx context.Context) ([]models.Extension, error)
	GetExtension(ctx context.Context, id primitive.ObjectID) (*models.Extension, error)
	CreateExtension(ctx context.Context, extension models.Extension) (*models.Extension, error)
	UpdateExtension(ctx context.Context, extension models.Extension) (*models.Extension, error)
	DeleteExtension(ctx context.Context, id primitive.ObjectID) error
}

// PriceStore exposes the singleton milk price document.
type PriceStore interface {
	GetOrCreatePrices(ctx context.Context) (*models.MilkPrice, error)
	UpdatePrices(ctx context.Context, cowPrice, buffaloPrice float64) (*models.MilkPrice, error)
}

// ArchiveStore exposes archived entries and carry-forward run records.
type ArchiveStore interface {
	InsertArchivedEntries(ctx context.Context, entries []models.ArchivedEntry) (int64, error)
	DeleteArchivesByCustomer(ctx context.Context, customerID primitive.ObjectID) (int64, error)
	SaveCarrySummary(ctx context.Context, summary models.CarrySummary) error
}

// MongoDBRepository implements all store interfaces over a single MongoDB
// database.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

const (
	collEntries          = "milk_entries"
	collCustomers        = "customers"
	collExtensions       = "extensions"
	collProducts         = "products"
	collPrices           = "milk_prices"
	collArchives         = "milk_entry_archives"
	collDeletedCustomers = "deleted_customers"
	collCarryRuns        = "carry_runs"
)

// NewMongoDBRepository connects, pings, and prepares collection indexes.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client: client,
		dbName: dbName,
	}

	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

// ensureIndexes creates the compound unique index that enforces one entry per
// customer per day. Every writer relies on it.
func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.coll(collEntries).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "customer_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create milk entry unique index: %w", err)
	}

	_, err = r.coll(collArchives).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "archived_month", Value: 1}, {Key: "customer_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create archive index: %w", err)
	}

	return nil
}

func (r *MongoDBRepository) coll(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
