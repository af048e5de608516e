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

// UpsertEntry atomically creates or replaces the entry for the
// (customer, day) key. Cow, buffalo and products are replaced wholesale; the
// boolean result reports whether a new document was inserted.
func (r *MongoDBRepository) UpsertEntry(ctx context.Context, entry models.MilkEntry) (*models.MilkEntry, bool, error) {
	now := time.Now()
	filter := bson.M{"customer_id": entry.CustomerID, "date": entry.Date}
	update := bson.M{
		"$set": bson.M{
			"cow":        entry.Cow,
			"buffalo":    entry.Buffalo,
			"products":   entry.Products,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"customer_id": entry.CustomerID,
			"date":        entry.Date,
			"created_at":  now,
		},
	}

	res, err := r.coll(collEntries).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert milk entry: %w", err)
	}
	created := res.UpsertedCount > 0

	var saved models.MilkEntry
	if err := r.coll(collEntries).FindOne(ctx, filter).Decode(&saved); err != nil {
		return nil, created, fmt.Errorf("failed to load upserted milk entry: %w", err)
	}

	return &saved, created, nil
}

// UpdateEntryForDay replaces cow, buffalo and products on an existing entry.
// Returns ErrNotFound when the customer has no entry on that day; it never
// creates one.
func (r *MongoDBRepository) UpdateEntryForDay(ctx context.Context, entry models.MilkEntry) (*models.MilkEntry, error) {
	filter := bson.M{"customer_id": entry.CustomerID, "date": entry.Date}
	update := bson.M{"$set": bson.M{
		"cow":        entry.Cow,
		"buffalo":    entry.Buffalo,
		"products":   entry.Products,
		"updated_at": time.Now(),
	}}

	var updated models.MilkEntry
	err := r.coll(collEntries).
		FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update milk entry: %w", err)
	}

	return &updated, nil
}

// FindEntryForDay returns the entry for one customer on one normalized day.
func (r *MongoDBRepository) FindEntryForDay(ctx context.Context, customerID primitive.ObjectID, day time.Time) (*models.MilkEntry, error) {
	var entry models.MilkEntry
	err := r.coll(collEntries).FindOne(ctx, bson.M{"customer_id": customerID, "date": day}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find milk entry: %w", err)
	}
	return &entry, nil
}

// FindLatestEntryBefore returns the customer's most recent entry strictly
// before the given day, or ErrNotFound when no earlier entry exists.
func (r *MongoDBRepository) FindLatestEntryBefore(ctx context.Context, customerID primitive.ObjectID, day time.Time) (*models.MilkEntry, error) {
	filter := bson.M{"customer_id": customerID, "date": bson.M{"$lt": day}}
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})

	var entry models.MilkEntry
	err := r.coll(collEntries).FindOne(ctx, filter, opts).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find previous milk entry: %w", err)
	}
	return &entry, nil
}

// ListEntriesByCustomer returns every entry for a customer ascending by date.
func (r *MongoDBRepository) ListEntriesByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.MilkEntry, error) {
	return r.findEntries(ctx, bson.M{"customer_id": customerID}, bson.D{{Key: "date", Value: 1}})
}

// ListEntries returns entries newest first, optionally filtered to one
// customer.
func (r *MongoDBRepository) ListEntries(ctx context.Context, customerID *primitive.ObjectID) ([]models.MilkEntry, error) {
	filter := bson.M{}
	if customerID != nil {
		filter["customer_id"] = *customerID
	}
	return r.findEntries(ctx, filter, bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
}

// ListEntriesBetween returns entries with from <= date < to, ascending.
func (r *MongoDBRepository) ListEntriesBetween(ctx context.Context, from, to time.Time) ([]models.MilkEntry, error) {
	return r.findEntries(ctx, bson.M{"date": bson.M{"$gte": from, "$lt": to}}, bson.D{{Key: "date", Value: 1}})
}

// ListEntriesBetweenForCustomer returns one customer's entries with
// from <= date < to, ascending.
func (r *MongoDBRepository) ListEntriesBetweenForCustomer(ctx context.Context, customerID primitive.ObjectID, from, to time.Time) ([]models.MilkEntry, error) {
	filter := bson.M{"customer_id": customerID, "date": bson.M{"$gte": from, "$lt": to}}
	return r.findEntries(ctx, filter, bson.D{{Key: "date", Value: 1}})
}

// DeleteEntry removes a single entry by id.
func (r *MongoDBRepository) DeleteEntry(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll(collEntries).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete milk entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEntriesByCustomer removes every entry owned by a customer.
func (r *MongoDBRepository) DeleteEntriesByCustomer(ctx context.Context, customerID primitive.ObjectID) (int64, error) {
	res, err := r.coll(collEntries).DeleteMany(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete customer milk entries: %w", err)
	}
	return res.DeletedCount, nil
}

// DeleteEntriesBetween purges entries with from <= date < to. Used by the
// monthly archive job after the copy succeeds.
func (r *MongoDBRepository) DeleteEntriesBetween(ctx context.Context, from, to time.Time) (int64, error) {
	res, err := r.coll(collEntries).DeleteMany(ctx, bson.M{"date": bson.M{"$gte": from, "$lt": to}})
	if err != nil {
		return 0, fmt.Errorf("failed to purge milk entries: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *MongoDBRepository) findEntries(ctx context.Context, filter bson.M, sort bson.D) ([]models.MilkEntry, error) {
	cursor, err := r.coll(collEntries).Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query milk entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.MilkEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode milk entries: %w", err)
	}
	return entries, nil
}
