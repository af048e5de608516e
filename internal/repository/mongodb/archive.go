package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

// InsertArchivedEntries bulk-inserts archived copies of milk entries.
func (r *MongoDBRepository) InsertArchivedEntries(ctx context.Context, entries []models.ArchivedEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, entry)
	}

	res, err := r.coll(collArchives).InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert archived entries: %w", err)
	}
	return int64(len(res.InsertedIDs)), nil
}

// DeleteArchivesByCustomer removes a customer's archived entries, part of the
// customer deletion cascade.
func (r *MongoDBRepository) DeleteArchivesByCustomer(ctx context.Context, customerID primitive.ObjectID) (int64, error) {
	res, err := r.coll(collArchives).DeleteMany(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete archived entries: %w", err)
	}
	return res.DeletedCount, nil
}

// SaveCarrySummary persists the outcome of one carry-forward run.
func (r *MongoDBRepository) SaveCarrySummary(ctx context.Context, summary models.CarrySummary) error {
	if _, err := r.coll(collCarryRuns).InsertOne(ctx, summary); err != nil {
		return fmt.Errorf("failed to insert carry-forward summary: %w", err)
	}
	return nil
}
