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

// ListCustomers returns customers newest first, optionally filtered by
// extension.
func (r *MongoDBRepository) ListCustomers(ctx context.Context, extensionID *primitive.ObjectID) ([]models.Customer, error) {
	filter := bson.M{}
	if extensionID != nil {
		filter["extension_id"] = *extensionID
	}

	cursor, err := r.coll(collCustomers).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer cursor.Close(ctx)

	var customers []models.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("failed to decode customers: %w", err)
	}
	return customers, nil
}

// GetCustomer returns one customer by id, or ErrNotFound.
func (r *MongoDBRepository) GetCustomer(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	err := r.coll(collCustomers).FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// CreateCustomer inserts a customer and returns it with its generated id.
func (r *MongoDBRepository) CreateCustomer(ctx context.Context, customer models.Customer) (*models.Customer, error) {
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	res, err := r.coll(collCustomers).InsertOne(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}
	customer.ID = res.InsertedID.(primitive.ObjectID)
	return &customer, nil
}

// UpdateCustomer replaces the editable fields of an existing customer.
func (r *MongoDBRepository) UpdateCustomer(ctx context.Context, customer models.Customer) (*models.Customer, error) {
	update := bson.M{"$set": bson.M{
		"name":                      customer.Name,
		"phone":                     customer.Phone,
		"address":                   customer.Address,
		"extension_id":              customer.ExtensionID,
		"default_product_id":        customer.DefaultProductID,
		"default_product_permanent": customer.DefaultProductPermanent,
		"updated_at":                time.Now(),
	}}

	var updated models.Customer
	err := r.coll(collCustomers).
		FindOneAndUpdate(ctx, bson.M{"_id": customer.ID}, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return &updated, nil
}

// DeleteCustomer removes the customer document only; entry and archive
// cascades are the customer service's responsibility.
func (r *MongoDBRepository) DeleteCustomer(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll(collCustomers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertTombstone records a deleted customer snapshot.
func (r *MongoDBRepository) InsertTombstone(ctx context.Context, tombstone models.DeletedCustomer) error {
	if _, err := r.coll(collDeletedCustomers).InsertOne(ctx, tombstone); err != nil {
		return fmt.Errorf("failed to insert deleted customer record: %w", err)
	}
	return nil
}
