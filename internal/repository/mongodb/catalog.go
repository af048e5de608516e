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

// ListProducts returns the catalog sorted by name.
func (r *MongoDBRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.coll(collProducts).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// GetProduct returns one product by id, or ErrNotFound.
func (r *MongoDBRepository) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.coll(collProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// CreateProduct inserts a product and returns it with its generated id.
func (r *MongoDBRepository) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := r.coll(collProducts).InsertOne(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return &product, nil
}

// UpdateProduct replaces name and cost on an existing product. Historical
// entry snapshots are untouched.
func (r *MongoDBRepository) UpdateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	update := bson.M{"$set": bson.M{
		"name":       product.Name,
		"cost":       product.Cost,
		"updated_at": time.Now(),
	}}

	var updated models.Product
	err := r.coll(collProducts).
		FindOneAndUpdate(ctx, bson.M{"_id": product.ID}, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &updated, nil
}

// DeleteProduct removes a product from the catalog.
func (r *MongoDBRepository) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll(collProducts).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExtensions returns delivery zones newest first.
func (r *MongoDBRepository) ListExtensions(ctx context.Context) ([]models.Extension, error) {
	cursor, err := r.coll(collExtensions).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query extensions: %w", err)
	}
	defer cursor.Close(ctx)

	var extensions []models.Extension
	if err := cursor.All(ctx, &extensions); err != nil {
		return nil, fmt.Errorf("failed to decode extensions: %w", err)
	}
	return extensions, nil
}

// GetExtension returns one extension by id, or ErrNotFound.
func (r *MongoDBRepository) GetExtension(ctx context.Context, id primitive.ObjectID) (*models.Extension, error) {
	var extension models.Extension
	err := r.coll(collExtensions).FindOne(ctx, bson.M{"_id": id}).Decode(&extension)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find extension: %w", err)
	}
	return &extension, nil
}

// CreateExtension inserts an extension and returns it with its generated id.
func (r *MongoDBRepository) CreateExtension(ctx context.Context, extension models.Extension) (*models.Extension, error) {
	now := time.Now()
	extension.CreatedAt = now
	extension.UpdatedAt = now

	res, err := r.coll(collExtensions).InsertOne(ctx, extension)
	if err != nil {
		return nil, fmt.Errorf("failed to insert extension: %w", err)
	}
	extension.ID = res.InsertedID.(primitive.ObjectID)
	return &extension, nil
}

// UpdateExtension renames an existing extension.
func (r *MongoDBRepository) UpdateExtension(ctx context.Context, extension models.Extension) (*models.Extension, error) {
	update := bson.M{"$set": bson.M{
		"name":       extension.Name,
		"updated_at": time.Now(),
	}}

	var updated models.Extension
	err := r.coll(collExtensions).
		FindOneAndUpdate(ctx, bson.M{"_id": extension.ID}, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update extension: %w", err)
	}
	return &updated, nil
}

// DeleteExtension removes a delivery zone.
func (r *MongoDBRepository) DeleteExtension(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll(collExtensions).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete extension: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOrCreatePrices returns the singleton price document, creating a zeroed
// one on first access.
func (r *MongoDBRepository) GetOrCreatePrices(ctx context.Context) (*models.MilkPrice, error) {
	update := bson.M{"$setOnInsert": bson.M{
		"cow_price":     0.0,
		"buffalo_price": 0.0,
		"updated_at":    time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var prices models.MilkPrice
	if err := r.coll(collPrices).FindOneAndUpdate(ctx, bson.M{}, update, opts).Decode(&prices); err != nil {
		return nil, fmt.Errorf("failed to load milk prices: %w", err)
	}
	return &prices, nil
}

// UpdatePrices sets the current per-liter prices, creating the singleton if
// it does not exist yet.
func (r *MongoDBRepository) UpdatePrices(ctx context.Context, cowPrice, buffaloPrice float64) (*models.MilkPrice, error) {
	update := bson.M{"$set": bson.M{
		"cow_price":     cowPrice,
		"buffalo_price": buffaloPrice,
		"updated_at":    time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var prices models.MilkPrice
	if err := r.coll(collPrices).FindOneAndUpdate(ctx, bson.M{}, update, opts).Decode(&prices); err != nil {
		return nil, fmt.Errorf("failed to update milk prices: %w", err)
	}
	return &prices, nil
}
