package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Extension is a delivery zone grouping a set of customers.
type Extension struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updatedAt"`
}

// Product is a catalog item customers can receive alongside milk. Cost is the
// current per-unit price; entries snapshot it at save time.
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Cost      float64            `bson:"cost" json:"cost"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updatedAt"`
}

// MilkPrice is the singleton document holding the current per-liter prices
// used by invoicing and sales reports.
type MilkPrice struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CowPrice     float64            `bson:"cow_price" json:"cowPrice"`
	BuffaloPrice float64            `bson:"buffalo_price" json:"buffaloPrice"`
	UpdatedAt    time.Time          `bson:"updated_at,omitempty" json:"updatedAt"`
}
