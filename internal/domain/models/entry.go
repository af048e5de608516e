package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductLine is the snapshot of a product attached to a milk entry. Cost is
// computed once at save time (unit cost x quantity) and never recomputed when
// the catalog price changes later.
type ProductLine struct {
	ProductID   primitive.ObjectID `bson:"product_id" json:"productId"`
	ProductName string             `bson:"product_name" json:"productName"`
	Quantity    float64            `bson:"quantity" json:"quantity"`
	Cost        float64            `bson:"cost" json:"cost"`
}

// MilkEntry is one customer's recorded delivery for one calendar day.
// At most one entry exists per (customer, day); Date always sits at local
// midnight so entries compare by calendar day only.
type MilkEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID primitive.ObjectID `bson:"customer_id" json:"customerId"`
	Date       time.Time          `bson:"date" json:"date"`
	Cow        float64            `bson:"cow" json:"cow"`
	Buffalo    float64            `bson:"buffalo" json:"buffalo"`
	Products   []ProductLine      `bson:"products" json:"products"`
	CreatedAt  time.Time          `bson:"created_at,omitempty" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at,omitempty" json:"updatedAt"`
}

// TotalLiters returns combined cow and buffalo liters for the day.
func (e MilkEntry) TotalLiters() float64 {
	return e.Cow + e.Buffalo
}

// ArchivedEntry is a MilkEntry copied into the archive collection at a month
// boundary, stamped with the month it belonged to ("2025-01").
type ArchivedEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID    primitive.ObjectID `bson:"customer_id" json:"customerId"`
	Date          time.Time          `bson:"date" json:"date"`
	Cow           float64            `bson:"cow" json:"cow"`
	Buffalo       float64            `bson:"buffalo" json:"buffalo"`
	Products      []ProductLine      `bson:"products" json:"products"`
	ArchivedMonth string             `bson:"archived_month" json:"archivedMonth"`
	ArchivedAt    time.Time          `bson:"archived_at" json:"archivedAt"`
}
