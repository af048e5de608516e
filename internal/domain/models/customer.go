package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is a milk delivery customer belonging to an extension (delivery
// zone). The default product fields are a UI pre-selection hint only; what is
// actually delivered lives on each day's MilkEntry.
type Customer struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                    string             `bson:"name" json:"name"`
	Phone                   string             `bson:"phone,omitempty" json:"phone"`
	Address                 string             `bson:"address,omitempty" json:"address"`
	ExtensionID             primitive.ObjectID `bson:"extension_id,omitempty" json:"extensionId"`
	DefaultProductID        primitive.ObjectID `bson:"default_product_id,omitempty" json:"defaultProductId"`
	DefaultProductPermanent bool               `bson:"default_product_permanent" json:"defaultProductPermanent"`
	CreatedAt               time.Time          `bson:"created_at,omitempty" json:"createdAt"`
	UpdatedAt               time.Time          `bson:"updated_at,omitempty" json:"updatedAt"`
}

// DeletedCustomer is the tombstone written when a customer is removed, keeping
// enough of a snapshot to answer "who was this" after the cascade delete.
type DeletedCustomer struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID    primitive.ObjectID `bson:"customer_id" json:"customerId"`
	Name          string             `bson:"name" json:"name"`
	Phone         string             `bson:"phone,omitempty" json:"phone"`
	Address       string             `bson:"address,omitempty" json:"address"`
	ExtensionID   primitive.ObjectID `bson:"extension_id,omitempty" json:"extensionId"`
	ExtensionName string             `bson:"extension_name" json:"extensionName"`
	DeletedAt     time.Time          `bson:"deleted_at" json:"deletedAt"`
}
