// Package search owns the invoice search index: a denormalized, queryable
// projection of invoice and customer data kept consistent with the two
// source-of-truth collections by explicit write-side synchronization.
package search

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is one record of the projection (collection "invoice_search").
// Invoice-owned fields (amount, date, status) and customer-owned fields
// (name, email, image URL) are copied verbatim from the sources as of
// LastSyncedAt; staleness beyond that instant is expected and tolerated.
//
// Invariants:
//   - at most one document with DeletedAt == nil exists per InvoiceID
//   - DeletedAt != nil marks a tombstone: hidden from search and from the
//     rebuild scan, but kept for the audit trail until the next rebuild
type Document struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	InvoiceID        primitive.ObjectID `bson:"invoice_id" json:"invoice_id"`
	CustomerID       primitive.ObjectID `bson:"customer_id" json:"customer_id"`
	Amount           decimal.Decimal    `bson:"amount" json:"amount"`
	Date             time.Time          `bson:"date" json:"date"`
	Status           string             `bson:"status" json:"status"`
	CustomerName     string             `bson:"customer_name" json:"customer_name"`
	CustomerEmail    string             `bson:"customer_email" json:"customer_email"`
	CustomerImageURL string             `bson:"customer_image_url" json:"customer_image_url"`
	DeletedAt        *time.Time         `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	LastSyncedAt     time.Time          `bson:"last_synced_at" json:"last_synced_at"`
}

// CollectionName returns the mongo collection holding the projection
func (Document) CollectionName() string {
	return "invoice_search"
}

// IsTombstoned reports whether the document is logically removed
func (d *Document) IsTombstoned() bool {
	return d.DeletedAt != nil
}

// CustomerFields is the partial field set applied by a customer fan-out
// update: it touches only customer-owned fields, never invoice-owned ones.
type CustomerFields struct {
	Name     string
	Email    string
	ImageURL string
}
