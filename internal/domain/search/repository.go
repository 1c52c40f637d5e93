package search

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentRepository is the generic store surface the projection is
// maintained through. The projection is owned exclusively by the search
// package; no other component writes to this collection.
//
// Store failures (connectivity, timeout) propagate unwrapped; retry and
// backoff are the caller's concern.
type DocumentRepository interface {
	// FindActiveByInvoiceID returns the single non-tombstoned document for
	// the invoice, or shared.ErrNotFound.
	FindActiveByInvoiceID(ctx context.Context, invoiceID primitive.ObjectID) (*Document, error)
	// FindByInvoiceID returns any document (tombstoned or not) for the
	// invoice, or shared.ErrNotFound.
	FindByInvoiceID(ctx context.Context, invoiceID primitive.ObjectID) (*Document, error)
	// FindPage runs the query twice with identical predicates: once for the
	// requested window and once unpaged for the total count.
	FindPage(ctx context.Context, query Query, page PageRequest) ([]Document, int64, error)
	// Save upserts the document keyed by its ID.
	Save(ctx context.Context, doc *Document) error
	// UpdateCustomerFields bulk-patches customer-owned fields and
	// LastSyncedAt on every document with the given customer, tombstoned or
	// not, leaving invoice-owned fields untouched.
	UpdateCustomerFields(ctx context.Context, customerID primitive.ObjectID, fields CustomerFields, syncedAt time.Time) error
	// MarkDeleted tombstones the live document for the invoice. Missing
	// documents are a silent no-op.
	MarkDeleted(ctx context.Context, invoiceID primitive.ObjectID, deletedAt time.Time) error
	// DeleteAll physically removes every document, tombstones included.
	// Only the rebuild coordinator calls this.
	DeleteAll(ctx context.Context) error
}
