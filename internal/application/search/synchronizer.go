// Package search implements the invoice search index subsystem: the
// write-side synchronizer, the query executor, and the full rebuild
// coordinator. The layer is a pure transformation over the document store;
// it performs no logging, retrying, or locking of its own.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/finboard/backend/internal/domain/billing"
	"github.com/finboard/backend/internal/domain/partner"
	"github.com/finboard/backend/internal/domain/search"
	"github.com/finboard/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Synchronizer keeps the projection consistent with a single changed
// primary entity. It is deliberately synchronous and write-through: every
// invoice or customer write path calls it inline, trading transactional
// guarantees for simplicity on a non-transactional store.
type Synchronizer struct {
	docs      search.DocumentRepository
	customers partner.CustomerRepository
	now       func() time.Time
}

// NewSynchronizer creates a Synchronizer over the given store interfaces
func NewSynchronizer(docs search.DocumentRepository, customers partner.CustomerRepository) *Synchronizer {
	return &Synchronizer{
		docs:      docs,
		customers: customers,
		now:       time.Now,
	}
}

// SyncInvoice projects one invoice into the index. Nil invoices, invoices
// without an identifier, and invoices whose customer cannot be resolved are
// silent no-ops: an invoice must have a resolvable customer to be
// searchable. A tombstoned document is never resurrected here; once an
// invoice is marked deleted, only a rebuild brings it back.
//
// After a non-no-op return, exactly one live document reflects the invoice
// and its customer as of now.
func (s *Synchronizer) SyncInvoice(ctx context.Context, invoice *billing.Invoice) error {
	if invoice == nil || invoice.ID.IsZero() {
		return nil
	}

	customer, err := s.customers.FindByID(ctx, invoice.CustomerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	doc, err := s.docs.FindActiveByInvoiceID(ctx, invoice.ID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		// No live document. If a tombstone exists for this invoice, leave
		// it alone rather than racing a concurrent delete back to life.
		if _, terr := s.docs.FindByInvoiceID(ctx, invoice.ID); terr == nil {
			return nil
		} else if !errors.Is(terr, shared.ErrNotFound) {
			return terr
		}
		doc = &search.Document{
			ID:        primitive.NewObjectID(),
			InvoiceID: invoice.ID,
		}
	}

	doc.CustomerID = customer.ID
	doc.Amount = invoice.Amount
	doc.Date = invoice.Date
	doc.Status = string(invoice.Status)
	doc.CustomerName = customer.Name
	doc.CustomerEmail = customer.Email
	doc.CustomerImageURL = customer.ImageURL
	doc.LastSyncedAt = s.now()

	return s.docs.Save(ctx, doc)
}

// SyncCustomer fans one customer's fields out across every document that
// references it, in a single bulk store-side update. Invoice-owned fields
// are untouched; re-reading each invoice would buy nothing since only
// customer fields changed. Nil customers and customers without an
// identifier are silent no-ops.
func (s *Synchronizer) SyncCustomer(ctx context.Context, customer *partner.Customer) error {
	if customer == nil || customer.ID.IsZero() {
		return nil
	}

	fields := search.CustomerFields{
		Name:     customer.Name,
		Email:    customer.Email,
		ImageURL: customer.ImageURL,
	}
	return s.docs.UpdateCustomerFields(ctx, customer.ID, fields, s.now())
}

// MarkInvoiceDeleted tombstones the live document for the invoice without
// altering its other fields. A zero id or an absent document is a silent
// no-op; the tombstone stays in the collection as an audit trail.
func (s *Synchronizer) MarkInvoiceDeleted(ctx context.Context, invoiceID primitive.ObjectID) error {
	if invoiceID.IsZero() {
		return nil
	}
	return s.docs.MarkDeleted(ctx, invoiceID, s.now())
}
