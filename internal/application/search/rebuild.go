package search

import (
	"context"

	"github.com/finboard/backend/internal/domain/billing"
	"github.com/finboard/backend/internal/domain/search"
)

// Rebuilder re-derives the entire projection from current primary data:
// the recovery path for index corruption or drift.
type Rebuilder struct {
	docs     search.DocumentRepository
	invoices billing.InvoiceRepository
	sync     *Synchronizer
}

// NewRebuilder creates a Rebuilder over the store and the synchronizer
func NewRebuilder(docs search.DocumentRepository, invoices billing.InvoiceRepository, sync *Synchronizer) *Rebuilder {
	return &Rebuilder{
		docs:     docs,
		invoices: invoices,
		sync:     sync,
	}
}

// Rebuild discards every projection document, tombstones included, then
// re-syncs each non-deleted invoice one by one. A failure partway through
// leaves the projection partially rebuilt; rerunning is safe and converges
// to the same end state, so callers should treat rebuild as
// idempotent-and-retriable rather than atomic.
func (r *Rebuilder) Rebuild(ctx context.Context) error {
	if err := r.docs.DeleteAll(ctx); err != nil {
		return err
	}

	invoices, err := r.invoices.FindAllActive(ctx)
	if err != nil {
		return err
	}

	for i := range invoices {
		if err := r.sync.SyncInvoice(ctx, &invoices[i]); err != nil {
			return err
		}
	}
	return nil
}
