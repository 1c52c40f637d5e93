package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finboard/backend/internal/domain/billing"
	"github.com/finboard/backend/internal/domain/search"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuilder_Rebuild_PurgesTombstonesAndConverges(t *testing.T) {
	docs := newMemDocStore()
	customers := newMemCustomerStore()
	invoices := newMemInvoiceStore()
	sync := NewSynchronizer(docs, customers)
	rebuilder := NewRebuilder(docs, invoices, sync)

	customer := newTestCustomer(t, "Amy Burns", "amy@burns.com")
	customers.put(customer)

	kept := newTestInvoice(t, customer.ID, "100", billing.InvoiceStatusPaid)
	deleted := newTestInvoice(t, customer.ID, "50", billing.InvoiceStatusPending)
	invoices.put(kept)
	invoices.put(deleted)

	require.NoError(t, sync.SyncInvoice(context.Background(), kept))
	require.NoError(t, sync.SyncInvoice(context.Background(), deleted))
	require.NoError(t, invoices.Delete(context.Background(), deleted.ID))
	require.NoError(t, sync.MarkInvoiceDeleted(context.Background(), deleted.ID))
	require.Len(t, docs.all(), 2, "tombstone present before rebuild")

	require.NoError(t, rebuilder.Rebuild(context.Background()))

	assert.Len(t, docs.all(), 1, "rebuild drops tombstones for good")
	doc, err := docs.FindActiveByInvoiceID(context.Background(), kept.ID)
	require.NoError(t, err)
	assert.True(t, doc.Amount.Equal(decimal.RequireFromString("100")))
}

func TestRebuilder_Rebuild_RepairsDrift(t *testing.T) {
	docs := newMemDocStore()
	customers := newMemCustomerStore()
	invoices := newMemInvoiceStore()
	sync := NewSynchronizer(docs, customers)
	rebuilder := NewRebuilder(docs, invoices, sync)

	customer := newTestCustomer(t, "Lee Robinson", "lee@robinson.com")
	customers.put(customer)
	invoice := newTestInvoice(t, customer.ID, "75", billing.InvoiceStatusPending)
	invoices.put(invoice)

	// Simulate drift: a stale document for the invoice and an orphan whose
	// invoice no longer exists.
	orphan := newTestInvoice(t, customer.ID, "999", billing.InvoiceStatusPaid)
	require.NoError(t, sync.SyncInvoice(context.Background(), invoice))
	require.NoError(t, sync.SyncInvoice(context.Background(), orphan))
	require.NoError(t, invoice.Update(decimal.RequireFromString("80"), invoice.Date, billing.InvoiceStatusPaid))
	invoices.put(invoice) // primary updated, index not

	require.NoError(t, rebuilder.Rebuild(context.Background()))

	assert.Len(t, docs.all(), 1, "orphan dropped")
	doc, err := docs.FindActiveByInvoiceID(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.True(t, doc.Amount.Equal(decimal.RequireFromString("80")))
	assert.Equal(t, "paid", doc.Status)
}

func TestRebuilder_Rebuild_RerunConverges(t *testing.T) {
	docs := newMemDocStore()
	customers := newMemCustomerStore()
	invoices := newMemInvoiceStore()
	sync := NewSynchronizer(docs, customers)
	rebuilder := NewRebuilder(docs, invoices, sync)

	customer := newTestCustomer(t, "Delba", "delba@oliveira.com")
	customers.put(customer)
	for i := 0; i < 3; i++ {
		invoices.put(newTestInvoice(t, customer.ID, "10", billing.InvoiceStatusPaid))
	}

	require.NoError(t, rebuilder.Rebuild(context.Background()))
	require.NoError(t, rebuilder.Rebuild(context.Background()))

	assert.Len(t, docs.live(), 3)
}

func TestRebuilder_Rebuild_SkipsInvoicesWithoutCustomer(t *testing.T) {
	docs := newMemDocStore()
	customers := newMemCustomerStore()
	invoices := newMemInvoiceStore()
	rebuilder := NewRebuilder(docs, invoices, NewSynchronizer(docs, customers))

	customer := newTestCustomer(t, "Known", "known@mail.com")
	customers.put(customer)
	invoices.put(newTestInvoice(t, customer.ID, "10", billing.InvoiceStatusPaid))

	// Customer record is gone; its invoice cannot be projected.
	ghost := newTestInvoice(t, newTestCustomer(t, "Ghost", "ghost@mail.com").ID, "20", billing.InvoiceStatusPending)
	invoices.put(ghost)

	require.NoError(t, rebuilder.Rebuild(context.Background()))
	assert.Len(t, docs.live(), 1)
}

func TestRebuilder_Rebuild_PropagatesStoreErrors(t *testing.T) {
	docs := newMemDocStore()
	customers := newMemCustomerStore()
	invoices := newMemInvoiceStore()
	rebuilder := NewRebuilder(docs, invoices, NewSynchronizer(docs, customers))

	docs.failDeleteAll = errors.New("store down")
	assert.EqualError(t, rebuilder.Rebuild(context.Background()), "store down")

	docs.failDeleteAll = nil
	customer := newTestCustomer(t, "Amy", "amy@mail.com")
	customers.put(customer)
	invoices.put(newTestInvoice(t, customer.ID, "10", billing.InvoiceStatusPaid))
	docs.failSave = errors.New("write refused")
	assert.EqualError(t, rebuilder.Rebuild(context.Background()), "write refused")

	// Retry after the fault clears finishes the job.
	docs.failSave = nil
	require.NoError(t, rebuilder.Rebuild(context.Background()))
	assert.Len(t, docs.live(), 1)
}

// TestSearchIndex_Lifecycle walks the projection through the full write
// path: create, pay, customer rename, delete, rebuild.
func TestSearchIndex_Lifecycle(t *testing.T) {
	ctx := context.Background()
	docs := newMemDocStore()
	customers := newMemCustomerStore()
	invoices := newMemInvoiceStore()
	sync := NewSynchronizer(docs, customers)
	exec := NewExecutor(docs)
	rebuilder := NewRebuilder(docs, invoices, sync)
	page := search.PageRequest{Page: 1, Size: 20}

	customer := newTestCustomer(t, "Acme GmbH", "billing@acme.de")
	customers.put(customer)

	invoice, err := billing.NewInvoice(customer.ID, decimal.RequireFromString("1200.50"), time.Now(), billing.InvoiceStatusPending)
	require.NoError(t, err)
	invoices.put(invoice)
	require.NoError(t, sync.SyncInvoice(ctx, invoice))

	result, err := exec.Search(ctx, "acme", page)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	assert.Equal(t, "pending", result.Items[0].Status)

	invoice.MarkPaid()
	invoices.put(invoice)
	require.NoError(t, sync.SyncInvoice(ctx, invoice))

	result, err = exec.Search(ctx, "pending", page)
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	result, err = exec.Search(ctx, "1200.50", page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	require.NoError(t, customer.Update("Acme Industries", "billing@acme.de"))
	customers.put(customer)
	require.NoError(t, sync.SyncCustomer(ctx, customer))

	result, err = exec.Search(ctx, "industries", page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	require.NoError(t, invoices.Delete(ctx, invoice.ID))
	require.NoError(t, sync.MarkInvoiceDeleted(ctx, invoice.ID))

	result, err = exec.Search(ctx, "", page)
	require.NoError(t, err)
	assert.Zero(t, result.Total)

	require.NoError(t, rebuilder.Rebuild(ctx))
	assert.Empty(t, docs.all(), "deleted invoice stays gone after rebuild")
}
