package billing

import (
	"context"

	"github.com/finboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusTotals holds aggregated invoice amounts grouped by status
type StatusTotals struct {
	Paid    decimal.Decimal
	Pending decimal.Decimal
}

// InvoiceRepository defines persistence operations for invoices.
// All read operations exclude soft-deleted invoices.
type InvoiceRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	// FindAllActive streams every non-deleted invoice; used by the index rebuild.
	FindAllActive(ctx context.Context) ([]Invoice, error)
	FindByCustomer(ctx context.Context, customerID primitive.ObjectID, filter shared.Filter) ([]Invoice, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status InvoiceStatus) (int64, error)
	// SumByStatus aggregates invoice amounts per status for the dashboard cards.
	SumByStatus(ctx context.Context) (*StatusTotals, error)
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
