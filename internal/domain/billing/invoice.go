package billing

import (
	"time"

	"github.com/finboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Invoice represents an invoice in the billing context. The customer is
// a stored reference; the search projection resolves and denormalizes it
// at sync time.
type Invoice struct {
	shared.BaseEntity `bson:",inline"`
	CustomerID        primitive.ObjectID `bson:"customer_id" json:"customer_id"`
	Amount            decimal.Decimal    `bson:"amount" json:"amount"`
	Date              time.Time          `bson:"date" json:"date"`
	Status            InvoiceStatus      `bson:"status" json:"status"`
}

// CollectionName returns the mongo collection for invoices
func (Invoice) CollectionName() string {
	return "invoices"
}

// NewInvoice creates a new invoice for the given customer
func NewInvoice(customerID primitive.ObjectID, amount decimal.Decimal, date time.Time, status InvoiceStatus) (*Invoice, error) {
	if customerID.IsZero() {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Invoice customer is required")
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &Invoice{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Amount:     amount,
		Date:       date,
		Status:     status,
	}, nil
}

// Update updates the invoice's mutable fields
func (i *Invoice) Update(amount decimal.Decimal, date time.Time, status InvoiceStatus) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if err := validateStatus(status); err != nil {
		return err
	}
	i.Amount = amount
	if !date.IsZero() {
		i.Date = date
	}
	i.Status = status
	i.Touch()
	return nil
}

// MarkPaid transitions the invoice to the paid status
func (i *Invoice) MarkPaid() {
	i.Status = InvoiceStatusPaid
	i.Touch()
}

// MarkDeleted soft-deletes the invoice
func (i *Invoice) MarkDeleted() {
	now := time.Now()
	i.DeletedAt = &now
	i.Touch()
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Invoice amount cannot be negative")
	}
	return nil
}

func validateStatus(status InvoiceStatus) error {
	switch status {
	case InvoiceStatusPending, InvoiceStatusPaid:
		return nil
	}
	return shared.NewDomainError("INVALID_STATUS", "Invoice status must be pending or paid")
}
