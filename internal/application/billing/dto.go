package billing

import (
	"time"

	"github.com/finboard/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateInvoiceRequest represents a request to create a new invoice
type CreateInvoiceRequest struct {
	CustomerID string          `json:"customer_id" binding:"required,len=24,hexadecimal"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Date       *time.Time      `json:"date"`
	Status     string          `json:"status" binding:"required,oneof=pending paid"`
}

// UpdateInvoiceRequest represents a request to update an invoice
type UpdateInvoiceRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Date   *time.Time       `json:"date"`
	Status *string          `json:"status" binding:"omitempty,oneof=pending paid"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID         primitive.ObjectID `json:"id"`
	CustomerID primitive.ObjectID `json:"customer_id"`
	Amount     decimal.Decimal    `json:"amount"`
	Date       time.Time          `json:"date"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// InvoiceListFilter represents filter options for invoice list
type InvoiceListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending paid"`
	CustomerID string `form:"customer_id" binding:"omitempty,len=24,hexadecimal"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(i *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:         i.ID,
		CustomerID: i.CustomerID,
		Amount:     i.Amount,
		Date:       i.Date,
		Status:     string(i.Status),
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of domain Invoices
func ToInvoiceResponses(invoices []billing.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}
