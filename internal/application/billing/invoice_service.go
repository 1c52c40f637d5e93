package billing

import (
	"context"
	"time"

	searchapp "github.com/finboard/backend/internal/application/search"
	"github.com/finboard/backend/internal/domain/billing"
	"github.com/finboard/backend/internal/domain/partner"
	"github.com/finboard/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvoiceService handles invoice-related business operations. Every write
// is projected into the search index inline, before the call returns; an
// index failure surfaces as the operation's error even though the primary
// write has already committed.
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	customerRepo partner.CustomerRepository
	sync         *searchapp.Synchronizer
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, customerRepo partner.CustomerRepository, sync *searchapp.Synchronizer) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		sync:         sync,
	}
}

// Create creates a new invoice for an existing customer
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customerID, err := primitive.ObjectIDFromHex(req.CustomerID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer id is not a valid identifier")
	}
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	invoice, err := billing.NewInvoice(customerID, req.Amount, date, billing.InvoiceStatus(req.Status))
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.sync.SyncInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, id primitive.ObjectID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// List retrieves invoices with pagination and optional filters
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) (shared.Paginated[InvoiceResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.CustomerID != "" {
		customerID, err := primitive.ObjectIDFromHex(filter.CustomerID)
		if err != nil {
			return shared.Paginated[InvoiceResponse]{}, shared.NewDomainError("INVALID_CUSTOMER", "Customer id is not a valid identifier")
		}
		f.Filters["customer_id"] = customerID
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[InvoiceResponse]{}, err
	}
	total, err := s.invoiceRepo.Count(ctx, f)
	if err != nil {
		return shared.Paginated[InvoiceResponse]{}, err
	}

	return shared.NewPaginated(ToInvoiceResponses(invoices), total, f.Page, f.PageSize), nil
}

// Update updates an invoice and re-projects it into the search index
func (s *InvoiceService) Update(ctx context.Context, id primitive.ObjectID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	amount := invoice.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	date := invoice.Date
	if req.Date != nil {
		date = *req.Date
	}
	status := invoice.Status
	if req.Status != nil {
		status = billing.InvoiceStatus(*req.Status)
	}

	if err := invoice.Update(amount, date, status); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.sync.SyncInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// MarkPaid transitions an invoice to paid and re-projects it
func (s *InvoiceService) MarkPaid(ctx context.Context, id primitive.ObjectID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	invoice.MarkPaid()
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.sync.SyncInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// Delete soft-deletes an invoice and tombstones its search document
func (s *InvoiceService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.sync.MarkInvoiceDeleted(ctx, id)
}
