package reporting

import (
	"context"
	"errors"

	"github.com/finboard/backend/internal/domain/billing"
	"github.com/finboard/backend/internal/domain/partner"
	"github.com/finboard/backend/internal/domain/reporting"
	"github.com/finboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RevenueService serves the dashboard's chart and summary cards
type RevenueService struct {
	revenueRepo  reporting.RevenueRepository
	invoiceRepo  billing.InvoiceRepository
	customerRepo partner.CustomerRepository
}

// NewRevenueService creates a new RevenueService
func NewRevenueService(revenueRepo reporting.RevenueRepository, invoiceRepo billing.InvoiceRepository, customerRepo partner.CustomerRepository) *RevenueService {
	return &RevenueService{
		revenueRepo:  revenueRepo,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
	}
}

// List returns monthly revenue records in calendar order
func (s *RevenueService) List(ctx context.Context) ([]RevenueResponse, error) {
	revenues, err := s.revenueRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToRevenueResponses(revenues), nil
}

// Upsert records or replaces a month's revenue figure
func (s *RevenueService) Upsert(ctx context.Context, req UpsertRevenueRequest) (*RevenueResponse, error) {
	revenue, err := s.revenueRepo.FindByMonth(ctx, req.Month)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if revenue == nil {
		revenue, err = reporting.NewRevenue(req.Month, req.Revenue)
		if err != nil {
			return nil, err
		}
	} else {
		if req.Revenue < 0 {
			return nil, shared.NewDomainError("INVALID_REVENUE", "Revenue cannot be negative")
		}
		revenue.Revenue = req.Revenue
		revenue.Touch()
	}

	if err := s.revenueRepo.Save(ctx, revenue); err != nil {
		return nil, err
	}
	resp := ToRevenueResponse(revenue)
	return &resp, nil
}

// Overview aggregates the dashboard summary cards in one call
func (s *RevenueService) Overview(ctx context.Context) (*OverviewResponse, error) {
	customerCount, err := s.customerRepo.Count(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	invoiceCount, err := s.invoiceRepo.Count(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	totals, err := s.invoiceRepo.SumByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &OverviewResponse{
		TotalCustomers: customerCount,
		TotalInvoices:  invoiceCount,
		TotalPaid:      totals.Paid,
		TotalPending:   totals.Pending,
	}, nil
}

// OverviewResponse is the dashboard summary card payload
type OverviewResponse struct {
	TotalCustomers int64           `json:"total_customers"`
	TotalInvoices  int64           `json:"total_invoices"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalPending   decimal.Decimal `json:"total_pending"`
}
