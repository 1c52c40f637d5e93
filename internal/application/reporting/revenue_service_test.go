package reporting

import (
	"context"
	"errors"
	"testing"

	"github.com/finboard/backend/internal/domain/billing"
	"github.com/finboard/backend/internal/domain/partner"
	"github.com/finboard/backend/internal/domain/reporting"
	"github.com/finboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockRevenueRepository is a mock implementation of reporting.RevenueRepository
type MockRevenueRepository struct {
	mock.Mock
}

func (m *MockRevenueRepository) FindAll(ctx context.Context) ([]reporting.Revenue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reporting.Revenue), args.Error(1)
}

func (m *MockRevenueRepository) FindByMonth(ctx context.Context, month string) (*reporting.Revenue, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reporting.Revenue), args.Error(1)
}

func (m *MockRevenueRepository) Save(ctx context.Context, revenue *reporting.Revenue) error {
	args := m.Called(ctx, revenue)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllActive(ctx context.Context) ([]billing.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomer(ctx context.Context, customerID primitive.ObjectID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) CountByStatus(ctx context.Context, status billing.InvoiceStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SumByStatus(ctx context.Context) (*billing.StatusTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.StatusTotals), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newServiceUnderTest() (*RevenueService, *MockRevenueRepository, *MockInvoiceRepository, *MockCustomerRepository) {
	revenueRepo := new(MockRevenueRepository)
	invoiceRepo := new(MockInvoiceRepository)
	customerRepo := new(MockCustomerRepository)
	return NewRevenueService(revenueRepo, invoiceRepo, customerRepo), revenueRepo, invoiceRepo, customerRepo
}

func mustRevenue(t *testing.T, month string, amount int64) reporting.Revenue {
	t.Helper()
	r, err := reporting.NewRevenue(month, amount)
	require.NoError(t, err)
	return *r
}

func TestRevenueService_List(t *testing.T) {
	service, revenueRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()

	revenueRepo.On("FindAll", ctx).Return([]reporting.Revenue{
		mustRevenue(t, "Jan", 2000),
		mustRevenue(t, "Feb", 1800),
	}, nil)

	result, err := service.List(ctx)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, RevenueResponse{Month: "Jan", Revenue: 2000}, result[0])
}

func TestRevenueService_Upsert_CreatesNewMonth(t *testing.T) {
	service, revenueRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()

	revenueRepo.On("FindByMonth", ctx, "Mar").Return(nil, shared.ErrNotFound)
	revenueRepo.On("Save", ctx, mock.MatchedBy(func(r *reporting.Revenue) bool {
		return r.Month == "Mar" && r.Revenue == 2200
	})).Return(nil)

	resp, err := service.Upsert(ctx, UpsertRevenueRequest{Month: "Mar", Revenue: 2200})

	require.NoError(t, err)
	assert.Equal(t, "Mar", resp.Month)
	assert.Equal(t, int64(2200), resp.Revenue)
	revenueRepo.AssertExpectations(t)
}

func TestRevenueService_Upsert_ReplacesExistingMonth(t *testing.T) {
	service, revenueRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()
	existing := mustRevenue(t, "Apr", 1000)

	revenueRepo.On("FindByMonth", ctx, "Apr").Return(&existing, nil)
	revenueRepo.On("Save", ctx, &existing).Return(nil)

	resp, err := service.Upsert(ctx, UpsertRevenueRequest{Month: "Apr", Revenue: 2500})

	require.NoError(t, err)
	assert.Equal(t, "Apr", resp.Month)
	assert.Equal(t, int64(2500), resp.Revenue)
	revenueRepo.AssertExpectations(t)
}

func TestRevenueService_Upsert_RejectsInvalidMonth(t *testing.T) {
	service, revenueRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()

	revenueRepo.On("FindByMonth", ctx, "January").Return(nil, shared.ErrNotFound)

	_, err := service.Upsert(ctx, UpsertRevenueRequest{Month: "January", Revenue: 100})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_MONTH", domainErr.Code)
	revenueRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRevenueService_Upsert_RejectsNegativeRevenue(t *testing.T) {
	service, revenueRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()
	existing := mustRevenue(t, "May", 500)

	revenueRepo.On("FindByMonth", ctx, "May").Return(&existing, nil)

	_, err := service.Upsert(ctx, UpsertRevenueRequest{Month: "May", Revenue: -1})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REVENUE", domainErr.Code)
}

func TestRevenueService_Upsert_PropagatesLookupError(t *testing.T) {
	service, revenueRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()

	revenueRepo.On("FindByMonth", ctx, "Jun").Return(nil, errors.New("store down"))

	_, err := service.Upsert(ctx, UpsertRevenueRequest{Month: "Jun", Revenue: 100})
	assert.EqualError(t, err, "store down")
}

func TestRevenueService_Overview(t *testing.T) {
	service, _, invoiceRepo, customerRepo := newServiceUnderTest()
	ctx := context.Background()

	customerRepo.On("Count", ctx, shared.Filter{}).Return(int64(12), nil)
	invoiceRepo.On("Count", ctx, shared.Filter{}).Return(int64(40), nil)
	invoiceRepo.On("SumByStatus", ctx).Return(&billing.StatusTotals{
		Paid:    decimal.RequireFromString("1024.50"),
		Pending: decimal.RequireFromString("380"),
	}, nil)

	resp, err := service.Overview(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.TotalCustomers)
	assert.Equal(t, int64(40), resp.TotalInvoices)
	assert.True(t, resp.TotalPaid.Equal(decimal.RequireFromString("1024.50")))
	assert.True(t, resp.TotalPending.Equal(decimal.RequireFromString("380")))
}

func TestRevenueService_Overview_PropagatesErrors(t *testing.T) {
	service, _, invoiceRepo, customerRepo := newServiceUnderTest()
	ctx := context.Background()

	customerRepo.On("Count", ctx, shared.Filter{}).Return(int64(0), errors.New("store down"))

	_, err := service.Overview(ctx)
	assert.EqualError(t, err, "store down")
	invoiceRepo.AssertNotCalled(t, "SumByStatus", mock.Anything)
}
