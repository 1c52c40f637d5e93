package partner

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	searchapp "github.com/finboard/backend/internal/application/search"
	"github.com/finboard/backend/internal/domain/partner"
	"github.com/finboard/backend/internal/domain/search"
	"github.com/finboard/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

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

// MockDocumentRepository is a mock implementation of search.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindActiveByInvoiceID(ctx context.Context, invoiceID primitive.ObjectID) (*search.Document, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByInvoiceID(ctx context.Context, invoiceID primitive.ObjectID) (*search.Document, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindPage(ctx context.Context, query search.Query, page search.PageRequest) ([]search.Document, int64, error) {
	args := m.Called(ctx, query, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]search.Document), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *search.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateCustomerFields(ctx context.Context, customerID primitive.ObjectID, fields search.CustomerFields, syncedAt time.Time) error {
	args := m.Called(ctx, customerID, fields, syncedAt)
	return args.Error(0)
}

func (m *MockDocumentRepository) MarkDeleted(ctx context.Context, invoiceID primitive.ObjectID, deletedAt time.Time) error {
	args := m.Called(ctx, invoiceID, deletedAt)
	return args.Error(0)
}

func (m *MockDocumentRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockImageStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newServiceUnderTest() (*CustomerService, *MockCustomerRepository, *MockDocumentRepository, *MockImageStorage) {
	customerRepo := new(MockCustomerRepository)
	docRepo := new(MockDocumentRepository)
	images := new(MockImageStorage)
	sync := searchapp.NewSynchronizer(docRepo, customerRepo)
	return NewCustomerService(customerRepo, sync, images), customerRepo, docRepo, images
}

func TestCustomerService_Create(t *testing.T) {
	service, customerRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()

	customerRepo.On("ExistsByEmail", ctx, "amy@burns.com").Return(false, nil)
	customerRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	resp, err := service.Create(ctx, CreateCustomerRequest{Name: "Amy Burns", Email: "Amy@Burns.com"})

	require.NoError(t, err)
	assert.Equal(t, "Amy Burns", resp.Name)
	assert.Equal(t, "amy@burns.com", resp.Email, "email is normalized to lower case")
	assert.False(t, resp.ID.IsZero())
	customerRepo.AssertExpectations(t)
}

func TestCustomerService_Create_DuplicateEmail(t *testing.T) {
	service, customerRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()

	customerRepo.On("ExistsByEmail", ctx, "taken@mail.com").Return(true, nil)

	_, err := service.Create(ctx, CreateCustomerRequest{Name: "Dup", Email: "taken@mail.com"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	customerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerService_Create_InvalidInput(t *testing.T) {
	service, customerRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()
	customerRepo.On("ExistsByEmail", ctx, mock.AnythingOfType("string")).Return(false, nil)

	_, err := service.Create(ctx, CreateCustomerRequest{Name: "  ", Email: "a@b.com"})
	assert.Error(t, err)

	_, err = service.Create(ctx, CreateCustomerRequest{Name: "Valid", Email: "not-an-email"})
	assert.Error(t, err)
}

func TestCustomerService_Update_FansOutToIndex(t *testing.T) {
	service, customerRepo, docRepo, _ := newServiceUnderTest()
	ctx := context.Background()
	customer, err := partner.NewCustomer("Old Name", "old@mail.com")
	require.NoError(t, err)

	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	customerRepo.On("Save", ctx, customer).Return(nil)
	docRepo.On("UpdateCustomerFields", ctx, customer.ID, search.CustomerFields{
		Name:  "New Name",
		Email: "old@mail.com",
	}, mock.AnythingOfType("time.Time")).Return(nil)

	name := "New Name"
	resp, err := service.Update(ctx, customer.ID, UpdateCustomerRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "New Name", resp.Name)
	docRepo.AssertExpectations(t)
}

func TestCustomerService_Update_EmailChangeChecksUniqueness(t *testing.T) {
	service, customerRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()
	customer, err := partner.NewCustomer("Amy", "amy@mail.com")
	require.NoError(t, err)

	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	customerRepo.On("ExistsByEmail", ctx, "taken@mail.com").Return(true, nil)

	email := "taken@mail.com"
	_, err = service.Update(ctx, customer.ID, UpdateCustomerRequest{Email: &email})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	customerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerService_Update_NotFound(t *testing.T) {
	service, customerRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()
	id := primitive.NewObjectID()

	customerRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := service.Update(ctx, id, UpdateCustomerRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerService_UploadImage(t *testing.T) {
	service, customerRepo, docRepo, images := newServiceUnderTest()
	ctx := context.Background()
	customer, err := partner.NewCustomer("Amy", "amy@mail.com")
	require.NoError(t, err)
	body := strings.NewReader("fake-png-bytes")
	key := "customers/" + customer.ID.Hex() + "/avatar.png"

	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	images.On("Upload", ctx, key, body, "image/png").Return("https://cdn.local/"+key, nil)
	customerRepo.On("Save", ctx, customer).Return(nil)
	docRepo.On("UpdateCustomerFields", ctx, customer.ID, mock.MatchedBy(func(f search.CustomerFields) bool {
		return f.ImageURL == "https://cdn.local/"+key
	}), mock.AnythingOfType("time.Time")).Return(nil)

	resp, err := service.UploadImage(ctx, customer.ID, "avatar.PNG", "image/png", body)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.local/"+key, resp.ImageURL)
	images.AssertExpectations(t)
	docRepo.AssertExpectations(t)
}

func TestCustomerService_UploadImage_RejectsUnknownExtension(t *testing.T) {
	service, customerRepo, _, images := newServiceUnderTest()
	ctx := context.Background()
	customer, err := partner.NewCustomer("Amy", "amy@mail.com")
	require.NoError(t, err)

	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

	_, err = service.UploadImage(ctx, customer.ID, "payload.exe", "application/octet-stream", strings.NewReader("x"))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_IMAGE", domainErr.Code)
	images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomerService_List(t *testing.T) {
	service, customerRepo, _, _ := newServiceUnderTest()
	ctx := context.Background()

	expected := shared.DefaultFilter()
	expected.Search = "amy"
	customerRepo.On("FindAll", ctx, expected).Return([]partner.Customer{}, nil)
	customerRepo.On("Count", ctx, expected).Return(int64(0), nil)

	result, err := service.List(ctx, CustomerListFilter{Search: "amy"})

	require.NoError(t, err)
	assert.Zero(t, result.Total)
	customerRepo.AssertExpectations(t)
}

func TestCustomerService_Delete_LeavesIndexAlone(t *testing.T) {
	service, customerRepo, docRepo, _ := newServiceUnderTest()
	ctx := context.Background()
	id := primitive.NewObjectID()

	customerRepo.On("Delete", ctx, id).Return(nil)

	require.NoError(t, service.Delete(ctx, id))
	docRepo.AssertNotCalled(t, "UpdateCustomerFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	docRepo.AssertNotCalled(t, "MarkDeleted", mock.Anything, mock.Anything, mock.Anything)
}
