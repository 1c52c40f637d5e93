package partner

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	searchapp "github.com/finboard/backend/internal/application/search"
	"github.com/finboard/backend/internal/domain/partner"
	"github.com/finboard/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageStorage stores customer profile images and returns their public URL
type ImageStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// CustomerService handles customer-related business operations. Every write
// that changes denormalized fields fans out to the search index inline.
type CustomerService struct {
	customerRepo partner.CustomerRepository
	sync         *searchapp.Synchronizer
	images       ImageStorage
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, sync *searchapp.Synchronizer, images ImageStorage) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		sync:         sync,
		images:       images,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	customer, err := partner.NewCustomer(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id primitive.ObjectID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List retrieves customers with pagination and optional search
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (shared.Paginated[CustomerResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search

	customers, err := s.customerRepo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	total, err := s.customerRepo.Count(ctx, f)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}

	return shared.NewPaginated(ToCustomerResponses(customers), total, f.Page, f.PageSize), nil
}

// Update updates a customer and fans the change out to the search index.
// An index failure surfaces to the caller: the primary write has already
// happened, and the client is expected to retry.
func (s *CustomerService) Update(ctx context.Context, id primitive.ObjectID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := customer.Name
	if req.Name != nil {
		name = *req.Name
	}
	email := customer.Email
	if req.Email != nil {
		email = *req.Email
	}

	if email != customer.Email {
		exists, err := s.customerRepo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
		}
	}

	if err := customer.Update(name, email); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	if err := s.sync.SyncCustomer(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// UploadImage stores a profile image and records its URL on the customer.
// The new URL fans out to the search index like any other customer write.
func (s *CustomerService) UploadImage(ctx context.Context, id primitive.ObjectID, filename, contentType string, body io.Reader) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image must be png, jpg, gif or webp")
	}

	key := fmt.Sprintf("customers/%s/avatar%s", id.Hex(), ext)
	url, err := s.images.Upload(ctx, key, body, contentType)
	if err != nil {
		return nil, err
	}

	customer.SetImageURL(url)
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	if err := s.sync.SyncCustomer(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete soft-deletes a customer. Search documents for the customer's
// invoices keep their last synced snapshot; they disappear when the
// invoices themselves are deleted or on the next rebuild.
func (s *CustomerService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.customerRepo.Delete(ctx, id)
}
