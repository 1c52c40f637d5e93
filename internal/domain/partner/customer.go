package partner

import (
	"net/mail"
	"strings"

	"github.com/finboard/backend/internal/domain/shared"
)

// Customer represents a customer in the partner context.
// It is one of the two source-of-truth records projected into the
// invoice search index; its name, email and image URL are denormalized
// there and refreshed on every customer write.
type Customer struct {
	shared.BaseEntity `bson:",inline"`
	Name              string `bson:"name" json:"name"`
	Email             string `bson:"email" json:"email"`
	ImageURL          string `bson:"image_url" json:"image_url"`
}

// CollectionName returns the mongo collection for customers
func (Customer) CollectionName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(name, email string) (*Customer, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Email:      strings.ToLower(strings.TrimSpace(email)),
	}, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name, email string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Touch()
	return nil
}

// SetImageURL updates the customer's profile image location
func (c *Customer) SetImageURL(url string) {
	c.ImageURL = url
	c.Touch()
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Customer email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Customer email is not a valid address")
	}
	return nil
}
