package identity

import (
	"net/mail"
	"strings"

	"github.com/finboard/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Well-known grants. A grant is a "<resource>:<action>" pair matched by the
// authorization middleware; GrantAdmin short-circuits every check.
const (
	GrantAdmin          = "admin"
	GrantCustomersRead  = "customers:read"
	GrantCustomersWrite = "customers:write"
	GrantInvoicesRead   = "invoices:read"
	GrantInvoicesWrite  = "invoices:write"
	GrantRevenuesRead   = "revenues:read"
	GrantUsersRead      = "users:read"
	GrantUsersWrite     = "users:write"
)

// DefaultGrants are assigned to newly registered users
var DefaultGrants = []string{
	GrantCustomersRead,
	GrantCustomersWrite,
	GrantInvoicesRead,
	GrantInvoicesWrite,
	GrantRevenuesRead,
}

// User represents a dashboard user in the identity context
type User struct {
	shared.BaseEntity `bson:",inline"`
	Name              string   `bson:"name" json:"name"`
	Email             string   `bson:"email" json:"email"`
	PasswordHash      string   `bson:"password_hash" json:"-"`
	Grants            []string `bson:"grants" json:"grants"`
}

// CollectionName returns the mongo collection for users
func (User) CollectionName() string {
	return "users"
}

// NewUser creates a new user with a bcrypt-hashed password
func NewUser(name, email, password string, grants []string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "User email is not a valid address")
	}
	if len(password) < 6 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if len(grants) == 0 {
		grants = append([]string(nil), DefaultGrants...)
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Grants:       grants,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(password string) error {
	if len(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// SetGrants replaces the user's grant list
func (u *User) SetGrants(grants []string) {
	u.Grants = append([]string(nil), grants...)
	u.Touch()
}

// HasGrant reports whether the user carries the given grant
func (u *User) HasGrant(grant string) bool {
	for _, g := range u.Grants {
		if g == grant || g == GrantAdmin {
			return true
		}
	}
	return false
}
