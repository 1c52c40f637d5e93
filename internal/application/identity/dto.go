package identity

import (
	"time"

	"github.com/finboard/backend/internal/domain/identity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResponse carries the token pair plus the authenticated user
type LoginResponse struct {
	User                  UserResponse `json:"user"`
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
}

// CreateUserRequest represents a request to create a new user
type CreateUserRequest struct {
	Name     string   `json:"name" binding:"required,min=1,max=200"`
	Email    string   `json:"email" binding:"required,email,max=200"`
	Password string   `json:"password" binding:"required,min=6,max=128"`
	Grants   []string `json:"grants"`
}

// UpdateUserRequest represents a request to update a user
type UpdateUserRequest struct {
	Name     *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Password *string  `json:"password" binding:"omitempty,min=6,max=128"`
	Grants   []string `json:"grants"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Grants    []string           `json:"grants"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// UserListFilter represents filter options for user list
type UserListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Grants:    u.Grants,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of domain Users
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
