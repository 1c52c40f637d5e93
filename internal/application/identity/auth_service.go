package identity

import (
	"context"
	"errors"

	"github.com/finboard/backend/internal/domain/identity"
	"github.com/finboard/backend/internal/domain/shared"
	"github.com/finboard/backend/internal/infrastructure/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService handles login, token refresh and logout
type AuthService struct {
	userRepo  identity.UserRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, jwt *auth.JWTService, blacklist auth.TokenBlacklist) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwt:       jwt,
		blacklist: blacklist,
	}
}

// Login authenticates a user by email and password and issues a token pair.
// A missing user and a wrong password produce the same error so the
// endpoint does not leak which emails exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a fresh token pair.
// Grants are re-resolved from the store so revoked grants take effect
// on the next refresh at the latest.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*LoginResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token is invalid or expired")
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token has been revoked")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token is invalid or expired")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "User no longer exists")
		}
		return nil, err
	}

	// The old refresh token is single-use
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Logout revokes both tokens of a session for their remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessClaims *auth.Claims, refreshToken string) error {
	if err := s.blacklist.Revoke(ctx, accessClaims.ID, accessClaims.GetRemainingTTL()); err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}
	refreshClaims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		// Already invalid; nothing to revoke
		return nil
	}
	return s.blacklist.Revoke(ctx, refreshClaims.ID, refreshClaims.GetRemainingTTL())
}

func (s *AuthService) issueTokens(user *identity.User) (*LoginResponse, error) {
	pair, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Name:   user.Name,
		Grants: user.Grants,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:                  ToUserResponse(user),
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}
