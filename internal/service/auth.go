package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/storefront/internal/domain"
)

// AuthService handles signup and login on top of the user store.
type AuthService struct {
	users     domain.UserRepository
	tokens    *TokenService
	passwords PasswordPolicy
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *TokenService, passwords PasswordPolicy) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
	}
}

// Signup creates an account with an all-zero cart and returns the new user
// together with a signed token for it.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	// Explicit pre-check; the unique index on email still backs it up.
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", domain.ErrDuplicateEmail
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	stored, err := s.passwords.Hash(password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: stored,
		Cart:     domain.NewCart(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if !s.passwords.Matches(user.Password, password) {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID)
}
