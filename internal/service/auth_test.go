package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/repository/sqlite"
	"github.com/msomdec/storefront/internal/service"
)

func newTestAuthService(t *testing.T, passwords service.PasswordPolicy) (*service.AuthService, *service.TokenService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	tokens := service.NewTokenService(testJWTSecret, 0)
	return service.NewAuthService(db.Users(), tokens, passwords), tokens, db
}

func TestAuthService_Signup_Success(t *testing.T) {
	auth, tokens, db := newTestAuthService(t, service.PlainPasswords{})
	ctx := context.Background()

	user, token, err := auth.Signup(ctx, "New User", "new@example.com", "password123")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}

	id, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id != user.ID {
		t.Fatalf("expected token for user %d, got %d", user.ID, id)
	}

	stored, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.Cart) != domain.CartSlots {
		t.Fatalf("expected %d cart slots, got %d", domain.CartSlots, len(stored.Cart))
	}
	for slot, qty := range stored.Cart {
		if qty != 0 {
			t.Fatalf("expected empty cart, slot %d holds %d", slot, qty)
		}
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	auth, _, _ := newTestAuthService(t, service.PlainPasswords{})
	ctx := context.Background()

	if _, _, err := auth.Signup(ctx, "User 1", "dup@example.com", "password123"); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	_, _, err := auth.Signup(ctx, "User 2", "dup@example.com", "password456")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Signup_MissingFields(t *testing.T) {
	auth, _, _ := newTestAuthService(t, service.PlainPasswords{})
	ctx := context.Background()

	if _, _, err := auth.Signup(ctx, "No Email", "", "password123"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
	}
	if _, _, err := auth.Signup(ctx, "No Password", "np@example.com", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty password, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	auth, tokens, _ := newTestAuthService(t, service.PlainPasswords{})
	ctx := context.Background()

	user, _, err := auth.Signup(ctx, "Login User", "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	token, err := auth.Login(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	id, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, id)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	auth, _, _ := newTestAuthService(t, service.PlainPasswords{})
	ctx := context.Background()

	if _, _, err := auth.Signup(ctx, "User", "wrong@example.com", "password123"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, err := auth.Login(ctx, "wrong@example.com", "wrongpassword")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	auth, _, _ := newTestAuthService(t, service.PlainPasswords{})

	_, err := auth.Login(context.Background(), "nobody@example.com", "password123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_PlainPasswordsStoredVerbatim(t *testing.T) {
	auth, _, db := newTestAuthService(t, service.PlainPasswords{})
	ctx := context.Background()

	user, _, err := auth.Signup(ctx, "Plain", "plain@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	stored, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Password != "hunter2" {
		t.Fatalf("expected verbatim password, got %q", stored.Password)
	}
}

func TestAuthService_BcryptPasswords(t *testing.T) {
	// Use cost 4 for fast tests.
	auth, _, db := newTestAuthService(t, service.BcryptPasswords{Cost: 4})
	ctx := context.Background()

	user, _, err := auth.Signup(ctx, "Hashed", "hashed@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	stored, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Password == "hunter2" {
		t.Fatal("expected password to be hashed")
	}

	if _, err := auth.Login(ctx, "hashed@example.com", "hunter2"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := auth.Login(ctx, "hashed@example.com", "hunter3"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
