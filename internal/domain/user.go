package domain

import (
	"context"
	"time"
)

// User represents a registered shopper.
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string // Verbatim or bcrypt hash, depending on the password mode.
	Cart      Cart
	CreatedAt time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// UpdateCart replaces the stored cart of the user wholesale.
	UpdateCart(ctx context.Context, id int64, cart Cart) error
}
