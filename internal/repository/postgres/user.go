package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/storefront/internal/domain"
)

type userRepo struct {
	pool *pgxpool.Pool
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	if user.Cart == nil {
		user.Cart = domain.NewCart()
	}
	cart, err := json.Marshal(user.Cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password, cart)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		user.Name, user.Email, user.Password, string(cart),
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT id, name, email, password, cart, created_at FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT id, name, email, password, cart, created_at FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

func (r *userRepo) UpdateCart(ctx context.Context, id int64, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `UPDATE users SET cart = $1 WHERE id = $2`, string(data), id)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	var cart []byte
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &cart, &user.CreatedAt); err != nil {
		return nil, err
	}

	var stored domain.Cart
	if err := json.Unmarshal(cart, &stored); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	user.Cart = stored.Normalize()
	return user, nil
}
