package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/msomdec/storefront/internal/domain"
)

// CartService applies single-slot cart mutations.
//
// Every mutation reads the whole cart, changes one slot and writes the whole
// cart back. There is no isolation between those steps: two concurrent
// mutations of the same user can both read the old cart and the later write
// wins, losing one update.
type CartService struct {
	users  domain.UserRepository
	tracer trace.Tracer
}

// NewCartService creates a new CartService.
func NewCartService(users domain.UserRepository) *CartService {
	return &CartService{
		users:  users,
		tracer: otel.Tracer("github.com/msomdec/storefront/internal/service"),
	}
}

// AddToCart increments the quantity in slot by one. There is no upper bound.
func (s *CartService) AddToCart(ctx context.Context, userID int64, slot int) (err error) {
	ctx, span := s.startSpan(ctx, "cart.add", userID, slot)
	defer func() { endSpan(span, err) }()

	return s.mutate(ctx, userID, slot, func(cart domain.Cart) {
		cart[slot]++
	})
}

// RemoveFromCart decrements the quantity in slot by one unless it is zero.
func (s *CartService) RemoveFromCart(ctx context.Context, userID int64, slot int) (err error) {
	ctx, span := s.startSpan(ctx, "cart.remove", userID, slot)
	defer func() { endSpan(span, err) }()

	return s.mutate(ctx, userID, slot, func(cart domain.Cart) {
		if cart[slot] != 0 {
			cart[slot]--
		}
	})
}

// GetCart returns the full cart of the user.
func (s *CartService) GetCart(ctx context.Context, userID int64) (cart domain.Cart, err error) {
	ctx, span := s.tracer.Start(ctx, "cart.get", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer func() { endSpan(span, err) }()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

func (s *CartService) mutate(ctx context.Context, userID int64, slot int, apply func(domain.Cart)) error {
	if !domain.ValidSlot(slot) {
		return fmt.Errorf("%w: item id %d is outside 0..%d", domain.ErrInvalidInput, slot, domain.CartSlots-1)
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	apply(user.Cart)

	if err := s.users.UpdateCart(ctx, userID, user.Cart); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: id %d", domain.ErrUserNotFound, userID)
		}
		return fmt.Errorf("update cart: %w", err)
	}
	return nil
}

func (s *CartService) loadUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *CartService) startSpan(ctx context.Context, name string, userID int64, slot int) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int("cart.slot", slot),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
