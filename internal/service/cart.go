package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mberezin/shop_backend/internal/logging"
	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

// GetCart never 404s: a user who has not added anything yet gets an
// empty cart.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.Repo.CartByUser(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
		}
		return nil, err
	}
	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity uint) (*models.Cart, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add_item", "user_id", userID, "product_id", productID)

	if productID == 0 {
		return nil, fmt.Errorf("product_id required: %w", ErrValidation)
	}
	if quantity == 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", ErrValidation)
	}

	cart, err := s.Repo.AddItemToCart(ctx, userID, productID, quantity)
	if err != nil {
		switch {
		case repo.IsNotFound(err):
			l.Warn("add_item_failed", "status", 404, "reason", "product missing")
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		case errors.Is(err, repo.ErrInsufficientStock):
			l.Warn("add_item_failed", "status", 400, "reason", "insufficient stock", "quantity", quantity)
			return nil, fmt.Errorf("not enough stock for quantity %d: %w", quantity, ErrInsufficientStock)
		default:
			return nil, err
		}
	}

	l.Info("item_added", "quantity", quantity, "total_price", cart.TotalPrice)
	return cart, nil
}

// RemoveItem drops the line item whole. Stock is not restored: the
// decrement at add time is a reservation that only an order flow would
// release.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) (*models.Cart, error) {
	l := logging.FromContext(ctx).With("svc", "cart.remove_item", "user_id", userID, "product_id", productID)

	if productID == 0 {
		return nil, fmt.Errorf("product_id required: %w", ErrValidation)
	}

	cart, err := s.Repo.RemoveItemFromCart(ctx, userID, productID)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("remove_item_failed", "status", 404, "reason", "cart or item missing")
			return nil, fmt.Errorf("item not in cart: %w", ErrNotFound)
		}
		return nil, err
	}

	l.Info("item_removed", "total_price", cart.TotalPrice)
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.Repo.ClearCart(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
		}
		return nil, err
	}
	return cart, nil
}
