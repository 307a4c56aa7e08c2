package service

import (
	"context"
	"fmt"

	"github.com/mberezin/shop_backend/internal/logging"
	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/repo"
)

type CategoryService struct {
	Repo *repo.GormRepo
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	l := logging.FromContext(ctx).With("svc", "category.create")

	if in.Name == "" {
		return nil, fmt.Errorf("name required: %w", ErrValidation)
	}

	category := models.Category{Name: in.Name, Description: in.Description}
	if err := s.Repo.CreateCategory(ctx, &category); err != nil {
		if repo.IsDuplicate(err) {
			l.Warn("create_category_failed", "status", 400, "reason", "name taken", "name", in.Name)
			return nil, fmt.Errorf("category name already taken: %w", ErrConflict)
		}
		return nil, err
	}

	l.Info("category_created", "category_id", category.ID)
	return &category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.Repo.CategoryByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("category not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.Repo.CategoryByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("category not found: %w", ErrNotFound)
		}
		return nil, err
	}

	if in.Name != "" {
		category.Name = in.Name
	}
	if in.Description != "" {
		category.Description = in.Description
	}

	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fmt.Errorf("category name already taken: %w", ErrConflict)
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	deleted, err := s.Repo.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("category not found: %w", ErrNotFound)
	}
	return nil
}

// AddProductToCategory links both directions: the product's CategoryID
// and the category's back-reference list. Re-linking an already linked
// product is a no-op.
func (s *CategoryService) AddProductToCategory(ctx context.Context, categoryID, productID uint) (*models.Category, error) {
	l := logging.FromContext(ctx).With("svc", "category.add_product", "category_id", categoryID, "product_id", productID)

	category, err := s.Repo.CategoryByID(ctx, categoryID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("category not found: %w", ErrNotFound)
		}
		return nil, err
	}
	product, err := s.Repo.ProductByID(ctx, productID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		}
		return nil, err
	}

	linked := false
	for _, id := range category.ProductIDs {
		if id == productID {
			linked = true
			break
		}
	}
	if linked && product.CategoryID != nil && *product.CategoryID == categoryID {
		return category, nil
	}

	if !linked {
		category.ProductIDs = append(category.ProductIDs, productID)
		if err := s.Repo.SaveCategory(ctx, category); err != nil {
			return nil, err
		}
	}
	product.CategoryID = &categoryID
	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}

	l.Info("product_linked")
	return category, nil
}

func (s *CategoryService) ProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	if _, err := s.Repo.CategoryByID(ctx, categoryID); err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("category not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return s.Repo.ProductsByCategory(ctx, categoryID)
}
