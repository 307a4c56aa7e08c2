package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mberezin/shop_backend/internal/logging"
	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/repo"
	"github.com/mberezin/shop_backend/internal/util"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       uint     `json:"stock"`
	CategoryID  *uint    `json:"category_id"`
	Images      []string `json:"images"`
}

type ProductUpdate struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Stock       *uint     `json:"stock"`
	CategoryID  *uint     `json:"category_id"`
	Images      *[]string `json:"images"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	if in.Name == "" || in.Description == "" {
		return nil, fmt.Errorf("name and description required: %w", ErrValidation)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		Images:      in.Images,
	}
	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		if repo.IsDuplicate(err) {
			l.Warn("create_product_failed", "status", 400, "reason", "name taken", "name", in.Name)
			return nil, fmt.Errorf("product name already taken: %w", ErrConflict)
		}
		return nil, err
	}

	l.Info("product_created", "product_id", product.ID, "name", product.Name)
	return &product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

// ProductQuery is the browse surface of the listing: price bounds with
// gte/gt/lte/lt semantics, a category filter and a comma-separated sort
// list where a leading "-" means descending.
type ProductQuery struct {
	Page       util.Page
	PriceGTE   *float64
	PriceGT    *float64
	PriceLTE   *float64
	PriceLT    *float64
	CategoryID *uint
	Sort       string
}

var productSortColumns = map[string]string{
	"id":             "id",
	"name":           "name",
	"price":          "price",
	"stock":          "stock",
	"average_rating": "average_rating",
}

func buildProductOrder(sort string) (string, error) {
	if sort == "" {
		return "", nil
	}
	var parts []string
	for _, field := range strings.Split(sort, ",") {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		col, ok := productSortColumns[field]
		if !ok {
			return "", fmt.Errorf("unknown sort field %q: %w", field, ErrValidation)
		}
		if desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	return strings.Join(parts, ", "), nil
}

func (s *CatalogService) ListProducts(ctx context.Context, query ProductQuery) ([]models.Product, *util.PageMeta, error) {
	order, err := buildProductOrder(query.Sort)
	if err != nil {
		return nil, nil, err
	}

	filter := repo.ProductFilter{
		PriceGTE:   query.PriceGTE,
		PriceGT:    query.PriceGT,
		PriceLTE:   query.PriceLTE,
		PriceLT:    query.PriceLT,
		CategoryID: query.CategoryID,
		Order:      order,
	}
	products, total, err := s.Repo.ListProducts(ctx, filter, query.Page.Offset(), query.Page.Size)
	if err != nil {
		return nil, nil, err
	}
	meta := query.Page.Meta(total)
	return products, &meta, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, upd ProductUpdate) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update_product", "product_id", id)

	product, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		}
		return nil, err
	}

	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, fmt.Errorf("name must not be empty: %w", ErrValidation)
		}
		product.Name = *upd.Name
	}
	if upd.Description != nil {
		product.Description = *upd.Description
	}
	if upd.Price != nil {
		if *upd.Price < 0 {
			return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
		}
		product.Price = *upd.Price
	}
	if upd.Stock != nil {
		product.Stock = *upd.Stock
	}
	if upd.CategoryID != nil {
		product.CategoryID = upd.CategoryID
	}
	if upd.Images != nil {
		product.Images = *upd.Images
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fmt.Errorf("product name already taken: %w", ErrConflict)
		}
		return nil, err
	}

	l.Info("product_updated")
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_product", "product_id", id)

	deleted, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		l.Warn("delete_product_failed", "status", 404)
		return fmt.Errorf("product not found: %w", ErrNotFound)
	}

	l.Info("product_deleted")
	return nil
}
