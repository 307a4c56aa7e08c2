package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mberezin/shop_backend/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

func (r *GormRepo) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductFilter narrows and orders the product listing. Order must be
// a validated expression; the service layer whitelists the columns.
type ProductFilter struct {
	PriceGTE   *float64
	PriceGT    *float64
	PriceLTE   *float64
	PriceLT    *float64
	CategoryID *uint
	Order      string
}

func (f ProductFilter) apply(q *gorm.DB) *gorm.DB {
	if f.PriceGTE != nil {
		q = q.Where("price >= ?", *f.PriceGTE)
	}
	if f.PriceGT != nil {
		q = q.Where("price > ?", *f.PriceGT)
	}
	if f.PriceLTE != nil {
		q = q.Where("price <= ?", *f.PriceLTE)
	}
	if f.PriceLT != nil {
		q = q.Where("price < ?", *f.PriceLT)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	return q
}

func (r *GormRepo) ListProducts(ctx context.Context, filter ProductFilter, offset, limit int) ([]models.Product, int64, error) {
	var (
		products []models.Product
		total    int64
	)
	q := filter.apply(r.DB.WithContext(ctx).Model(&models.Product{}))
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := filter.Order
	if order == "" {
		order = "id"
	}
	err := q.Order(order).
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormRepo) ProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.DB.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Save(product).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Create(category).Error
}

func (r *GormRepo) CategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.DB.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepo) SaveCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Save(category).Error
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	return res.RowsAffected > 0, res.Error
}
