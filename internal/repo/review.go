package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mberezin/shop_backend/internal/models"
)

// CreateReview inserts the review, appends its rating to the product's
// rating list and recomputes the average, all in one transaction.
func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, review.ProductID).Error; err != nil {
			return err
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		product.Ratings = append(product.Ratings, review.Rating)
		product.AverageRating = meanRating(product.Ratings)
		return tx.Save(&product).Error
	})
}

func (r *GormRepo) ReviewByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormRepo) ReviewByUserAndProduct(ctx context.Context, userID, productID uint) (*models.Review, error) {
	var review models.Review
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormRepo) ReviewsByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormRepo) SaveReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Save(review).Error
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Review{}, id).Error
}

func meanRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, v := range ratings {
		sum += v
	}
	return float64(sum) / float64(len(ratings))
}
