package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mberezin/shop_backend/internal/models"
)

func (r *GormRepo) SaveRefreshToken(ctx context.Context, token string, userID uint, expiresAt time.Time) error {
	row := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt.Unix(),
	}
	return r.DB.WithContext(ctx).Create(&row).Error
}

// ConsumeRefreshToken deletes the row and returns it. The delete is the
// claim: when two refreshes race on the same token, only the one whose
// DELETE reports an affected row wins.
func (r *GormRepo) ConsumeRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", token).First(&row).Error; err != nil {
			return err
		}
		res := tx.Where("token = ?", token).Delete(&models.RefreshToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}

func (r *GormRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) error {
	return r.DB.WithContext(ctx).Where("expires_at < ?", now.Unix()).Delete(&models.RefreshToken{}).Error
}
