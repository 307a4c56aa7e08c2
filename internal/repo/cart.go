package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mberezin/shop_backend/internal/models"
)

func (r *GormRepo) CartByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItemToCart merges the item into the user's cart and decrements the
// product's stock in a single transaction. The decrement is conditional
// on stock >= quantity, so two concurrent adds can never drive stock
// negative: the loser's UPDATE matches no row and the whole transaction
// rolls back with ErrInsufficientStock.
func (r *GormRepo) AddItemToCart(ctx context.Context, userID, productID uint, quantity uint) (*models.Cart, error) {
	var cart models.Cart

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", productID, quantity).
			Update("stock", gorm.Expr("stock - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		// Two first-time adds for the same user can race on the cart
		// row. ON CONFLICT DO NOTHING lets the loser fall through to
		// re-reading the winner's cart instead of failing the unique
		// index, without poisoning the transaction.
		cart = models.Cart{UserID: userID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&cart).Error; err != nil {
			return err
		}
		if cart.ID == 0 {
			if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
				return err
			}
		}

		var item models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		switch {
		case err == nil:
			item.Quantity += quantity
			item.Price = product.Price * float64(item.Quantity)
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		case IsNotFound(err):
			item = models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				Price:     product.Price * float64(quantity),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return recomputeCartTotal(tx, &cart)
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) RemoveItemFromCart(ctx context.Context, userID, productID uint) (*models.Cart, error) {
	var cart models.Cart

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}
		res := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return recomputeCartTotal(tx, &cart)
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return recomputeCartTotal(tx, &cart)
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// recomputeCartTotal reloads the items, sets TotalPrice to their sum and
// persists the cart, leaving cart.Items fresh for the caller.
func recomputeCartTotal(tx *gorm.DB, cart *models.Cart) error {
	var items []models.CartItem
	if err := tx.Where("cart_id = ?", cart.ID).Order("id").Find(&items).Error; err != nil {
		return err
	}
	total := 0.0
	for _, it := range items {
		total += it.Price
	}
	cart.Items = items
	cart.TotalPrice = total
	return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("total_price", total).Error
}
