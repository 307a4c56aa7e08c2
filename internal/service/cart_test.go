package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mberezin/shop_backend/internal/models"
)

func cartTotal(items []models.CartItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Price
	}
	return total
}

func (env *testEnv) productStock(id uint) uint {
	env.T.Helper()
	var product models.Product
	require.NoError(env.T, env.DB.First(&product, id).Error)
	return product.Stock
}

func TestCartService_AddItem_MergeAndStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser("alice", "alice@example.com", true)
	product := env.createProduct("widget", 10, 5)

	cart, err := env.Cart.AddItem(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.EqualValues(t, 3, cart.Items[0].Quantity)
	assert.EqualValues(t, 30, cart.Items[0].Price)
	assert.EqualValues(t, 30, cart.TotalPrice)
	assert.EqualValues(t, 2, env.productStock(product.ID))

	cart, err = env.Cart.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "merge must not duplicate the line item")
	assert.EqualValues(t, 5, cart.Items[0].Quantity)
	assert.EqualValues(t, 50, cart.Items[0].Price)
	assert.EqualValues(t, 50, cart.TotalPrice)
	assert.EqualValues(t, 0, env.productStock(product.ID))

	_, err = env.Cart.AddItem(ctx, user.ID, product.ID, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.EqualValues(t, 0, env.productStock(product.ID))
}

func TestCartService_AddItem_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser("alice", "alice@example.com", true)
	product := env.createProduct("widget", 10, 5)

	_, err := env.Cart.AddItem(ctx, user.ID, 0, 1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Cart.AddItem(ctx, user.ID, product.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser("alice", "alice@example.com", true)
	_, err := env.Cart.AddItem(context.Background(), user.ID, 999, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_AddItem_InsufficientStockUpfront(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser("alice", "alice@example.com", true)
	product := env.createProduct("widget", 10, 2)

	_, err := env.Cart.AddItem(context.Background(), user.ID, product.ID, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.EqualValues(t, 2, env.productStock(product.ID), "failed add must not touch stock")
}

func TestCartService_TotalPriceInvariant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser("alice", "alice@example.com", true)
	widget := env.createProduct("widget", 9.99, 10)
	gadget := env.createProduct("gadget", 25, 10)

	cart, err := env.Cart.AddItem(ctx, user.ID, widget.ID, 2)
	require.NoError(t, err)
	assert.InDelta(t, cartTotal(cart.Items), cart.TotalPrice, 1e-9)

	cart, err = env.Cart.AddItem(ctx, user.ID, gadget.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.InDelta(t, cartTotal(cart.Items), cart.TotalPrice, 1e-9)

	cart, err = env.Cart.RemoveItem(ctx, user.ID, widget.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.InDelta(t, cartTotal(cart.Items), cart.TotalPrice, 1e-9)
}

func TestCartService_RemoveItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser("alice", "alice@example.com", true)
	product := env.createProduct("widget", 10, 5)

	_, err := env.Cart.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	cart, err := env.Cart.RemoveItem(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.EqualValues(t, 0, cart.TotalPrice)

	// Removal does not put the reserved units back on the shelf.
	assert.EqualValues(t, 3, env.productStock(product.ID))

	_, err = env.Cart.RemoveItem(ctx, user.ID, product.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_RemoveItem_NoCart(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser("alice", "alice@example.com", true)
	_, err := env.Cart.RemoveItem(context.Background(), user.ID, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_GetCart_EmptyForNewUser(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser("alice", "alice@example.com", true)
	cart, err := env.Cart.GetCart(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.EqualValues(t, 0, cart.TotalPrice)
	assert.Equal(t, user.ID, cart.UserID)
}

func TestCartService_ClearCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser("alice", "alice@example.com", true)
	widget := env.createProduct("widget", 10, 5)
	gadget := env.createProduct("gadget", 20, 5)

	_, err := env.Cart.AddItem(ctx, user.ID, widget.ID, 1)
	require.NoError(t, err)
	_, err = env.Cart.AddItem(ctx, user.ID, gadget.ID, 1)
	require.NoError(t, err)

	cart, err := env.Cart.ClearCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.EqualValues(t, 0, cart.TotalPrice)

	var count int64
	env.DB.Model(&models.CartItem{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCartService_CartsAreIsolatedPerUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser("alice", "alice@example.com", true)
	bob := env.createUser("bob", "bob@example.com", true)
	product := env.createProduct("widget", 10, 10)

	_, err := env.Cart.AddItem(ctx, alice.ID, product.ID, 2)
	require.NoError(t, err)
	_, err = env.Cart.AddItem(ctx, bob.ID, product.ID, 3)
	require.NoError(t, err)

	aliceCart, err := env.Cart.GetCart(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceCart.Items, 1)
	assert.EqualValues(t, 2, aliceCart.Items[0].Quantity)

	bobCart, err := env.Cart.GetCart(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobCart.Items, 1)
	assert.EqualValues(t, 3, bobCart.Items[0].Quantity)

	assert.EqualValues(t, 5, env.productStock(product.ID))
}

// Two first-time adds for the same user can both miss the cart lookup
// and collide on the user_id unique index. Simulate the losing side by
// sneaking the winner's cart row in just before ours is inserted.
func TestCartService_AddItem_ConcurrentFirstAddReusesCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser("alice", "alice@example.com", true)
	first := env.createProduct("widget", 10, 5)
	second := env.createProduct("gadget", 20, 5)

	fired := false
	callbacks := env.DB.Callback().Create()
	require.NoError(t, callbacks.Before("gorm:create").Register("race_cart_insert", func(db *gorm.DB) {
		if fired {
			return
		}
		if _, ok := db.Statement.Dest.(*models.Cart); !ok {
			return
		}
		fired = true
		_, err := db.Statement.ConnPool.ExecContext(db.Statement.Context,
			"INSERT INTO carts (user_id, total_price) VALUES (?, 0)", user.ID)
		require.NoError(t, err)
	}))
	t.Cleanup(func() { _ = callbacks.Remove("race_cart_insert") })

	cart, err := env.Cart.AddItem(ctx, user.ID, first.ID, 1)
	require.NoError(t, err)
	require.True(t, fired)
	require.Len(t, cart.Items, 1)

	_, err = env.Cart.AddItem(ctx, user.ID, second.ID, 1)
	require.NoError(t, err)

	var count int64
	env.DB.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	got, err := env.Cart.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.EqualValues(t, 30, got.TotalPrice)
}
