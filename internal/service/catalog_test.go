package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/util"
)

func TestCatalogService_CreateProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product, err := env.Catalog.CreateProduct(ctx, ProductInput{
		Name:        "widget",
		Description: "a widget",
		Price:       9.99,
		Stock:       5,
		Images:      []string{"/img/widget.png"},
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, []string{"/img/widget.png"}, product.Images)

	_, err = env.Catalog.CreateProduct(ctx, ProductInput{Name: "widget", Description: "again", Price: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCatalogService_CreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ProductInput
	}{
		{name: "missing name", in: ProductInput{Description: "d", Price: 1}},
		{name: "missing description", in: ProductInput{Name: "n", Price: 1}},
		{name: "negative price", in: ProductInput{Name: "n", Description: "d", Price: -1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Catalog.CreateProduct(ctx, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Catalog.GetProduct(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_ListProducts_Pagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		env.createProduct(fmt.Sprintf("product-%02d", i), 10, 5)
	}

	products, meta, err := env.Catalog.ListProducts(ctx, ProductQuery{Page: util.NewPage(1, 10)})
	require.NoError(t, err)
	assert.Len(t, products, 10)
	assert.EqualValues(t, 25, meta.Total)
	assert.EqualValues(t, 3, meta.TotalPages)
	assert.Equal(t, "product-00", products[0].Name)

	products, _, err = env.Catalog.ListProducts(ctx, ProductQuery{Page: util.NewPage(3, 10)})
	require.NoError(t, err)
	assert.Len(t, products, 5)
	assert.Equal(t, "product-20", products[0].Name)

	products, _, err = env.Catalog.ListProducts(ctx, ProductQuery{Page: util.NewPage(4, 10)})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCatalogService_ListProducts_PriceFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProduct("cheap", 5, 5)
	env.createProduct("mid", 10, 5)
	env.createProduct("pricey", 20, 5)

	gte, lte := 5.0, 10.0
	products, meta, err := env.Catalog.ListProducts(ctx, ProductQuery{
		Page:     util.NewPage(1, 10),
		PriceGTE: &gte,
		PriceLTE: &lte,
	})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.EqualValues(t, 2, meta.Total)
	assert.Equal(t, "cheap", products[0].Name)
	assert.Equal(t, "mid", products[1].Name)

	gt := 5.0
	products, _, err = env.Catalog.ListProducts(ctx, ProductQuery{
		Page:    util.NewPage(1, 10),
		PriceGT: &gt,
	})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "mid", products[0].Name)

	lt := 20.0
	products, _, err = env.Catalog.ListProducts(ctx, ProductQuery{
		Page:    util.NewPage(1, 10),
		PriceLT: &lt,
	})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.NotEqual(t, "pricey", products[0].Name)
	assert.NotEqual(t, "pricey", products[1].Name)
}

func TestCatalogService_ListProducts_CategoryFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	category, err := env.Category.CreateCategory(ctx, CategoryInput{Name: "tools"})
	require.NoError(t, err)

	inCat := env.createProduct("hammer", 10, 5)
	env.createProduct("banana", 2, 5)

	_, err = env.Catalog.UpdateProduct(ctx, inCat.ID, ProductUpdate{CategoryID: &category.ID})
	require.NoError(t, err)

	products, meta, err := env.Catalog.ListProducts(ctx, ProductQuery{
		Page:       util.NewPage(1, 10),
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.EqualValues(t, 1, meta.Total)
	assert.Equal(t, "hammer", products[0].Name)
}

func TestCatalogService_ListProducts_Sort(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProduct("bravo", 20, 5)
	env.createProduct("alpha", 10, 5)
	env.createProduct("charlie", 30, 5)

	products, _, err := env.Catalog.ListProducts(ctx, ProductQuery{
		Page: util.NewPage(1, 10),
		Sort: "price",
	})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "alpha", products[0].Name)
	assert.Equal(t, "charlie", products[2].Name)

	products, _, err = env.Catalog.ListProducts(ctx, ProductQuery{
		Page: util.NewPage(1, 10),
		Sort: "-price",
	})
	require.NoError(t, err)
	assert.Equal(t, "charlie", products[0].Name)
	assert.Equal(t, "alpha", products[2].Name)

	products, _, err = env.Catalog.ListProducts(ctx, ProductQuery{
		Page: util.NewPage(1, 10),
		Sort: "stock,-name",
	})
	require.NoError(t, err)
	assert.Equal(t, "charlie", products[0].Name)
}

func TestCatalogService_ListProducts_InvalidSortField(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.Catalog.ListProducts(context.Background(), ProductQuery{
		Page: util.NewPage(1, 10),
		Sort: "price; DROP TABLE products",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_UpdateProduct_Partial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct("widget", 10, 5)

	newPrice := 12.5
	updated, err := env.Catalog.UpdateProduct(ctx, product.ID, ProductUpdate{Price: &newPrice})
	require.NoError(t, err)
	assert.EqualValues(t, 12.5, updated.Price)
	assert.Equal(t, "widget", updated.Name, "unset fields stay untouched")
	assert.EqualValues(t, 5, updated.Stock)

	negative := -1.0
	_, err = env.Catalog.UpdateProduct(ctx, product.ID, ProductUpdate{Price: &negative})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Catalog.UpdateProduct(ctx, 999, ProductUpdate{Price: &newPrice})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct("widget", 10, 5)

	require.NoError(t, env.Catalog.DeleteProduct(ctx, product.ID))

	err := env.Catalog.DeleteProduct(ctx, product.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	category, err := env.Category.CreateCategory(ctx, CategoryInput{Name: "tools", Description: "hand tools"})
	require.NoError(t, err)
	assert.NotZero(t, category.ID)

	_, err = env.Category.CreateCategory(ctx, CategoryInput{Name: "tools"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.Category.CreateCategory(ctx, CategoryInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := env.Category.UpdateCategory(ctx, category.ID, CategoryInput{Description: "all tools"})
	require.NoError(t, err)
	assert.Equal(t, "tools", updated.Name)
	assert.Equal(t, "all tools", updated.Description)

	list, err := env.Category.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, env.Category.DeleteCategory(ctx, category.ID))
	err = env.Category.DeleteCategory(ctx, category.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryService_AddProductToCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	category, err := env.Category.CreateCategory(ctx, CategoryInput{Name: "tools"})
	require.NoError(t, err)
	product := env.createProduct("hammer", 15, 3)

	linked, err := env.Category.AddProductToCategory(ctx, category.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{product.ID}, linked.ProductIDs)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, product.ID).Error)
	require.NotNil(t, stored.CategoryID)
	assert.Equal(t, category.ID, *stored.CategoryID)

	// Linking twice must not duplicate the back-reference.
	linked, err = env.Category.AddProductToCategory(ctx, category.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{product.ID}, linked.ProductIDs)

	products, err := env.Category.ProductsByCategory(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "hammer", products[0].Name)

	_, err = env.Category.AddProductToCategory(ctx, 999, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.Category.AddProductToCategory(ctx, category.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.Category.ProductsByCategory(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
