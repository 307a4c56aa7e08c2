package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/mberezin/shop_backend/internal/middleware/auth"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	ProductHandler  *ProductHTTP
	CategoryHandler *CategoryHTTP
	CartHandler     *CartHTTP
	ReviewHandler   *ReviewHTTP
	JWTSecret       []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	mw := &authmw.Middleware{JWTSecret: d.JWTSecret}

	users := e.Group("/users")
	users.POST("/register", d.AuthHandler.Register)
	users.POST("/verify-email", d.AuthHandler.VerifyEmail)
	users.POST("/login", d.AuthHandler.Login)
	users.POST("/refresh-token", d.AuthHandler.Refresh)
	users.POST("/logout", d.AuthHandler.LogOut)
	users.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	users.POST("/reset-password/:token", d.AuthHandler.ResetPassword)
	users.GET("/:id", d.AuthHandler.GetProfile, mw.RequireAuth)
	users.PATCH("/:id", d.AuthHandler.UpdateProfile, mw.RequireAuth)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.ListProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, mw.RequireAdmin)
	products.PATCH("/:id", d.ProductHandler.UpdateProduct, mw.RequireAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, mw.RequireAdmin)
	products.GET("/:id/reviews", d.ReviewHandler.ListReviews)
	products.POST("/:id/reviews", d.ReviewHandler.AddReview, mw.RequireAuth)

	categories := e.Group("/categories")
	categories.GET("", d.CategoryHandler.ListCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categories.GET("/:id/products", d.CategoryHandler.CategoryProducts)
	categories.POST("", d.CategoryHandler.CreateCategory, mw.RequireAdmin)
	categories.PATCH("/:id", d.CategoryHandler.UpdateCategory, mw.RequireAdmin)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory, mw.RequireAdmin)
	categories.POST("/:id/products", d.CategoryHandler.AddProduct, mw.RequireAdmin)

	cart := e.Group("/cart", mw.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.DELETE("/items/:productId", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.ClearCart)

	reviews := e.Group("/reviews", mw.RequireAuth)
	reviews.PATCH("/:id", d.ReviewHandler.UpdateReview)
	reviews.DELETE("/:id", d.ReviewHandler.DeleteReview)
}
