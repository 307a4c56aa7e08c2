package transport

import "github.com/mberezin/shop_backend/internal/util"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Code string `json:"code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Address  *string `json:"address"`
	Mobile   *string `json:"mobile"`
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type UpdateReviewRequest struct {
	Comment string `json:"comment"`
}

type LinkProductRequest struct {
	ProductID uint `json:"product_id"`
}

type ListResponse[T any] struct {
	Data []T           `json:"data"`
	Meta util.PageMeta `json:"meta"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
