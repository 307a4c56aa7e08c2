package service

import "errors"

// Sentinel errors shared by every service in the package. The HTTP
// layer maps them to status codes with errors.Is; services wrap them
// with fmt.Errorf("%w: ...") to add detail.
var (
	ErrValidation         = errors.New("validation")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverified         = errors.New("email not verified")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrSamePassword       = errors.New("new password matches the old one")
	ErrDuplicateReview    = errors.New("product already reviewed")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("forbidden")
)
