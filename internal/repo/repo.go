package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned by AddItemToCart when the requested
// quantity exceeds what is left on the shelf.
var ErrInsufficientStock = errors.New("insufficient stock")

type GormRepo struct {
	DB *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if err == nil {
		return false
	}
	// Neither the postgres nor the sqlite driver maps unique violations
	// to gorm.ErrDuplicatedKey on every path, so fall back on the text.
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
