package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username               string `gorm:"unique;not null"          json:"username"`
	Email                  string `gorm:"unique;not null"          json:"email"`
	PasswordHash           string `gorm:"not null"                 json:"-"`
	Role                   string `gorm:"not null;default:user"    json:"role"`
	Address                string `json:"address"`
	Mobile                 string `json:"mobile"`
	IsVerified             bool   `gorm:"not null;default:false"   json:"is_verified"`
	VerificationCode       string `gorm:"index"                    json:"-"`
	VerificationExpiresAt  int64  `json:"-"`
	ResetPasswordToken     string `gorm:"index"                    json:"-"`
	ResetPasswordExpiresAt int64  `json:"-"`
	LastLogin              int64  `json:"last_login"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string `gorm:"unique;not null"          json:"token"`
	UserID    uint   `gorm:"index;not null"           json:"user_id"`
	ExpiresAt int64  `gorm:"not null"                 json:"expires_at"`
}

type Product struct {
	ID            uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string   `gorm:"unique;not null"          json:"name"`
	Description   string   `gorm:"not null"                 json:"description"`
	Price         float64  `gorm:"not null"                 json:"price"`
	Stock         uint     `json:"stock"`
	CategoryID    *uint    `gorm:"index"                    json:"category_id"`
	Images        []string `gorm:"serializer:json"          json:"images"`
	Ratings       []int    `gorm:"serializer:json"          json:"ratings"`
	AverageRating float64  `json:"average_rating"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"unique;not null"          json:"name"`
	Description string `json:"description"`
	ProductIDs  []uint `gorm:"serializer:json"          json:"product_ids"`
}

type Cart struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint       `gorm:"uniqueIndex;not null"     json:"user_id"`
	TotalPrice float64    `json:"total_price"`
	Items      []CartItem `gorm:"foreignKey:CartID"        json:"items"`
}

type CartItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"              json:"id"`
	CartID    uint    `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uint    `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  uint    `gorm:"not null;check:quantity>0"             json:"quantity"`
	Price     float64 `gorm:"not null"                              json:"price"`
}

type Review struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"              json:"id"`
	UserID    uint   `gorm:"uniqueIndex:idx_user_product;not null" json:"user_id"`
	ProductID uint   `gorm:"uniqueIndex:idx_user_product;not null" json:"product_id"`
	Rating    int    `gorm:"not null"                              json:"rating"`
	Comment   string `gorm:"not null"                              json:"comment"`
}
