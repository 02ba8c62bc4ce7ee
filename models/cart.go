package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is created lazily and survives checkout; only its items are cleared.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex" json:"userId"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"cartId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"productId"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartLine is a cart item priced with the product's current price.
type CartLine struct {
	CartItemID  uint            `json:"cartItemId"`
	ProductID   uint            `json:"productId"`
	Name        string          `json:"name"`
	ImagePath   string          `json:"imagePath,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"totalPrice"`
}
