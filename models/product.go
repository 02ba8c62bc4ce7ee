package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	SellerID         uint                `gorm:"not null;index" json:"sellerId"`
	Seller           *User               `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE" json:"-"`
	Name             string              `gorm:"size:255;not null" json:"name"`
	Description      string              `gorm:"type:text" json:"description"`
	Category         string              `gorm:"size:50;not null;index" json:"category"`
	Price            decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	AISuggestedPrice decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"aiSuggestedPrice"`
	ImagePath        string              `gorm:"size:255;not null" json:"imagePath"`
	Materials        string              `gorm:"type:text" json:"materials,omitempty"`
	Dimensions       string              `gorm:"size:100" json:"dimensions,omitempty"`
	Weight           decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"weight"`
	Quantity         int                 `gorm:"not null;default:1" json:"quantity"`
	IsAvailable      bool                `gorm:"not null;default:true;index" json:"isAvailable"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// ProductDetail is a product joined with its seller's public profile.
type ProductDetail struct {
	Product
	SellerName string `json:"sellerName"`
	SellerBio  string `json:"sellerBio,omitempty"`
}
