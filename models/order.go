package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is immutable after checkout except for Status.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	BuyerID     uint            `gorm:"not null;index" json:"buyerId"`
	Buyer       *User           `gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE" json:"-"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OrderItem.Price is the unit price frozen at checkout.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"orderId"`
	ProductID   uint            `gorm:"not null;index" json:"productId"`
	Product     *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	ProductName string          `gorm:"->;-:migration" json:"productName,omitempty"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

type SellerStats struct {
	TotalOrders    int64           `json:"totalOrders"`
	TotalItemsSold int64           `json:"totalItemsSold"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
}
