package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"orderId"`
	Order         *Order          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"size:50;not null" json:"paymentMethod"`
	TransactionID string          `gorm:"size:255;not null;uniqueIndex" json:"transactionId"`
	GatewayRef    string          `gorm:"size:255" json:"gatewayRef,omitempty"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
