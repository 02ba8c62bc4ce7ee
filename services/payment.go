package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/gateway"
	"github.com/Team-Name-exists/Heritiq/models"
)

// PaymentService records payment attempts and drives the order into
// confirmed once the gateway reports success.
//
// A payment is always written as pending before the gateway is called, so a
// crash mid-charge leaves a row that the provider callback can resolve.
type PaymentService struct {
	db      *gorm.DB
	gateway gateway.Gateway
}

func NewPaymentService(db *gorm.DB, gw gateway.Gateway) *PaymentService {
	return &PaymentService{db: db, gateway: gw}
}

func newTransactionID() string {
	return "txn_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// Charge pays for one of buyerID's pending orders. The amount must match the
// order total exactly.
func (s *PaymentService) Charge(ctx context.Context, buyerID, orderID uint, amount decimal.Decimal, method string) (*models.Payment, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, apperr.Validation("Payment method is required")
	}
	if !amount.IsPositive() {
		return nil, apperr.Validation("Amount must be greater than zero")
	}

	payment := models.Payment{
		OrderID:       orderID,
		Amount:        amount,
		PaymentMethod: method,
		TransactionID: newTransactionID(),
		Status:        models.PaymentStatusPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockOrder(tx, orderID, &order); err != nil {
			return err
		}
		if order.BuyerID != buyerID {
			return apperr.NotFound("Order not found")
		}
		if order.Status != models.OrderStatusPending {
			return apperr.Conflict("Order is not awaiting payment")
		}
		if !order.TotalAmount.Equal(amount) {
			return apperr.Validation("Amount does not match order total")
		}

		var open int64
		err := tx.Model(&models.Payment{}).
			Where("order_id = ? AND status IN ?", orderID,
				[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusCompleted}).
			Count(&open).Error
		if err != nil {
			return apperr.Persistence(err, "check payments")
		}
		if open > 0 {
			return apperr.Conflict("Order already has a payment in progress")
		}

		if err := tx.Omit("Order").Create(&payment).Error; err != nil {
			return apperr.FromDB(err, "payment not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.Charge(ctx, gateway.ChargeRequest{
		Amount:    amount,
		Method:    method,
		Reference: payment.TransactionID,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("transaction_id", payment.TransactionID).Msg("gateway charge failed")
		if _, ferr := s.Resolve(context.WithoutCancel(ctx), payment.TransactionID, false, ""); ferr != nil {
			return nil, ferr
		}
		return nil, apperr.Wrap(err, apperr.KindExternalService, "Payment gateway unavailable")
	}

	switch result.Status {
	case gateway.StatusSucceeded:
		return s.Resolve(ctx, payment.TransactionID, true, result.TransactionID)
	case gateway.StatusDeclined:
		if _, err := s.Resolve(ctx, payment.TransactionID, false, result.TransactionID); err != nil {
			return nil, err
		}
		return nil, apperr.ExternalService("Payment was declined")
	default:
		if result.TransactionID != "" {
			payment.GatewayRef = result.TransactionID
			err := s.db.WithContext(ctx).Model(&payment).Update("gateway_ref", result.TransactionID).Error
			if err != nil {
				return nil, apperr.Persistence(err, "store gateway reference")
			}
		}
		return &payment, nil
	}
}

// Resolve settles a pending payment. On success the payment is completed and
// its order confirmed in one transaction. Settling an already settled payment
// is a conflict.
func (s *PaymentService) Resolve(ctx context.Context, transactionID string, succeeded bool, gatewayRef string) (*models.Payment, error) {
	var payment models.Payment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("transaction_id = ?", transactionID).Take(&payment).Error
		if err != nil {
			return apperr.FromDB(err, "Payment not found")
		}

		next := models.PaymentStatusFailed
		if succeeded {
			next = models.PaymentStatusCompleted
		}
		updates := map[string]any{"status": next}
		if gatewayRef != "" {
			updates["gateway_ref"] = gatewayRef
		}

		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentStatusPending).
			Updates(updates)
		if res.Error != nil {
			return apperr.Persistence(res.Error, "update payment")
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("Payment is already settled")
		}
		payment.Status = next
		if gatewayRef != "" {
			payment.GatewayRef = gatewayRef
		}

		if !succeeded {
			return nil
		}
		var order models.Order
		if err := lockOrder(tx, payment.OrderID, &order); err != nil {
			return err
		}
		return transition(tx, &order, models.OrderStatusConfirmed)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ForOrder returns the most recent payment attempt for one of buyerID's orders.
func (s *PaymentService) ForOrder(ctx context.Context, buyerID, orderID uint) (*models.Payment, error) {
	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.Select("id", "buyer_id").Take(&order, orderID).Error; err != nil {
		return nil, apperr.FromDB(err, "Order not found")
	}
	if order.BuyerID != buyerID {
		return nil, apperr.NotFound("Order not found")
	}

	var payment models.Payment
	err := db.Where("order_id = ?", orderID).Order("created_at DESC, id DESC").Take(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("No payment for this order")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "load payment")
	}
	return &payment, nil
}
