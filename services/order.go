package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/models"
)

var (
	ErrEmptyCart         = apperr.Validation("Cart is empty")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

var validTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:   {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError reports a status change the order lifecycle does not allow.
type TransitionError struct {
	From, To models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func transitionError(from, to models.OrderStatus) error {
	return apperr.Wrap(
		&TransitionError{From: from, To: to},
		apperr.KindConflict,
		fmt.Sprintf("Cannot change order status from %s to %s", from, to),
	)
}

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Checkout turns the buyer's cart into a pending order. Item prices are
// frozen at the current product price and the cart is emptied in the same
// transaction; any failure leaves both the cart and the order table untouched.
func (s *OrderService) Checkout(ctx context.Context, buyerID uint) (*models.Order, error) {
	var order models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", buyerID).
			Take(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return apperr.Persistence(err, "lock cart")
		}

		lines, err := cartLines(tx, buyerID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		for _, line := range lines {
			if !line.IsAvailable {
				return apperr.Validation(fmt.Sprintf("Product %q is no longer available", line.Name))
			}
		}

		order = models.Order{
			BuyerID:     buyerID,
			TotalAmount: sumLines(lines),
			Status:      models.OrderStatusPending,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return apperr.Persistence(err, "create order")
		}

		for _, line := range lines {
			item := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   line.ProductID,
				ProductName: line.Name,
				Quantity:    line.Quantity,
				Price:       line.UnitPrice,
			}
			if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
				return apperr.Persistence(err, "create order item")
			}
			order.Items = append(order.Items, item)
		}

		return clearCart(tx, buyerID)
	})
	if err != nil {
		return nil, apperr.FromDB(err, "order not found")
	}
	return &order, nil
}

func (s *OrderService) loadItems(tx *gorm.DB, order *models.Order) error {
	items := []models.OrderItem{}
	err := tx.Table("order_items").
		Select("order_items.*, products.name AS product_name").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", order.ID).
		Order("order_items.id").
		Scan(&items).Error
	if err != nil {
		return apperr.Persistence(err, "load order items")
	}
	order.Items = items
	return nil
}

func (s *OrderService) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	db := s.db.WithContext(ctx)
	var order models.Order
	if err := db.Take(&order, orderID).Error; err != nil {
		return nil, apperr.FromDB(err, "Order not found")
	}
	if err := s.loadItems(db, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetForBuyer hides orders that belong to someone else behind NotFound.
func (s *OrderService) GetForBuyer(ctx context.Context, buyerID, orderID uint) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, apperr.NotFound("Order not found")
	}
	return order, nil
}

func (s *OrderService) ListForBuyer(ctx context.Context, buyerID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Persistence(err, "list orders")
	}
	return orders, nil
}

// ListForSeller returns orders that contain at least one of the seller's products.
func (s *OrderService) ListForSeller(ctx context.Context, sellerID uint, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	db := s.db.WithContext(ctx)
	sellerOrders := db.Table("order_items").
		Select("order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID)

	orders := []models.Order{}
	err := db.Where("id IN (?)", sellerOrders).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Persistence(err, "list seller orders")
	}
	return orders, nil
}

// UpdateStatus moves an order along the lifecycle. Confirmation requires a
// completed payment for the order.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation("Invalid status value")
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, orderID, &order); err != nil {
			return err
		}
		if status == models.OrderStatusConfirmed {
			var paid int64
			err := tx.Model(&models.Payment{}).
				Where("order_id = ? AND status = ?", orderID, models.PaymentStatusCompleted).
				Count(&paid).Error
			if err != nil {
				return apperr.Persistence(err, "check payment")
			}
			if paid == 0 {
				return apperr.Conflict("Order has no completed payment")
			}
		}
		return transition(tx, &order, status)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatusAsSeller applies UpdateStatus to an order that contains at
// least one of the seller's products.
func (s *OrderService) UpdateStatusAsSeller(ctx context.Context, sellerID, orderID uint, status models.OrderStatus) (*models.Order, error) {
	var owned int64
	err := s.db.WithContext(ctx).Table("order_items").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ? AND products.seller_id = ?", orderID, sellerID).
		Count(&owned).Error
	if err != nil {
		return nil, apperr.Persistence(err, "check order ownership")
	}
	if owned == 0 {
		return nil, apperr.NotFound("Order not found")
	}
	return s.UpdateStatus(ctx, orderID, status)
}

func (s *OrderService) Cancel(ctx context.Context, buyerID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, orderID, &order); err != nil {
			return err
		}
		if order.BuyerID != buyerID {
			return apperr.NotFound("Order not found")
		}
		return transition(tx, &order, models.OrderStatusCancelled)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func lockOrder(tx *gorm.DB, orderID uint, order *models.Order) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(order, orderID).Error
	return apperr.FromDB(err, "Order not found")
}

// transition writes the new status of a locked order.
func transition(tx *gorm.DB, order *models.Order, to models.OrderStatus) error {
	if !CanTransition(order.Status, to) {
		return transitionError(order.Status, to)
	}
	if err := tx.Model(order).Update("status", to).Error; err != nil {
		return apperr.Persistence(err, "update order status")
	}
	order.Status = to
	return nil
}

// SellerStats aggregates non-cancelled orders containing the seller's products.
// An order counts once however many of the seller's items it holds.
func (s *OrderService) SellerStats(ctx context.Context, sellerID uint) (models.SellerStats, error) {
	var stats models.SellerStats
	err := s.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT o.id) AS total_orders,
		       COALESCE(SUM(oi.quantity), 0) AS total_items_sold,
		       COALESCE(SUM(oi.quantity * oi.price), 0) AS total_revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN orders o ON o.id = oi.order_id
		WHERE p.seller_id = ? AND o.status <> ?`,
		sellerID, models.OrderStatusCancelled,
	).Scan(&stats).Error
	if err != nil {
		return models.SellerStats{}, apperr.Persistence(err, "seller stats")
	}
	return stats, nil
}

// BuyerSummary counts a buyer's orders per status.
func (s *OrderService) BuyerSummary(ctx context.Context, buyerID uint) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("buyer_id = ?", buyerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Persistence(err, "buyer summary")
	}
	summary := make(map[models.OrderStatus]int64, len(rows))
	for _, r := range rows {
		summary[r.Status] = r.Count
	}
	return summary, nil
}
