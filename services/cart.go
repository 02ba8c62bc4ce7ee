package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/models"
)

// CartService keeps one cart per buyer. Concurrent writers are made safe by
// the store: the cart owner and the (cart, product) pair are unique and
// quantities are incremented in a single upsert statement.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

func (s *CartService) GetOrCreateCart(ctx context.Context, userID uint) (uint, error) {
	return getOrCreateCart(s.db.WithContext(ctx), userID)
}

func getOrCreateCart(tx *gorm.DB, userID uint) (uint, error) {
	cart := models.Cart{UserID: userID}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error
	if err != nil {
		return 0, apperr.FromDB(err, "user not found")
	}

	// The insert is a no-op when another request created the cart first,
	// so always read the surviving row back.
	var existing models.Cart
	if err := tx.Select("id").Where("user_id = ?", userID).Take(&existing).Error; err != nil {
		return 0, apperr.FromDB(err, "cart not found")
	}
	return existing.ID, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity < 1 {
		return apperr.Validation("Quantity must be at least 1")
	}
	if productID == 0 {
		return apperr.Validation("Product ID is required")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Select("id", "is_available").Where("id = ?", productID).Take(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validation("Product does not exist")
		}
		if err != nil {
			return apperr.FromDB(err, "product not found")
		}
		if !product.IsAvailable {
			return apperr.Validation("Product is no longer available")
		}

		cartID, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
			}),
		}).Create(&item).Error
		return apperr.FromDB(err, "cart item not found")
	})
}

// ownedItems restricts a cart_items query to rows in userID's cart.
func ownedItems(tx *gorm.DB, userID, cartItemID uint) *gorm.DB {
	carts := tx.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)
	return tx.Where("id = ? AND cart_id IN (?)", cartItemID, carts)
}

// UpdateItem sets a line's quantity. A quantity of zero or less removes the line.
func (s *CartService) UpdateItem(ctx context.Context, userID, cartItemID uint, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, cartItemID)
	}

	db := s.db.WithContext(ctx)
	res := ownedItems(db, userID, cartItemID).Model(&models.CartItem{}).Update("quantity", quantity)
	if res.Error != nil {
		return apperr.FromDB(res.Error, "cart item not found")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Cart item not found")
	}
	return nil
}

// RemoveItem deletes a line. Removing a line that is already gone is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, cartItemID uint) error {
	db := s.db.WithContext(ctx)
	err := ownedItems(db, userID, cartItemID).Delete(&models.CartItem{}).Error
	return apperr.FromDB(err, "cart item not found")
}

// ListItems prices every line with the product's current price.
func (s *CartService) ListItems(ctx context.Context, userID uint) ([]models.CartLine, error) {
	return cartLines(s.db.WithContext(ctx), userID)
}

func cartLines(tx *gorm.DB, userID uint) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := tx.Table("cart_items AS ci").
		Select("ci.id AS cart_item_id, p.id AS product_id, p.name, p.image_path, p.is_available, ci.quantity, p.price AS unit_price").
		Joins("JOIN carts c ON c.id = ci.cart_id").
		Joins("JOIN products p ON p.id = ci.product_id").
		Where("c.user_id = ?", userID).
		Order("ci.id").
		Scan(&lines).Error
	if err != nil {
		return nil, apperr.Persistence(err, "load cart")
	}
	for i := range lines {
		lines[i].LineTotal = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
	}
	return lines, nil
}

// Clear empties the user's cart. The cart row itself is kept.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return clearCart(s.db.WithContext(ctx), userID)
}

func clearCart(tx *gorm.DB, userID uint) error {
	carts := tx.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)
	if err := tx.Where("cart_id IN (?)", carts).Delete(&models.CartItem{}).Error; err != nil {
		return apperr.Persistence(err, "clear cart")
	}
	return nil
}

// Total is zero for an empty or missing cart.
func (s *CartService) Total(ctx context.Context, userID uint) (decimal.Decimal, error) {
	lines, err := s.ListItems(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return sumLines(lines), nil
}

func sumLines(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return total
}
