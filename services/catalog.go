package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/models"
)

var validate = validator.New()

// validationError turns the first failed rule into a client-safe message.
func validationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		switch fe.Tag() {
		case "required":
			return apperr.Validation(fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			return apperr.Validation(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "min":
			return apperr.Validation(fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "gte":
			return apperr.Validation(fmt.Sprintf("%s must not be negative", fe.Field()))
		case "email":
			return apperr.Validation("Email is not valid")
		case "oneof":
			return apperr.Validation(fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "eqfield":
			return apperr.Validation(fmt.Sprintf("%s does not match", fe.Field()))
		}
		return apperr.Validation(fmt.Sprintf("%s is invalid", fe.Field()))
	}
	return apperr.Wrap(err, apperr.KindValidation, "Invalid input")
}

type ProductInput struct {
	Name        string `validate:"required,max=255"`
	Description string
	Category    string `validate:"required,max=50"`
	Price       decimal.Decimal
	ImagePath   string `validate:"required,max=255"`
	Materials   string
	Dimensions  string `validate:"max=100"`
	Weight      decimal.NullDecimal
	Quantity    int `validate:"gte=0"`
}

// ProductUpdate lists every field a seller may change. Nil fields are left alone.
type ProductUpdate struct {
	Name        *string `validate:"omitempty,min=1,max=255"`
	Description *string
	Category    *string `validate:"omitempty,min=1,max=50"`
	Price       *decimal.Decimal
	ImagePath   *string `validate:"omitempty,max=255"`
	Materials   *string
	Dimensions  *string `validate:"omitempty,max=100"`
	Weight      *decimal.Decimal
	Quantity    *int `validate:"omitempty,gte=0"`
	IsAvailable *bool
}

func (u ProductUpdate) columns() map[string]any {
	cols := map[string]any{}
	if u.Name != nil {
		cols["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.Category != nil {
		cols["category"] = strings.TrimSpace(*u.Category)
	}
	if u.Price != nil {
		cols["price"] = *u.Price
	}
	if u.ImagePath != nil {
		cols["image_path"] = *u.ImagePath
	}
	if u.Materials != nil {
		cols["materials"] = *u.Materials
	}
	if u.Dimensions != nil {
		cols["dimensions"] = *u.Dimensions
	}
	if u.Weight != nil {
		cols["weight"] = decimal.NewNullDecimal(*u.Weight)
	}
	if u.Quantity != nil {
		cols["quantity"] = *u.Quantity
	}
	if u.IsAvailable != nil {
		cols["is_available"] = *u.IsAvailable
	}
	return cols
}

type ProductFilter struct {
	Category           string
	Search             string
	SellerID           uint
	IncludeUnavailable bool
}

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) Create(ctx context.Context, sellerID uint, in ProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	if !in.Price.IsPositive() {
		return nil, apperr.Validation("Price must be greater than zero")
	}

	product := models.Product{
		SellerID:    sellerID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		ImagePath:   in.ImagePath,
		Materials:   in.Materials,
		Dimensions:  in.Dimensions,
		Weight:      in.Weight,
		Quantity:    in.Quantity,
		IsAvailable: true,
	}
	if err := s.db.WithContext(ctx).Omit("Seller").Create(&product).Error; err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}
	return &product, nil
}

// Get returns a product with its seller's public profile, available or not.
func (s *CatalogService) Get(ctx context.Context, id uint) (*models.ProductDetail, error) {
	var detail models.ProductDetail
	err := s.db.WithContext(ctx).Table("products").
		Select("products.*, users.username AS seller_name, users.bio AS seller_bio").
		Joins("JOIN users ON users.id = products.seller_id").
		Where("products.id = ?", id).
		Take(&detail).Error
	if err != nil {
		return nil, apperr.FromDB(err, "Product not found")
	}
	return &detail, nil
}

func (s *CatalogService) Update(ctx context.Context, sellerID, id uint, upd ProductUpdate) (*models.Product, error) {
	if err := validate.Struct(upd); err != nil {
		return nil, validationError(err)
	}
	if upd.Price != nil && !upd.Price.IsPositive() {
		return nil, apperr.Validation("Price must be greater than zero")
	}

	db := s.db.WithContext(ctx)
	product, err := productOwnedBy(db, sellerID, id)
	if err != nil {
		return nil, err
	}
	cols := upd.columns()
	if len(cols) == 0 {
		return product, nil
	}
	if err := db.Model(product).Updates(cols).Error; err != nil {
		return nil, apperr.FromDB(err, "Product not found")
	}
	if err := db.Take(product, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Product not found")
	}
	return product, nil
}

// Delete hides the product from listings. Rows are never removed because
// order history references them.
func (s *CatalogService) Delete(ctx context.Context, sellerID, id uint) error {
	db := s.db.WithContext(ctx)
	product, err := productOwnedBy(db, sellerID, id)
	if err != nil {
		return err
	}
	if err := db.Model(product).Update("is_available", false).Error; err != nil {
		return apperr.Persistence(err, "delete product")
	}
	return nil
}

const maxPerPage = 100

// PageBounds clamps listing parameters the same way List does.
func PageBounds(page, perPage int) (int, int) {
	return clampPage(page, perPage, maxPerPage)
}

func clampPage(page, perPage, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 12
	}
	if perPage > max {
		perPage = max
	}
	return page, perPage
}

func (s *CatalogService) List(ctx context.Context, f ProductFilter, page, perPage int) ([]models.Product, int64, error) {
	page, perPage = PageBounds(page, perPage)

	q := s.db.WithContext(ctx).Model(&models.Product{})
	if !f.IncludeUnavailable {
		q = q.Where("is_available = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.SellerID != 0 {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Persistence(err, "count products")
	}

	products := []models.Product{}
	err := q.Order("created_at DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error
	if err != nil {
		return nil, 0, apperr.Persistence(err, "list products")
	}
	return products, total, nil
}

// Featured returns the newest available products.
func (s *CatalogService) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	products, _, err := s.List(ctx, ProductFilter{}, 1, limit)
	return products, err
}

// Related picks available products from the same category in random order.
func (s *CatalogService) Related(ctx context.Context, product *models.Product, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 4
	}
	products := []models.Product{}
	err := s.db.WithContext(ctx).
		Where("category = ? AND id <> ? AND is_available = ?", product.Category, product.ID, true).
		Order("RANDOM()").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, apperr.Persistence(err, "related products")
	}
	return products, nil
}

func (s *CatalogService) SetSuggestedPrice(ctx context.Context, sellerID, id uint, price decimal.Decimal) error {
	db := s.db.WithContext(ctx)
	product, err := productOwnedBy(db, sellerID, id)
	if err != nil {
		return err
	}
	err = db.Model(product).Update("ai_suggested_price", decimal.NewNullDecimal(price)).Error
	if err != nil {
		return apperr.Persistence(err, "store suggested price")
	}
	return nil
}

// ForSeller returns a seller's own products, including hidden ones.
func (s *CatalogService) ForSeller(ctx context.Context, sellerID uint, limit int) ([]models.Product, error) {
	products, _, err := s.List(ctx, ProductFilter{SellerID: sellerID, IncludeUnavailable: true}, 1, limit)
	return products, err
}

// AllForSeller returns every product a seller owns, oldest first.
func (s *CatalogService) AllForSeller(ctx context.Context, sellerID uint) ([]models.Product, error) {
	products := []models.Product{}
	var batch []models.Product
	err := s.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		FindInBatches(&batch, maxPerPage, func(tx *gorm.DB, _ int) error {
			products = append(products, batch...)
			return nil
		}).Error
	if err != nil {
		return nil, apperr.Persistence(err, "load seller products")
	}
	return products, nil
}

// productOwnedBy loads a product and hides other sellers' products behind NotFound.
func productOwnedBy(db *gorm.DB, sellerID, productID uint) (*models.Product, error) {
	var product models.Product
	err := db.Take(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && product.SellerID != sellerID) {
		return nil, apperr.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "load product")
	}
	return &product, nil
}
