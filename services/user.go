package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/models"
)

type RegisterInput struct {
	Username        string `validate:"required,max=50"`
	Email           string `validate:"required,email,max=100"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	UserType        string `validate:"required,oneof=buyer seller"`
	FirstName       string `validate:"required,max=50"`
	LastName        string `validate:"required,max=50"`
	Bio             string
	Address         string
	City            string `validate:"max=50"`
	Country         string `validate:"max=50"`
}

type SellerSummary struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	ProductCount   int64  `json:"productCount"`
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	db := s.db.WithContext(ctx)
	var taken int64
	err := db.Model(&models.User{}).
		Where("username = ? OR email = ?", in.Username, in.Email).
		Count(&taken).Error
	if err != nil {
		return nil, apperr.Persistence(err, "check user")
	}
	if taken > 0 {
		return nil, apperr.Conflict("Username or email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, apperr.Persistence(err, "hash password")
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
		UserType:     models.UserType(in.UserType),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Bio:          in.Bio,
		Address:      in.Address,
		City:         in.City,
		Country:      in.Country,
	}
	if err := db.Create(&user).Error; err != nil {
		// A concurrent registration can still win the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Username or email already exists")
		}
		return nil, apperr.Persistence(err, "create user")
	}
	return &user, nil
}

// Login checks credentials. When expected is set, a valid account of the
// other type is refused with a hint to use the matching login.
func (s *UserService) Login(ctx context.Context, email, password string, expected models.UserType) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Authentication("Invalid email or password")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "load user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Authentication("Invalid email or password")
	}
	if expected != "" && user.UserType != expected {
		return nil, apperr.Authorization("This account is registered as a " + string(user.UserType) + ". Please use the " + string(user.UserType) + " login.")
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Take(&user, id).Error; err != nil {
		return nil, apperr.FromDB(err, "User not found")
	}
	return &user, nil
}

// UserTypeByEmail returns "" when no account uses email.
func (s *UserService) UserTypeByEmail(ctx context.Context, email string) (models.UserType, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("user_type").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", apperr.Persistence(err, "load user type")
	}
	return user.UserType, nil
}

// TopSellers ranks sellers by how many available products they list.
func (s *UserService) TopSellers(ctx context.Context, limit int) ([]SellerSummary, error) {
	if limit <= 0 {
		limit = 6
	}
	sellers := []SellerSummary{}
	err := s.db.WithContext(ctx).Table("users u").
		Select("u.id, u.username, u.first_name, u.last_name, u.bio, u.profile_picture, COUNT(p.id) AS product_count").
		Joins("LEFT JOIN products p ON p.seller_id = u.id AND p.is_available = ?", true).
		Where("u.user_type = ?", models.UserTypeSeller).
		Group("u.id, u.username, u.first_name, u.last_name, u.bio, u.profile_picture").
		Order("product_count DESC, u.id").
		Limit(limit).
		Scan(&sellers).Error
	if err != nil {
		return nil, apperr.Persistence(err, "top sellers")
	}
	return sellers, nil
}
