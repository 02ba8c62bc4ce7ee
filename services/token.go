package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/models"
)

type Claims struct {
	UserID    uint
	Role      models.UserType
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) Issue(user *models.User) (string, time.Time, error) {
	exp := i.now().Add(i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": user.ID,
		"role":   string(user.UserType),
		"exp":    exp.Unix(),
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, apperr.Wrap(err, apperr.KindAuthentication, "Token expired")
		}
		return nil, apperr.Wrap(err, apperr.KindAuthentication, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperr.Authentication("Invalid token")
	}
	id, ok := claims["userId"].(float64)
	if !ok || id <= 0 {
		return nil, apperr.Authentication("Invalid token")
	}
	role, _ := claims["role"].(string)
	exp, _ := claims["exp"].(float64)

	return &Claims{
		UserID:    uint(id),
		Role:      models.UserType(role),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
