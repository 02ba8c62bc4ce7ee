package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/models"
)

func registration(username, email, userType string) RegisterInput {
	return RegisterInput{
		Username:        username,
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
		UserType:        userType,
		FirstName:       "Ada",
		LastName:        "Maker",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	ctx := context.Background()

	user, err := users.Register(ctx, registration("ada", " Ada@Example.com ", "seller"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, models.UserTypeSeller, user.UserType)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = users.Register(ctx, registration("ada", "other@example.com", "buyer"))
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	_, err = users.Register(ctx, registration("someone", "ada@example.com", "buyer"))
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	logged, err := users.Login(ctx, "ADA@example.com", "secret1", models.UserTypeSeller)
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = users.Login(ctx, "ada@example.com", "wrong", "")
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	_, err = users.Login(ctx, "nobody@example.com", "secret1", "")
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	_, err = users.Login(ctx, "ada@example.com", "secret1", models.UserTypeBuyer)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))

	kind, err := users.UserTypeByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeSeller, kind)
	kind, err = users.UserTypeByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, kind)

	_, err = users.GetByID(ctx, 9999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "abc", "abc" }},
		{"mismatched confirmation", func(in *RegisterInput) { in.ConfirmPassword = "secret2" }},
		{"unknown type", func(in *RegisterInput) { in.UserType = "admin" }},
		{"missing name", func(in *RegisterInput) { in.FirstName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := registration("bob", "bob@example.com", "buyer")
			tt.mutate(&in)
			_, err := users.Register(context.Background(), in)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
		})
	}
	assert.EqualValues(t, 0, count(t, db, &models.User{}, "1 = 1"))
}

func TestTopSellers(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	quiet := createUser(t, db, models.UserTypeSeller)
	busy := createUser(t, db, models.UserTypeSeller)
	createUser(t, db, models.UserTypeBuyer)
	for i := 0; i < 3; i++ {
		createProduct(t, db, busy.ID, "1.00")
	}
	createProduct(t, db, quiet.ID, "1.00")

	sellers, err := users.TopSellers(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, sellers, 2)
	assert.Equal(t, busy.ID, sellers[0].ID)
	assert.EqualValues(t, 3, sellers[0].ProductCount)
	assert.Equal(t, quiet.ID, sellers[1].ID)
	assert.EqualValues(t, 1, sellers[1].ProductCount)
}
