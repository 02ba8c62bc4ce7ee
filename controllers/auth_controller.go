package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Team-Name-exists/Heritiq/middleware"
	"github.com/Team-Name-exists/Heritiq/models"
	"github.com/Team-Name-exists/Heritiq/services"
)

func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Username        string `json:"username" form:"username"`
		Email           string `json:"email" form:"email"`
		Password        string `json:"password" form:"password"`
		ConfirmPassword string `json:"confirmPassword" form:"confirm_password"`
		UserType        string `json:"userType" form:"user_type"`
		FirstName       string `json:"firstName" form:"first_name"`
		LastName        string `json:"lastName" form:"last_name"`
		Bio             string `json:"bio" form:"bio"`
		Address         string `json:"address" form:"address"`
		City            string `json:"city" form:"city"`
		Country         string `json:"country" form:"country"`
	}
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.Users.Register(ctx, services.RegisterInput(input))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful! Please log in.",
		"data":    user,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" form:"email" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
		UserType string `json:"userType" form:"user_type"`
	}
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, "Email and password are required")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.Users.Login(ctx, input.Email, input.Password, models.UserType(input.UserType))
	if err != nil {
		respondError(c, err)
		return
	}

	token, exp, err := h.Tokens.Issue(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged in successfully",
		"data": gin.H{
			"token":     token,
			"expiresAt": exp,
			"user":      user,
		},
	})
}

func (h *Handler) CheckUserType(c *gin.Context) {
	var input struct {
		Email string `json:"email" form:"email" binding:"required"`
	}
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, "Email is required")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	userType, err := h.Users.UserTypeByEmail(ctx, input.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"exists":   userType != "",
		"userType": userType,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	token, exp := middleware.CurrentToken(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Revocations.Revoke(ctx, token, exp); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}
