package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Team-Name-exists/Heritiq/middleware"
)

func (h *Handler) AddToCart(c *gin.Context) {
	var body struct {
		ProductID uint `json:"productId" form:"product_id" binding:"required"`
		Quantity  *int `json:"quantity" form:"quantity"`
	}
	if err := c.ShouldBind(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Carts.AddItem(ctx, middleware.CurrentUserID(c), body.ProductID, quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product added to cart"})
}

// GetCart always serves the caller's own cart. A userId query naming
// anyone else is refused.
func (h *Handler) GetCart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if q := c.Query("userId"); q != "" {
		if id, err := strconv.ParseUint(q, 10, 64); err != nil || uint(id) != userID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied"})
			return
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.Carts.ListItems(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	total, err := h.Carts.Total(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items, "total": total})
}

func (h *Handler) UpdateCart(c *gin.Context) {
	var body struct {
		CartItemID uint `json:"cartItemId" form:"cart_item_id" binding:"required"`
		Quantity   *int `json:"quantity" form:"quantity" binding:"required"`
	}
	if err := c.ShouldBind(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Carts.UpdateItem(ctx, middleware.CurrentUserID(c), body.CartItemID, *body.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated"})
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	var body struct {
		CartItemID uint `json:"cartItemId" form:"cart_item_id" binding:"required"`
	}
	if err := c.ShouldBind(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Carts.RemoveItem(ctx, middleware.CurrentUserID(c), body.CartItemID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
