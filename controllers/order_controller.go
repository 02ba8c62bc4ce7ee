package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Team-Name-exists/Heritiq/middleware"
	"github.com/Team-Name-exists/Heritiq/models"
)

func (h *Handler) CreateOrder(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := h.Orders.Checkout(ctx, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"orderId":     order.ID,
		"totalAmount": order.TotalAmount,
		"redirectUrl": fmt.Sprintf("/payment/%d", order.ID),
	})
}

func (h *Handler) GetOrders(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	orders, err := h.Orders.ListForBuyer(ctx, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	orderID, valid := paramID(c, "id")
	if !valid {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := h.Orders.GetForBuyer(ctx, middleware.CurrentUserID(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, valid := paramID(c, "id")
	if !valid {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := h.Orders.Cancel(ctx, middleware.CurrentUserID(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled", "data": order})
}

// UpdateOrderStatus lets a seller move an order containing their products
// along the lifecycle.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, valid := paramID(c, "id")
	if !valid {
		return
	}

	var body struct {
		Status string `json:"status" form:"status" binding:"required"`
	}
	if err := c.ShouldBind(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := h.Orders.UpdateStatusAsSeller(ctx, middleware.CurrentUserID(c), orderID, models.OrderStatus(body.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated", "data": order})
}
