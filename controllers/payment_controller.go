package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Team-Name-exists/Heritiq/middleware"
	"github.com/Team-Name-exists/Heritiq/models"
)

func (h *Handler) ProcessPayment(c *gin.Context) {
	var body struct {
		OrderID       uint            `json:"orderId" form:"order_id" binding:"required"`
		PaymentMethod string          `json:"paymentMethod" form:"payment_method" binding:"required"`
		Amount        decimal.Decimal `json:"amount" form:"amount"`
	}
	if err := c.ShouldBind(&body); err != nil {
		badRequest(c, "Invalid payment request")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	payment, err := h.Payments.Charge(ctx, middleware.CurrentUserID(c), body.OrderID, body.Amount, body.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if payment.Status == models.PaymentStatusPending {
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{
		"success":       true,
		"paymentId":     payment.ID,
		"transactionId": payment.TransactionID,
		"status":        payment.Status,
		"redirectUrl":   fmt.Sprintf("/orders/%d", body.OrderID),
	})
}

func (h *Handler) GetPayment(c *gin.Context) {
	orderID, valid := paramID(c, "id")
	if !valid {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	payment, err := h.Payments.ForOrder(ctx, middleware.CurrentUserID(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, payment)
}

// PaymentCallback is called by the gateway for charges it settled asynchronously.
func (h *Handler) PaymentCallback(c *gin.Context) {
	var body struct {
		TransactionID string `json:"transactionId" binding:"required"`
		Status        string `json:"status" binding:"required,oneof=succeeded failed"`
		GatewayRef    string `json:"gatewayRef"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid callback payload")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	payment, err := h.Payments.Resolve(ctx, body.TransactionID, body.Status == "succeeded", body.GatewayRef)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, payment)
}
