package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/Team-Name-exists/Heritiq/middleware"
	"github.com/Team-Name-exists/Heritiq/models"
)

func (h *Handler) BuyerDashboard(c *gin.Context) {
	buyerID := middleware.CurrentUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	orders, err := h.Orders.ListForBuyer(ctx, buyerID)
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := h.Orders.BuyerSummary(ctx, buyerID)
	if err != nil {
		respondError(c, err)
		return
	}
	unread, err := h.Messages.UnreadCount(ctx, buyerID)
	if err != nil {
		respondError(c, err)
		return
	}
	conversations, err := h.Messages.ListConversations(ctx, buyerID)
	if err != nil {
		respondError(c, err)
		return
	}
	recommended, err := h.Catalog.Featured(ctx, 4)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, gin.H{
		"orders":         orders,
		"ordersByStatus": summary,
		"unreadMessages": unread,
		"conversations":  conversations,
		"recommended":    recommended,
	})
}

func (h *Handler) SellerDashboard(c *gin.Context) {
	sellerID := middleware.CurrentUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	products, err := h.Catalog.ForSeller(ctx, sellerID, 50)
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.Orders.SellerStats(ctx, sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	recent, err := h.Orders.ListForSeller(ctx, sellerID, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	unread, err := h.Messages.UnreadCount(ctx, sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, gin.H{
		"products":       products,
		"stats":          stats,
		"recentOrders":   recent,
		"unreadMessages": unread,
	})
}

// ExportProducts downloads the seller's products as an xlsx workbook.
func (h *Handler) ExportProducts(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	products, err := h.Catalog.AllForSeller(ctx, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := productWorkbook(products)
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		respondError(c, fmt.Errorf("write workbook: %w", err))
		return
	}

	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func productWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range []string{"ID", "Name", "Category", "Price", "Suggested Price", "Quantity", "Available", "Materials", "Dimensions", "Created"} {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		if p.AISuggestedPrice.Valid {
			row.AddCell().SetValue(p.AISuggestedPrice.Decimal.StringFixed(2))
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(p.Quantity)
		row.AddCell().SetValue(p.IsAvailable)
		row.AddCell().SetValue(p.Materials)
		row.AddCell().SetValue(p.Dimensions)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}
