package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/middleware"
	"github.com/Team-Name-exists/Heritiq/services"
	"github.com/Team-Name-exists/Heritiq/storage"
)

func (h *Handler) ListProducts(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page, perPage := services.PageBounds(queryInt(c, "page", 1), queryInt(c, "perPage", 12))
	products, total, err := h.Catalog.List(ctx, services.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"total":   total,
		"page":    page,
		"perPage": perPage,
	})
}

func (h *Handler) FeaturedProducts(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	products, err := h.Catalog.Featured(ctx, queryInt(c, "limit", 8))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	detail, err := h.Catalog.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	related, err := h.Catalog.Related(ctx, &detail.Product, 4)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"product": detail, "related": related})
}

func (h *Handler) TopSellers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	sellers, err := h.Users.TopSellers(ctx, queryInt(c, "limit", 6))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, sellers)
}

// CreateProduct accepts a multipart form with the product image.
func (h *Handler) CreateProduct(c *gin.Context) {
	var form struct {
		Name        string `form:"name" binding:"required"`
		Description string `form:"description"`
		Category    string `form:"category" binding:"required"`
		Price       string `form:"price" binding:"required"`
		Materials   string `form:"materials"`
		Dimensions  string `form:"dimensions"`
		Weight      string `form:"weight"`
		Quantity    int    `form:"quantity"`
	}
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Please fill in all required fields")
		return
	}
	price, err := decimal.NewFromString(strings.TrimSpace(form.Price))
	if err != nil {
		badRequest(c, "Invalid price")
		return
	}
	var weight decimal.NullDecimal
	if w := strings.TrimSpace(form.Weight); w != "" {
		if weight.Decimal, err = decimal.NewFromString(w); err != nil {
			badRequest(c, "Invalid weight")
			return
		}
		weight.Valid = true
	}

	image, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "Product image is required")
		return
	}
	imagePath, err := h.Uploads.Save(image, storage.KindImage)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := h.Catalog.Create(ctx, middleware.CurrentUserID(c), services.ProductInput{
		Name:        form.Name,
		Description: form.Description,
		Category:    form.Category,
		Price:       price,
		ImagePath:   imagePath,
		Materials:   form.Materials,
		Dimensions:  form.Dimensions,
		Weight:      weight,
		Quantity:    form.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product added successfully", "data": product})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	var body struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		Category    *string          `json:"category"`
		Price       *decimal.Decimal `json:"price"`
		Materials   *string          `json:"materials"`
		Dimensions  *string          `json:"dimensions"`
		Weight      *decimal.Decimal `json:"weight"`
		Quantity    *int             `json:"quantity"`
		IsAvailable *bool            `json:"isAvailable"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := h.Catalog.Update(ctx, middleware.CurrentUserID(c), id, services.ProductUpdate{
		Name:        body.Name,
		Description: body.Description,
		Category:    body.Category,
		Price:       body.Price,
		Materials:   body.Materials,
		Dimensions:  body.Dimensions,
		Weight:      body.Weight,
		Quantity:    body.Quantity,
		IsAvailable: body.IsAvailable,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated", "data": product})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Catalog.Delete(ctx, middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

func (h *Handler) SuggestPrice(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	sellerID := middleware.CurrentUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	detail, err := h.Catalog.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if detail.SellerID != sellerID {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
		return
	}

	suggestion, err := h.Advisor.Suggest(ctx, &detail.Product)
	if err != nil {
		respondError(c, apperr.Wrap(err, apperr.KindExternalService, "Price suggestion failed"))
		return
	}
	if err := h.Catalog.SetSuggestedPrice(ctx, sellerID, id, suggestion.SuggestedPrice); err != nil {
		respondError(c, err)
		return
	}
	ok(c, suggestion)
}
