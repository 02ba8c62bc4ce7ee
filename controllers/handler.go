package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Team-Name-exists/Heritiq/ai"
	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/realtime"
	"github.com/Team-Name-exists/Heritiq/services"
	"github.com/Team-Name-exists/Heritiq/storage"
)

const requestTimeout = 5 * time.Second

// Handler groups the HTTP handlers and the services they call.
type Handler struct {
	DB          *gorm.DB
	Users       *services.UserService
	Tokens      *services.TokenIssuer
	Revocations services.RevocationStore
	Catalog     *services.CatalogService
	Carts       *services.CartService
	Orders      *services.OrderService
	Payments    *services.PaymentService
	Messages    *services.MessageService
	Tutorials   *services.TutorialService
	Advisor     ai.PriceAdvisor
	Uploads     *storage.Disk
	Hub         *realtime.Hub
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respondError writes the error envelope. Internal causes are logged and
// never sent to the client.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("kind", apperr.KindOf(err).String()).
			Msg("request failed")
	}
	c.JSON(status, gin.H{"success": false, "error": apperr.PublicMessage(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}
