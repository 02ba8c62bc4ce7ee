package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/models"
	"github.com/Team-Name-exists/Heritiq/services"
)

const (
	ctxUserID = "userId"
	ctxRole   = "role"
	ctxToken  = "token"
	ctxExpiry = "tokenExpiry"
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

// BearerToken reads the Authorization header. Browsers cannot set headers on
// websocket handshakes, so GET requests may pass ?token= instead.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if c.Request.Method == http.MethodGet {
		return c.Query("token")
	}
	return ""
}

// Auth validates the session token and stores the caller's id and role.
func Auth(tokens *services.TokenIssuer, revoked services.RevocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			abort(c, http.StatusUnauthorized, "Token required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		isRevoked, err := revoked.IsRevoked(ctx, tokenString)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("revocation lookup failed")
			abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if isRevoked {
			abort(c, http.StatusUnauthorized, "Token has been revoked")
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, apperr.PublicMessage(err))
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxToken, tokenString)
		c.Set(ctxExpiry, claims.ExpiresAt)
		c.Next()
	}
}

// RequireUserType must run after Auth.
func RequireUserType(types ...models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentUserType(c)
		for _, t := range types {
			if role == t {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Access denied")
	}
}

// APIKey guards server-to-server endpoints such as gateway callbacks.
func APIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-API-KEY")
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			abort(c, http.StatusUnauthorized, "Invalid API key")
			return
		}
		c.Next()
	}
}

func CurrentUserID(c *gin.Context) uint {
	id, _ := c.Get(ctxUserID)
	v, _ := id.(uint)
	return v
}

func CurrentUserType(c *gin.Context) models.UserType {
	role, _ := c.Get(ctxRole)
	v, _ := role.(models.UserType)
	return v
}

// CurrentToken returns the raw token and its expiry as accepted by Auth.
func CurrentToken(c *gin.Context) (string, time.Time) {
	token := c.GetString(ctxToken)
	exp, _ := c.Get(ctxExpiry)
	t, _ := exp.(time.Time)
	return token, t
}
