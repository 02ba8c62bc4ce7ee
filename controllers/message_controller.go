package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-Name-exists/Heritiq/middleware"
)

func (h *Handler) SendMessage(c *gin.Context) {
	var body struct {
		ReceiverID uint   `json:"receiverId" form:"receiver_id" binding:"required"`
		Message    string `json:"message" form:"message"`
		ProductID  *uint  `json:"productId" form:"product_id"`
	}
	if err := c.ShouldBind(&body); err != nil {
		badRequest(c, "Invalid message")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.Messages.Send(ctx, middleware.CurrentUserID(c), body.ReceiverID, body.Message, body.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "messageId": msg.ID})
}

func (h *Handler) GetConversations(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	conversations, err := h.Messages.ListConversations(ctx, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, conversations)
}

func (h *Handler) GetUnreadCount(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := h.Messages.UnreadCount(ctx, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": n})
}

// GetThread returns the messages with one partner and marks the partner's
// messages to the caller as read.
func (h *Handler) GetThread(c *gin.Context) {
	otherID, valid := paramID(c, "userId")
	if !valid {
		return
	}
	userID := middleware.CurrentUserID(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	other, err := h.Users.GetByID(ctx, otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	messages, err := h.Messages.Thread(ctx, userID, otherID, queryInt(c, "page", 1), queryInt(c, "perPage", 50))
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.Messages.MarkRead(ctx, otherID, userID); err != nil {
		respondError(c, err)
		return
	}

	ok(c, gin.H{
		"otherUser": gin.H{"id": other.ID, "username": other.Username, "userType": other.UserType},
		"messages":  messages,
	})
}

func (h *Handler) MarkRead(c *gin.Context) {
	var body struct {
		SenderID uint `json:"senderId" form:"sender_id" binding:"required"`
	}
	if err := c.ShouldBind(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := h.Messages.MarkRead(ctx, body.SenderID, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": n})
}

// MessagesSocket streams new-message events to the caller until the socket closes.
func (h *Handler) MessagesSocket(c *gin.Context) {
	if err := h.Hub.Serve(c.Writer, c.Request, middleware.CurrentUserID(c)); err != nil {
		zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("websocket upgrade failed")
	}
}
