package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Team-Name-exists/Heritiq/apperr"
	"github.com/Team-Name-exists/Heritiq/models"
)

// Notifier pushes an event to a user's live connections, if any.
type Notifier interface {
	Notify(userID uint, event any)
}

type MessageEvent struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message"`
}

type MessageService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewMessageService accepts a nil notifier.
func NewMessageService(db *gorm.DB, notifier Notifier) *MessageService {
	return &MessageService{db: db, notifier: notifier}
}

func (s *MessageService) Send(ctx context.Context, senderID, receiverID uint, content string, productID *uint) (*models.Message, error) {
	content = strings.TrimSpace(content)
	switch {
	case receiverID == 0:
		return nil, apperr.Validation("Receiver is required")
	case content == "":
		return nil, apperr.Validation("Message cannot be empty")
	case senderID == receiverID:
		return nil, apperr.Validation("Cannot send a message to yourself")
	}

	db := s.db.WithContext(ctx)
	if err := exists(db, &models.User{}, receiverID); err != nil {
		return nil, apperr.FromDB(err, "Recipient not found")
	}
	if productID != nil {
		if err := exists(db, &models.Product{}, *productID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("Product does not exist")
		} else if err != nil {
			return nil, apperr.Persistence(err, "check product")
		}
	}

	msg := models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		ProductID:  productID,
		Content:    content,
	}
	if err := db.Omit("Sender", "Receiver", "Product").Create(&msg).Error; err != nil {
		return nil, apperr.FromDB(err, "message not found")
	}

	if s.notifier != nil {
		s.notifier.Notify(receiverID, MessageEvent{Type: "message", Message: &msg})
	}
	return &msg, nil
}

// exists reports gorm.ErrRecordNotFound when no row of model has id.
func exists(db *gorm.DB, model any, id uint) error {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListConversations returns one entry per partner userID has exchanged
// messages with, most recent conversation first. The unread count only
// includes messages sent to userID.
func (s *MessageService) ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	conversations := []models.Conversation{}
	err := s.db.WithContext(ctx).Raw(`
		SELECT c.other_user_id,
		       u.username AS other_username,
		       lm.content AS last_message,
		       lm.created_at AS last_message_time,
		       (SELECT COUNT(*) FROM messages um
		         WHERE um.sender_id = c.other_user_id
		           AND um.receiver_id = @user
		           AND um.is_read = @unread) AS unread_count
		FROM (
			SELECT DISTINCT CASE WHEN sender_id = @user THEN receiver_id ELSE sender_id END AS other_user_id
			FROM messages
			WHERE sender_id = @user OR receiver_id = @user
		) c
		JOIN users u ON u.id = c.other_user_id
		JOIN messages lm ON lm.id = (
			SELECT m.id FROM messages m
			WHERE (m.sender_id = @user AND m.receiver_id = c.other_user_id)
			   OR (m.sender_id = c.other_user_id AND m.receiver_id = @user)
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT 1
		)
		ORDER BY lm.created_at DESC, lm.id DESC`,
		map[string]any{"user": userID, "unread": false},
	).Scan(&conversations).Error
	if err != nil {
		return nil, apperr.Persistence(err, "list conversations")
	}
	return conversations, nil
}

// Thread pages through the messages between two users, oldest first.
func (s *MessageService) Thread(ctx context.Context, userID, otherID uint, page, perPage int) ([]models.ThreadMessage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	messages := []models.ThreadMessage{}
	err := s.db.WithContext(ctx).Table("messages AS m").
		Select("m.*, u.username AS sender_name").
		Joins("JOIN users u ON u.id = m.sender_id").
		Where("(m.sender_id = ? AND m.receiver_id = ?) OR (m.sender_id = ? AND m.receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("m.created_at ASC, m.id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Scan(&messages).Error
	if err != nil {
		return nil, apperr.Persistence(err, "load thread")
	}
	return messages, nil
}

// MarkRead flags every unread message from senderID to receiverID and
// reports how many changed.
func (s *MessageService) MarkRead(ctx context.Context, senderID, receiverID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, apperr.Persistence(res.Error, "mark messages read")
	}
	return res.RowsAffected, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, apperr.Persistence(err, "count unread")
	}
	return n, nil
}
