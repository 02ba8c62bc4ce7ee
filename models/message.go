package models

import "time"

// Message rows are append-only apart from IsRead.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"senderId"`
	Sender     *User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	ReceiverID uint      `gorm:"not null;index" json:"receiverId"`
	Receiver   *User     `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID  *uint     `gorm:"index" json:"productId,omitempty"`
	Product    *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"-"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

// Conversation summarises all messages exchanged with one partner.
type Conversation struct {
	OtherUserID     uint      `json:"otherUserId"`
	OtherUsername   string    `json:"otherUsername"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadCount     int64     `json:"unreadCount"`
}

type ThreadMessage struct {
	Message
	SenderName string `json:"senderName"`
}
