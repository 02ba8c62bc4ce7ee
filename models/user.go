package models

import "time"

type UserType string

const (
	UserTypeBuyer  UserType = "buyer"
	UserTypeSeller UserType = "seller"
)

func (t UserType) Valid() bool {
	return t == UserTypeBuyer || t == UserTypeSeller
}

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	UserType       UserType  `gorm:"type:varchar(10);not null;index" json:"userType"`
	FirstName      string    `gorm:"size:50;not null" json:"firstName"`
	LastName       string    `gorm:"size:50;not null" json:"lastName"`
	Address        string    `gorm:"type:text" json:"address,omitempty"`
	City           string    `gorm:"size:50" json:"city,omitempty"`
	Country        string    `gorm:"size:50" json:"country,omitempty"`
	ProfilePicture string    `gorm:"size:255" json:"profilePicture,omitempty"`
	Bio            string    `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
