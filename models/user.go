package models

import (
	"time"
)

type User struct {
	ID        uint `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string  `gorm:"uniqueIndex;size:150;not null"`
	Email     *string `gorm:"uniqueIndex;size:254"`
	Password  *string `gorm:"size:255"` // bcrypt hash, nil for Google-only accounts
	GoogleID  *string `gorm:"uniqueIndex;size:64"`
	FirstName string  `gorm:"size:150"`
	LastName  string  `gorm:"size:150"`
	IsStaff   bool    `gorm:"not null;default:false"`
	IsActive  bool    `gorm:"not null;default:true"`
}

// EmailValue returns the email address or an empty string.
func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
