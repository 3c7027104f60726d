package models

import (
	"time"
)

type Comment struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	IssueID   uint   `gorm:"not null;index"`
	AuthorID  uint   `gorm:"not null;index"`
	Author    User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Content   string `gorm:"type:text;not null"`
	IsDeleted bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
