package models

import (
	"time"
)

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (t VoteType) Valid() bool {
	return t == VoteUp || t == VoteDown
}

// Vote is unique per (issue, user); the index is what serializes toggles.
type Vote struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	IssueID   uint      `gorm:"not null;uniqueIndex:idx_votes_issue_user"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_votes_issue_user;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Type      VoteType  `gorm:"size:4;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
