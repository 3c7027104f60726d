package models

import "time"

type IssueStatus string

const (
	StatusOpen       IssueStatus = "open"
	StatusInProgress IssueStatus = "in-progress"
	StatusResolved   IssueStatus = "resolved"
	StatusRejected   IssueStatus = "rejected"
)

var IssueStatuses = []IssueStatus{StatusOpen, StatusInProgress, StatusResolved, StatusRejected}

type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
)

var IssuePriorities = []IssuePriority{PriorityLow, PriorityMedium, PriorityHigh}

type Issue struct {
	ID          uint          `gorm:"primaryKey;autoIncrement"`
	Title       string        `gorm:"size:200;not null"`
	Description string        `gorm:"type:text;not null"`
	Location    string        `gorm:"size:200"`
	ImageURL    string        `gorm:"size:500"`
	Status      IssueStatus   `gorm:"size:12;not null;default:'open';index"`
	Priority    IssuePriority `gorm:"size:6;index"`
	CategoryID  *uint         `gorm:"index"`
	Category    *Category     `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	AuthorID    uint          `gorm:"not null;index"`
	Author      User          `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	IsDeleted   bool          `gorm:"not null;default:false;index"`
	CreatedAt   time.Time     `gorm:"index"`
	UpdatedAt   time.Time

	Comments []Comment `gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE"`
	Votes    []Vote    `gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE"`

	// Filled by aggregate subqueries on read, never stored.
	Upvotes   int64 `gorm:"->;-:migration"`
	Downvotes int64 `gorm:"->;-:migration"`
}
