package repository

import (
	"context"

	"github.com/voice-local/api-go/models"
)

// Page is one page of a list query together with the total match count.
type Page[T any] struct {
	Items []T
	Count int64
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	List(ctx context.Context, q ListQuery) (*Page[models.Category], error)
	Get(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	// Delete removes the category and clears it from every issue referencing it.
	Delete(ctx context.Context, id uint) error
}

// IssueRepository reads and writes issues. Soft-deleted issues are invisible
// to every method.
type IssueRepository interface {
	List(ctx context.Context, q ListQuery) (*Page[models.Issue], error)
	Get(ctx context.Context, id uint) (*models.Issue, error)
	Create(ctx context.Context, issue *models.Issue) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id uint) error
}

// CommentRepository scopes every operation to a parent issue.
type CommentRepository interface {
	List(ctx context.Context, issueID uint, q ListQuery) (*Page[models.Comment], error)
	Get(ctx context.Context, issueID, id uint) (*models.Comment, error)
	// Create fails with ErrNotFound when the parent issue is missing or deleted.
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, issueID, id uint, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, issueID, id uint) error
}

type VoteCounts struct {
	Upvotes   int64
	Downvotes int64
}

// VoteOutcome describes what a toggle did to the caller's vote row.
type VoteOutcome string

const (
	VoteCreated   VoteOutcome = "created"
	VoteSwitched  VoteOutcome = "switched"
	VoteRetracted VoteOutcome = "retracted"
)

type VoteResult struct {
	VoteCounts
	Outcome VoteOutcome
	// UserVote is the caller's vote after the toggle, nil when retracted.
	UserVote *models.VoteType
}

type VoteRepository interface {
	Toggle(ctx context.Context, issueID, userID uint, voteType models.VoteType) (*VoteResult, error)
	Counts(ctx context.Context, issueID uint) (*VoteCounts, error)
}
