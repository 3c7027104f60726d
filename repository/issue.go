package repository

import (
	"context"
	"fmt"

	"github.com/voice-local/api-go/models"
	"gorm.io/gorm"
)

// issueColumns selects the issue row plus its live vote aggregates.
const issueColumns = "issues.*, " +
	"(SELECT COUNT(*) FROM votes WHERE votes.issue_id = issues.id AND votes.type = ?) AS upvotes, " +
	"(SELECT COUNT(*) FROM votes WHERE votes.issue_id = issues.id AND votes.type = ?) AS downvotes"

type issueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) visible(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Issue{}).Where("issues.is_deleted = ?", false)
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Select(issueColumns, string(models.VoteUp), string(models.VoteDown)).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Where("comments.is_deleted = ?", false).Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.Author")
}

func (r *issueRepository) List(ctx context.Context, q ListQuery) (*Page[models.Issue], error) {
	var total int64
	if err := r.visible(ctx).Scopes(q.Filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count issues: %w", err)
	}
	if err := q.CheckPage(total); err != nil {
		return nil, err
	}

	var issues []models.Issue
	err := r.visible(ctx).
		Scopes(q.Filter, withDetails, q.Sort, q.Paginate).
		Find(&issues).Error
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	return &Page[models.Issue]{Items: issues, Count: total}, nil
}

func (r *issueRepository) Get(ctx context.Context, id uint) (*models.Issue, error) {
	var issue models.Issue
	err := r.visible(ctx).
		Scopes(withDetails).
		Where("issues.id = ?", id).
		Take(&issue).Error
	if err != nil {
		return nil, translate(err)
	}
	return &issue, nil
}

func (r *issueRepository) Create(ctx context.Context, issue *models.Issue) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Category", "Comments", "Votes").Create(issue).Error; err != nil {
		return fmt.Errorf("create issue: %w", translate(err))
	}
	return nil
}

func (r *issueRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		_, err := r.Get(ctx, id)
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update issue %d: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *issueRepository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Where("id = ? AND is_deleted = ?", id, false).
		UpdateColumn("is_deleted", true)
	if res.Error != nil {
		return fmt.Errorf("delete issue %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
