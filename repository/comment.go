package repository

import (
	"context"
	"fmt"

	"github.com/voice-local/api-go/models"
	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// onLiveIssue hides comments whose issue has been soft-deleted.
const onLiveIssue = "EXISTS (SELECT 1 FROM issues WHERE issues.id = comments.issue_id AND issues.is_deleted = ?)"

func (r *commentRepository) visible(ctx context.Context, issueID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("comments.issue_id = ? AND comments.is_deleted = ?", issueID, false).
		Where(onLiveIssue, false)
}

func (r *commentRepository) List(ctx context.Context, issueID uint, q ListQuery) (*Page[models.Comment], error) {
	var total int64
	if err := r.visible(ctx, issueID).Scopes(q.Filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	if err := q.CheckPage(total); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := r.visible(ctx, issueID).
		Scopes(q.Filter, q.Sort, q.Paginate).
		Preload("Author").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &Page[models.Comment]{Items: comments, Count: total}, nil
}

func (r *commentRepository) Get(ctx context.Context, issueID, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.visible(ctx, issueID).
		Preload("Author").
		Where("comments.id = ?", id).
		Take(&comment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issue models.Issue
		err := tx.Select("id").
			Where("id = ? AND is_deleted = ?", comment.IssueID, false).
			Take(&issue).Error
		if err != nil {
			return translate(err)
		}

		if err := tx.Omit("Author").Create(comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", translate(err))
		}
		return nil
	})
}

func (r *commentRepository) Update(ctx context.Context, issueID, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		_, err := r.Get(ctx, issueID, id)
		return err
	}
	res := r.visible(ctx, issueID).
		Where("comments.id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update comment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, issueID, id uint) error {
	res := r.visible(ctx, issueID).
		Where("comments.id = ?", id).
		UpdateColumn("is_deleted", true)
	if res.Error != nil {
		return fmt.Errorf("delete comment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
