package repository

import (
	"context"
	"fmt"

	"github.com/voice-local/api-go/models"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context, q ListQuery) (*Page[models.Category], error) {
	filtered := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Category{}).Scopes(q.Filter)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	if err := q.CheckPage(total); err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := filtered().Scopes(q.Sort, q.Paginate).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return &Page[models.Category]{Items: categories, Count: total}, nil
}

func (r *categoryRepository) Get(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Take(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", translate(err))
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		_, err := r.Get(ctx, id)
		return err
	}
	res := r.db.WithContext(ctx).Model(&models.Category{ID: id}).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update category %d: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Issue{}).
			Where("category_id = ?", id).
			UpdateColumn("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach issues from category %d: %w", id, err)
		}

		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete category %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
