package repository

import (
	"context"
	"errors"

	"abusebin/internal/models"

	"gorm.io/gorm"
)

// HallPostRepository defines persistence operations for hall-of-fame posts.
type HallPostRepository interface {
	Create(ctx context.Context, post *models.HallPost) error
	GetByID(ctx context.Context, id uint) (*models.HallPost, error)
	List(ctx context.Context, limit, offset int) ([]models.HallPost, error)
	Delete(ctx context.Context, id uint) error
}

type hallPostRepository struct {
	db *gorm.DB
}

// NewHallPostRepository returns a new HallPostRepository implementation.
func NewHallPostRepository(db *gorm.DB) HallPostRepository {
	return &hallPostRepository{db: db}
}

func (r *hallPostRepository) Create(ctx context.Context, post *models.HallPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *hallPostRepository) GetByID(ctx context.Context, id uint) (*models.HallPost, error) {
	var post models.HallPost
	err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("hall post not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *hallPostRepository) List(ctx context.Context, limit, offset int) ([]models.HallPost, error) {
	var posts []models.HallPost
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *hallPostRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.HallPost{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
