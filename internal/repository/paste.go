package repository

import (
	"context"
	"errors"
	"time"

	"abusebin/internal/cache"
	"abusebin/internal/models"

	"gorm.io/gorm"
)

// PasteRepository defines persistence operations for pastes and reactions.
type PasteRepository interface {
	Create(ctx context.Context, paste *models.Paste) error
	GetByID(ctx context.Context, id string) (*models.Paste, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	TitleExists(ctx context.Context, title string) (bool, error)
	LastCreatedAt(ctx context.Context, authorID string) (*time.Time, error)
	List(ctx context.Context, limit, offset int) ([]models.Paste, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Paste, error)
	Update(ctx context.Context, paste *models.Paste) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	ResetViews(ctx context.Context, id string) error
	SetPinned(ctx context.Context, id string, pinned bool) error
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	TotalLikesByAuthor(ctx context.Context, authorID string) (int64, error)

	GetReaction(ctx context.Context, pasteID, userID string) (*models.PasteReaction, error)
	SetReaction(ctx context.Context, reaction *models.PasteReaction) error
	RemoveReaction(ctx context.Context, pasteID, userID string) error
	ReactionUserIDs(ctx context.Context, pasteID string, kind models.ReactionType) ([]string, error)
}

type pasteRepository struct {
	db *gorm.DB
}

// NewPasteRepository returns a new PasteRepository implementation.
func NewPasteRepository(db *gorm.DB) PasteRepository {
	return &pasteRepository{db: db}
}

func (r *pasteRepository) Create(ctx context.Context, paste *models.Paste) error {
	if err := r.db.WithContext(ctx).Create(paste).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("a paste with this title already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePastesList(ctx)
	return nil
}

func (r *pasteRepository) GetByID(ctx context.Context, id string) (*models.Paste, error) {
	var paste models.Paste
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&paste).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("paste not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &paste, nil
}

func (r *pasteRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Paste{}).Where("id = ?", slug).Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// TitleExists matches case-insensitively, "Foo" and "foo" collide.
func (r *pasteRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Paste{}).Where("LOWER(title) = LOWER(?)", title).Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// LastCreatedAt returns the creation time of the author's most recent paste,
// or nil if they have none.
func (r *pasteRepository) LastCreatedAt(ctx context.Context, authorID string) (*time.Time, error) {
	var paste models.Paste
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		First(&paste).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	t := paste.CreatedAt
	return &t, nil
}

// List returns pastes ordered pinned first, then newest first.
func (r *pasteRepository) List(ctx context.Context, limit, offset int) ([]models.Paste, error) {
	var pastes []models.Paste
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("pinned DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&pastes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return pastes, nil
}

func (r *pasteRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Paste, error) {
	var pastes []models.Paste
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&pastes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return pastes, nil
}

func (r *pasteRepository) Update(ctx context.Context, paste *models.Paste) error {
	if err := r.db.WithContext(ctx).Save(paste).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePaste(ctx, paste.ID)
	return nil
}

func (r *pasteRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("paste_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paste_id = ?", id).Delete(&models.PasteReaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Paste{}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePaste(ctx, id)
	return nil
}

func (r *pasteRepository) IncrementViews(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.Paste{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pasteRepository) ResetViews(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.Paste{}).
		Where("id = ?", id).
		UpdateColumn("views", 0).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePaste(ctx, id)
	return nil
}

func (r *pasteRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	err := r.db.WithContext(ctx).Model(&models.Paste{}).
		Where("id = ?", id).
		UpdateColumn("pinned", pinned).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePaste(ctx, id)
	return nil
}

func (r *pasteRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Paste{}).
		Where("author_id = ?", authorID).Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// TotalLikesByAuthor counts like reactions across all of the author's pastes.
func (r *pasteRepository) TotalLikesByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PasteReaction{}).
		Joins("JOIN pastes ON pastes.id = paste_reactions.paste_id").
		Where("pastes.author_id = ? AND paste_reactions.type = ?", authorID, models.ReactionLike).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *pasteRepository) GetReaction(ctx context.Context, pasteID, userID string) (*models.PasteReaction, error) {
	var reaction models.PasteReaction
	err := r.db.WithContext(ctx).
		Where("paste_id = ? AND user_id = ?", pasteID, userID).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &reaction, nil
}

// SetReaction inserts or replaces the user's reaction on the paste.
func (r *pasteRepository) SetReaction(ctx context.Context, reaction *models.PasteReaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("paste_id = ? AND user_id = ?", reaction.PasteID, reaction.UserID).
			Delete(&models.PasteReaction{}).Error; err != nil {
			return err
		}
		return tx.Create(reaction).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePaste(ctx, reaction.PasteID)
	return nil
}

func (r *pasteRepository) RemoveReaction(ctx context.Context, pasteID, userID string) error {
	err := r.db.WithContext(ctx).
		Where("paste_id = ? AND user_id = ?", pasteID, userID).
		Delete(&models.PasteReaction{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePaste(ctx, pasteID)
	return nil
}

func (r *pasteRepository) ReactionUserIDs(ctx context.Context, pasteID string, kind models.ReactionType) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&models.PasteReaction{}).
		Where("paste_id = ? AND type = ?", pasteID, kind).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
