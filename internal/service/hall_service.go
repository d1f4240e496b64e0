package service

import (
	"context"
	"strings"

	"abusebin/internal/authz"
	"abusebin/internal/models"
	"abusebin/internal/repository"
	"abusebin/internal/validation"
)

// HallService manages hall-of-fame announcements.
type HallService struct {
	hall   repository.HallPostRepository
	pastes repository.PasteRepository
	users  repository.UserRepository
}

func NewHallService(
	hall repository.HallPostRepository,
	pastes repository.PasteRepository,
	users repository.UserRepository,
) *HallService {
	return &HallService{hall: hall, pastes: pastes, users: users}
}

type CreateHallPostInput struct {
	AuthorID string
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	PasteID  *string `json:"paste_id"`
}

func (s *HallService) isHallAdmin(user *models.User) bool {
	return user.SuperAdmin || user.Role == authz.RoleAdmin
}

// Create publishes a hall post. Admins only. The optional paste link must
// point at an existing paste.
func (s *HallService) Create(ctx context.Context, in CreateHallPostInput) (*models.HallPost, error) {
	author, err := s.users.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !s.isHallAdmin(author) {
		return nil, models.NewForbiddenError("only admins can publish hall posts")
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("title is required")
	}
	if err := validation.ValidatePasteContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.PasteID != nil {
		if _, err := s.pastes.GetByID(ctx, *in.PasteID); err != nil {
			return nil, err
		}
	}

	post := &models.HallPost{
		Title:    strings.TrimSpace(in.Title),
		Content:  in.Content,
		AuthorID: author.ID,
		PasteID:  in.PasteID,
	}
	if err := s.hall.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = author
	return post, nil
}

// List returns hall posts, newest first.
func (s *HallService) List(ctx context.Context, limit, offset int) ([]models.HallPost, error) {
	return s.hall.List(ctx, limit, offset)
}

// Delete removes a hall post. Admins only.
func (s *HallService) Delete(ctx context.Context, actorID string, postID uint) error {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !s.isHallAdmin(actor) {
		return models.NewForbiddenError("only admins can delete hall posts")
	}
	if _, err := s.hall.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.hall.Delete(ctx, postID)
}
