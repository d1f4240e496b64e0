package service

import (
	"context"

	"abusebin/internal/authz"
	"abusebin/internal/models"
	"abusebin/internal/repository"
	"abusebin/internal/validation"
)

type CommentService struct {
	comments repository.CommentRepository
	pastes   repository.PasteRepository
	users    repository.UserRepository
}

func NewCommentService(
	comments repository.CommentRepository,
	pastes repository.PasteRepository,
	users repository.UserRepository,
) *CommentService {
	return &CommentService{comments: comments, pastes: pastes, users: users}
}

type CreateCommentInput struct {
	AuthorID string
	PasteID  string
	Content  string `json:"content"`
}

// Create adds a comment to a paste.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	author, err := s.users.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.pastes.GetByID(ctx, in.PasteID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PasteID:  in.PasteID,
		AuthorID: author.ID,
		Content:  in.Content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = author
	return comment, nil
}

type UpdateCommentInput struct {
	UserID    string
	CommentID uint
	Content   string `json:"content"`
}

// Update edits a comment's content. Only the comment's author may edit it.
func (s *CommentService) Update(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("only the author can edit a comment")
	}

	comment.Content = in.Content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPaste returns a paste's comments, oldest first.
func (s *CommentService) ListByPaste(ctx context.Context, pasteID string) ([]models.Comment, error) {
	if _, err := s.pastes.GetByID(ctx, pasteID); err != nil {
		return nil, err
	}
	return s.comments.ListByPaste(ctx, pasteID)
}

// Delete removes a comment. Allowed for the comment's author, super admins,
// roles that may delete any comment, and the paste owner when their role
// grants management of their own pastes.
func (s *CommentService) Delete(ctx context.Context, userID string, commentID uint) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	allowed := comment.AuthorID == user.ID ||
		user.SuperAdmin ||
		authz.Can(user.Role, authz.PermDeleteAnyComment)
	if !allowed {
		paste, perr := s.pastes.GetByID(ctx, comment.PasteID)
		if perr != nil {
			return perr
		}
		allowed = paste.AuthorID == user.ID && authz.Can(user.Role, authz.PermManageOwnPastes)
	}
	if !allowed {
		return models.NewForbiddenError("you cannot delete this comment")
	}

	return s.comments.Delete(ctx, commentID)
}
