package server

import (
	"abusebin/internal/models"
	"abusebin/internal/notifications"
	"abusebin/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments lists a paste's comments, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListByPaste(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment adds a comment to a paste.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var in service.CreateCommentInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}
	in.AuthorID = currentUserID(c)
	in.PasteID = c.Params("id")

	comment, err := s.commentService.Create(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.hub.Emit(notifications.EventCommentCreated, fiber.Map{
		"id":       comment.ID,
		"paste_id": comment.PasteID,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

// UpdateComment edits a comment's content. Author only.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		return respondServiceError(c, err)
	}

	var in service.UpdateCommentInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}
	in.UserID = currentUserID(c)
	in.CommentID = commentID

	comment, err := s.commentService.Update(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"comment": comment})
}

// DeleteComment removes a comment.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.commentService.Delete(c.Context(), currentUserID(c), commentID); err != nil {
		return respondServiceError(c, err)
	}

	s.hub.Emit(notifications.EventCommentDeleted, fiber.Map{"id": commentID})
	return c.JSON(fiber.Map{"message": "comment deleted"})
}
