package server

import (
	"abusebin/internal/models"
	"abusebin/internal/notifications"
	"abusebin/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPastes returns the front page, pinned pastes first.
func (s *Server) GetPastes(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	pastes, err := s.pasteService.List(c.Context(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"pastes": pastes})
}

// GetPaste returns a single paste by slug. Views by anyone other than the
// author are counted, including anonymous ones.
func (s *Server) GetPaste(c *fiber.Ctx) error {
	paste, err := s.pasteService.Get(c.Context(), c.Params("id"), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"paste": paste})
}

// CanPost reports whether the caller may create a paste right now.
func (s *Server) CanPost(c *fiber.Ctx) error {
	status, err := s.pasteService.CanPost(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(status)
}

// CreatePaste creates a new paste for the caller.
func (s *Server) CreatePaste(c *fiber.Ctx) error {
	var in service.CreatePasteInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}
	in.AuthorID = currentUserID(c)

	paste, err := s.pasteService.Create(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.hub.Emit(notifications.EventPasteCreated, fiber.Map{
		"id":    paste.ID,
		"title": paste.Title,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"paste": paste})
}

// UpdatePaste edits a paste's title and content. The slug never changes.
func (s *Server) UpdatePaste(c *fiber.Ctx) error {
	var in service.UpdatePasteInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}
	in.UserID = currentUserID(c)
	in.PasteID = c.Params("id")

	paste, err := s.pasteService.Update(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.hub.Emit(notifications.EventPasteUpdated, fiber.Map{"id": paste.ID})
	return c.JSON(fiber.Map{"paste": paste})
}

// DeletePaste removes a paste along with its comments and reactions.
func (s *Server) DeletePaste(c *fiber.Ctx) error {
	pasteID := c.Params("id")
	if err := s.pasteService.Delete(c.Context(), currentUserID(c), pasteID); err != nil {
		return respondServiceError(c, err)
	}

	s.hub.Emit(notifications.EventPasteDeleted, fiber.Map{"id": pasteID})
	return c.JSON(fiber.Map{"message": "paste deleted"})
}

// ReactToPaste toggles a like or dislike on a paste.
func (s *Server) ReactToPaste(c *fiber.Ctx) error {
	var body struct {
		Type models.ReactionType `json:"type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	paste, err := s.pasteService.React(c.Context(), currentUserID(c), c.Params("id"), body.Type)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.hub.Emit(notifications.EventReactionUpdated, fiber.Map{
		"id":       paste.ID,
		"likes":    len(paste.Likes),
		"dislikes": len(paste.Dislikes),
	})
	return c.JSON(fiber.Map{"paste": paste})
}
