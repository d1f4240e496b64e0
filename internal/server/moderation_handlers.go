package server

import (
	"abusebin/internal/authz"
	"abusebin/internal/models"
	"abusebin/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// BanUser bans the target user. Banning an Admin or an already banned user
// leaves state unchanged.
func (s *Server) BanUser(c *fiber.Ctx) error {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	user, err := s.moderationService.Ban(c.Context(), currentUserID(c), c.Params("id"), body.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}

	if user.Banned {
		s.hub.Emit(notifications.EventUserBanned, fiber.Map{"id": user.ID})
	}
	return c.JSON(fiber.Map{"user": user})
}

// UnbanUser lifts a ban.
func (s *Server) UnbanUser(c *fiber.Ctx) error {
	user, err := s.moderationService.Unban(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// AssignRole changes the target user's role.
func (s *Server) AssignRole(c *fiber.Ctx) error {
	var body struct {
		Role authz.Role `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	user, err := s.moderationService.AssignRole(c.Context(), currentUserID(c), c.Params("id"), body.Role)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// DeleteUser removes an account and cascades to everything it owns.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	if err := s.moderationService.DeleteUser(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}

// RemoveAvatar clears the target user's avatar.
func (s *Server) RemoveAvatar(c *fiber.Ctx) error {
	user, err := s.moderationService.RemoveAvatar(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// SetEffectPermission grants or revokes the visual effect unlock.
func (s *Server) SetEffectPermission(c *fiber.Ctx) error {
	var body struct {
		Granted bool `json:"granted"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	user, err := s.moderationService.SetEffectPermission(c.Context(), currentUserID(c), c.Params("id"), body.Granted)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// PinPaste pins or unpins a paste on the front page.
func (s *Server) PinPaste(c *fiber.Ctx) error {
	var body struct {
		Pinned bool `json:"pinned"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	paste, err := s.moderationService.SetPinned(c.Context(), currentUserID(c), c.Params("id"), body.Pinned)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.hub.Emit(notifications.EventPasteUpdated, fiber.Map{"id": paste.ID})
	return c.JSON(fiber.Map{"paste": paste})
}

// ResetPasteViews zeroes a paste's view counter.
func (s *Server) ResetPasteViews(c *fiber.Ctx) error {
	if err := s.moderationService.ResetViews(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "views reset"})
}
