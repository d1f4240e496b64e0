package server

import (
	"abusebin/internal/models"
	"abusebin/internal/notifications"
	"abusebin/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers lists users ordered by registration number.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	users, err := s.userService.List(c.Context(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetUser returns a single user by ID.
func (s *Server) GetUser(c *fiber.Ctx) error {
	user, err := s.userService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetUserByUsername returns a single user by name.
func (s *Server) GetUserByUsername(c *fiber.Ctx) error {
	user, err := s.userService.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetUserStats returns a user's public counters.
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	stats, err := s.userService.Stats(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"stats": stats})
}

// GetUserPastes lists a user's pastes, newest first.
func (s *Server) GetUserPastes(c *fiber.Ctx) error {
	pastes, err := s.pasteService.ListByAuthor(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"pastes": pastes})
}

// GetMyProfile returns the caller's own account.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.Get(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateMyProfile applies profile changes for the caller.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var in service.UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}
	in.UserID = currentUserID(c)

	user, err := s.userService.UpdateProfile(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// DeleteMyAccount removes the caller's account and everything it owns. The
// current password must be confirmed in the request body.
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	if err := s.userService.DeleteAccount(c.Context(), currentUserID(c), body.Password); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "account deleted"})
}

// FollowState reports whether the caller follows the target user.
func (s *Server) FollowState(c *fiber.Ctx) error {
	following, err := s.userService.IsFollowing(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// FollowUser adds a follow edge from the caller to the target user.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followerID := currentUserID(c)
	targetID := c.Params("id")

	if err := s.userService.Follow(c.Context(), followerID, targetID); err != nil {
		return respondServiceError(c, err)
	}

	s.hub.Emit(notifications.EventFollowCreated, fiber.Map{
		"follower_id":  followerID,
		"following_id": targetID,
	})
	return c.JSON(fiber.Map{"message": "followed"})
}

// UnfollowUser removes a follow edge.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	if err := s.userService.Unfollow(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "unfollowed"})
}
