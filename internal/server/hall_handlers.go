package server

import (
	"abusebin/internal/models"
	"abusebin/internal/notifications"
	"abusebin/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetHallPosts lists hall-of-fame posts, newest first.
func (s *Server) GetHallPosts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	posts, err := s.hallService.List(c.Context(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// CreateHallPost publishes a hall-of-fame post. Admins only.
func (s *Server) CreateHallPost(c *fiber.Ctx) error {
	var in service.CreateHallPostInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}
	in.AuthorID = currentUserID(c)

	post, err := s.hallService.Create(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.hub.Emit(notifications.EventHallPostCreated, fiber.Map{
		"id":    post.ID,
		"title": post.Title,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// DeleteHallPost removes a hall-of-fame post. Admins only.
func (s *Server) DeleteHallPost(c *fiber.Ctx) error {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.hallService.Delete(c.Context(), currentUserID(c), postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "hall post deleted"})
}
