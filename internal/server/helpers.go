package server

import (
	"strconv"

	"abusebin/internal/models"
	"abusebin/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	// The default limit matches the cached front page size.
	defaultPaginationLimit = service.FrontPageLimit
	maxPaginationLimit     = 100
)

// currentUserID returns the authenticated user's ID set by the auth
// middleware. Empty on routes with optional auth when no token was sent.
func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("userID").(string)
	return userID
}

// respondServiceError maps a service error to its HTTP response.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

// parsePagination extracts limit and offset query params with sane bounds.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = defaultPaginationLimit
	offset = 0

	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}

// parseUintParam parses a numeric path parameter, e.g. comment and hall post
// IDs.
func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, models.NewValidationError("invalid " + name)
	}
	return uint(n), nil
}
