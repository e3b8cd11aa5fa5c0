package server

import (
	"pulsepost/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GeneratePost handles POST /api/posts/generate. It runs the full pipeline
// on demand: generate, publish, record.
func (s *Server) GeneratePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	record, err := s.publishService.PublishForUser(c.UserContext(), userID)
	if err != nil {
		if models.IsCode(err, models.CodeNotLinked) {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		return respondAppError(c, err)
	}

	// A failed publish still returns the recorded attempt; the status field
	// tells the caller what happened.
	return c.JSON(record)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	limit := c.QueryInt("limit", 10)
	records, err := s.publishService.ListPosts(c.UserContext(), userID, limit)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(records)
}

// GetStats handles GET /api/stats
func (s *Server) GetStats(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	stats, err := s.publishService.Stats(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(stats)
}
