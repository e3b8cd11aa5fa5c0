package server

import (
	"pulsepost/internal/models"
	"pulsepost/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetTwitterAuthURL handles GET /api/twitter/auth-url. It starts the OAuth
// handshake and returns the URL to redirect the user to.
func (s *Server) GetTwitterAuthURL(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	authURL, err := s.linkService.Initiate(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"auth_url": authURL,
	})
}

// TwitterCallback handles POST /api/twitter/callback. The frontend posts the
// oauth_token and oauth_verifier it received on the redirect.
func (s *Server) TwitterCallback(c *fiber.Ctx) error {
	var req service.CompleteLinkInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	account, err := s.linkService.Complete(c.UserContext(), req)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Twitter account connected successfully",
		"account": account,
	})
}

// GetTwitterAccount handles GET /api/twitter/account
func (s *Server) GetTwitterAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	account, err := s.linkService.Account(c.UserContext(), userID)
	if err != nil {
		if models.IsCode(err, models.CodeNotLinked) {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return respondAppError(c, err)
	}
	return c.JSON(account)
}

// DisconnectTwitter handles DELETE /api/twitter/disconnect
func (s *Server) DisconnectTwitter(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.linkService.Disconnect(c.UserContext(), userID); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Twitter account disconnected",
	})
}
