package server

import (
	"pulsepost/internal/models"
	"pulsepost/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// UpsertContentStyle handles POST /api/content-style. Saving a style replaces
// the user's previous one.
func (s *Server) UpsertContentStyle(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Topic    string `json:"topic"`
		Tone     string `json:"tone"`
		Length   string `json:"length"`
		Hashtags *bool  `json:"hashtags"`
		Emojis   *bool  `json:"emojis"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	style := &models.ContentStyle{
		UserID: userID,
		Topic:  req.Topic,
		Tone:   req.Tone,
		Length: req.Length,
	}
	if style.Tone == "" {
		style.Tone = models.ToneProfessional
	}
	if style.Length == "" {
		style.Length = models.LengthMedium
	}
	// Hashtags default to on, emojis to off.
	style.Hashtags = req.Hashtags == nil || *req.Hashtags
	style.Emojis = req.Emojis != nil && *req.Emojis

	if err := validation.ValidateStyle(style); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if err := s.styleRepo.Upsert(c.UserContext(), style); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(style)
}

// GetContentStyle handles GET /api/content-style
func (s *Server) GetContentStyle(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	style, err := s.styleRepo.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	if style == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Content style", userID))
	}
	return c.JSON(style)
}

// UpsertSchedule handles POST /api/schedule
func (s *Server) UpsertSchedule(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Frequency string `json:"frequency"`
		TimeOfDay string `json:"time_of_day"`
		Timezone  string `json:"timezone"`
		Enabled   *bool  `json:"enabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	schedule := &models.Schedule{
		UserID:    userID,
		Frequency: req.Frequency,
		TimeOfDay: req.TimeOfDay,
		Timezone:  req.Timezone,
	}
	if schedule.Frequency == "" {
		schedule.Frequency = models.FrequencyDaily
	}
	if schedule.Timezone == "" {
		schedule.Timezone = "UTC"
	}
	// A new schedule is enabled unless the caller says otherwise.
	schedule.Enabled = req.Enabled == nil || *req.Enabled

	if err := validation.ValidateSchedule(schedule); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if err := s.scheduleRepo.Upsert(c.UserContext(), schedule); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(schedule)
}

// GetSchedule handles GET /api/schedule
func (s *Server) GetSchedule(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	schedule, err := s.scheduleRepo.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	if schedule == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Schedule", userID))
	}
	return c.JSON(schedule)
}

// ToggleSchedule handles PATCH /api/schedule/toggle. It flips the automation
// switch and returns the new state.
func (s *Server) ToggleSchedule(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	schedule, err := s.scheduleRepo.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	if schedule == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Schedule", userID))
	}

	updated, err := s.scheduleRepo.SetEnabled(c.UserContext(), userID, !schedule.Enabled)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"enabled": updated.Enabled,
	})
}
