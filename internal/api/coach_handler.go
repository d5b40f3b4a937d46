package api

import (
	"errors"

	"booking-service/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CoachHandler struct {
	coachService service.CoachService
	validate     *validator.Validate
}

func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{
		coachService: coachService,
		validate:     validator.New(),
	}
}

type PromoteCoachRequest struct {
	UserID          string `json:"user_id" validate:"required,uuid"`
	ExperienceYears int    `json:"experience_years" validate:"gte=0"`
	Description     string `json:"description"`
}

func (h *CoachHandler) ListCoaches(c *fiber.Ctx) error {
	coaches, err := h.coachService.ListCoaches(c.UserContext())
	if err != nil {
		return respondFailure(c, err)
	}
	return c.JSON(coaches)
}

func (h *CoachHandler) GetCoach(c *fiber.Ctx) error {
	coachID, err := uuid.Parse(c.Params("coachId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach ID"})
	}

	details, err := h.coachService.GetCoach(c.UserContext(), coachID)
	if err != nil {
		if errors.Is(err, service.ErrCoachNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
		}
		return respondFailure(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  fiber.Map{"name": details.UserName, "role": details.UserRole},
		"coach": details.Coach,
	})
}

func (h *CoachHandler) GetProfileImageUploadURL(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	urls, err := h.coachService.ProfileImageUploadURL(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, service.ErrCoachNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate upload URL"})
	}

	return c.JSON(urls)
}

func (h *CoachHandler) PromoteCoach(c *fiber.Ctx) error {
	var request PromoteCoachRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	coach, err := h.coachService.PromoteToCoach(c.UserContext(), uuid.MustParse(request.UserID), request.ExperienceYears, request.Description)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, service.ErrAlreadyCoach):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User is already a coach"})
	case err != nil:
		return respondFailure(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(coach)
}
