package api

import (
	"errors"
	"time"

	"booking-service/internal/model"
	"booking-service/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CourseHandler struct {
	courseService  service.CourseService
	bookingService service.BookingService
	validate       *validator.Validate
}

func NewCourseHandler(courseService service.CourseService, bookingService service.BookingService) *CourseHandler {
	return &CourseHandler{
		courseService:  courseService,
		bookingService: bookingService,
		validate:       validator.New(),
	}
}

type CreateCourseRequest struct {
	SkillID         string    `json:"skill_id" validate:"required,uuid"`
	Name            string    `json:"name" validate:"required"`
	Description     string    `json:"description"`
	StartAt         time.Time `json:"start_at" validate:"required"`
	EndAt           time.Time `json:"end_at" validate:"required,gtfield=StartAt"`
	MaxParticipants int       `json:"max_participants" validate:"required,gt=0"`
}

type CreateSkillRequest struct {
	Name string `json:"name" validate:"required"`
}

func toBookingResponse(b *model.CourseBooking) BookingResponse {
	response := BookingResponse{
		ID:        b.ID.String(),
		CourseID:  b.CourseID.String(),
		Status:    b.Status(),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if state, ok := b.State().(model.Cancelled); ok {
		at := state.At.UTC().Format(time.RFC3339)
		response.CancelledAt = &at
	}
	return response
}

func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.courseService.ListCourses(c.UserContext())
	if err != nil {
		return respondFailure(c, err)
	}
	return c.JSON(courses)
}

// BookCourse spends one credit on a seat in the course.
func (h *CourseHandler) BookCourse(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	outcome, err := h.bookingService.RequestBooking(c.UserContext(), userID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return respondFailure(c, err)
	}
	if !outcome.Admitted() {
		return respondRejected(c, outcome.Rejected)
	}

	return c.Status(fiber.StatusCreated).JSON(toBookingResponse(outcome.Booking))
}

func (h *CourseHandler) CancelCourse(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	outcome, err := h.bookingService.RequestCancellation(c.UserContext(), userID, courseID)
	if err != nil {
		return respondFailure(c, err)
	}
	if !outcome.Admitted() {
		return respondRejected(c, outcome.Rejected)
	}

	return c.JSON(toBookingResponse(outcome.Booking))
}

func (h *CourseHandler) GetCapacity(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	occupancy, err := h.bookingService.Occupancy(c.UserContext(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
		}
		return respondFailure(c, err)
	}

	return c.JSON(fiber.Map{
		"active_bookings":  occupancy.Active,
		"max_participants": occupancy.MaxParticipants,
		"has_capacity":     occupancy.HasCapacity(),
	})
}

// CreateCourse must run behind CoachOnly.
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	coach, ok := coachFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Only coaches can access this resource"})
	}

	var request CreateCourseRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON", "details": err.Error()})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	course, err := h.courseService.CreateCourse(c.UserContext(), &model.Course{
		CoachID:         coach.UserID,
		SkillID:         uuid.MustParse(request.SkillID),
		Name:            request.Name,
		Description:     request.Description,
		StartAt:         request.StartAt.UTC(),
		EndAt:           request.EndAt.UTC(),
		MaxParticipants: request.MaxParticipants,
	})
	switch {
	case errors.Is(err, service.ErrInvalidCourse):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSkillNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
	case errors.Is(err, service.ErrCoachNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	case err != nil:
		return respondFailure(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(course)
}

func (h *CourseHandler) ListSkills(c *fiber.Ctx) error {
	skills, err := h.courseService.ListSkills(c.UserContext())
	if err != nil {
		return respondFailure(c, err)
	}
	return c.JSON(skills)
}

func (h *CourseHandler) CreateSkill(c *fiber.Ctx) error {
	var request CreateSkillRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	skill, err := h.courseService.CreateSkill(c.UserContext(), request.Name)
	if err != nil {
		if errors.Is(err, service.ErrSkillTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Skill already exists"})
		}
		return respondFailure(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(skill)
}
