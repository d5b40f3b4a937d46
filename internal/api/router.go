package api

import (
	"booking-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	User   *UserHandler
	Coach  *CoachHandler
	Course *CourseHandler
	Credit *CreditHandler
}

func NewHandlers(
	auth service.AuthService,
	bookings service.BookingService,
	credits service.CreditService,
	coaches service.CoachService,
	courses service.CourseService,
) *Handlers {
	return &Handlers{
		User:   NewUserHandler(auth, bookings),
		Coach:  NewCoachHandler(coaches),
		Course: NewCourseHandler(courses, bookings),
		Credit: NewCreditHandler(credits),
	}
}

// SetupRoutes mounts the /v1 API. coachOnly must run after requireAuth.
func SetupRoutes(app *fiber.App, h *Handlers, requireAuth, coachOnly, internalOnly fiber.Handler) {
	v1 := app.Group("/v1")

	users := v1.Group("/users")
	users.Post("/signup", h.User.Signup)
	users.Post("/login", h.User.Login)
	users.Get("/profile", requireAuth, h.User.GetProfile)
	users.Put("/profile", requireAuth, h.User.UpdateProfile)
	users.Get("/credit", requireAuth, h.User.GetCredit)
	users.Get("/bookings", requireAuth, h.User.ListBookings)
	users.Post("/device-token", requireAuth, h.User.RegisterDeviceToken)

	coaches := v1.Group("/coaches")
	coaches.Get("/", h.Coach.ListCoaches)
	coaches.Post("/courses", requireAuth, coachOnly, h.Course.CreateCourse)
	coaches.Post("/profile-image/upload-url", requireAuth, coachOnly, h.Coach.GetProfileImageUploadURL)
	coaches.Get("/:coachId", h.Coach.GetCoach)

	v1.Get("/skills", h.Course.ListSkills)

	courses := v1.Group("/courses")
	courses.Get("/", h.Course.ListCourses)
	courses.Get("/:courseId/capacity", h.Course.GetCapacity)
	courses.Post("/:courseId", requireAuth, h.Course.BookCourse)
	courses.Delete("/:courseId", requireAuth, h.Course.CancelCourse)

	packages := v1.Group("/credit-package")
	packages.Get("/", h.Credit.ListPackages)
	packages.Post("/", internalOnly, h.Credit.CreatePackage)
	packages.Delete("/:creditPackageId", internalOnly, h.Credit.DeletePackage)
	packages.Post("/:creditPackageId", requireAuth, h.Credit.Purchase)

	admin := v1.Group("/admin", internalOnly)
	admin.Post("/coaches", h.Coach.PromoteCoach)
	admin.Post("/skills", h.Course.CreateSkill)
}
