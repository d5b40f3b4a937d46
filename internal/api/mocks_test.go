package api

import (
	"context"

	"booking-service/internal/ledger"
	"booking-service/internal/model"
	"booking-service/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	args := m.Called(ctx, name, email, password)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(1).(*model.User)
	return args.String(0), u, args.Error(2)
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockAuthService) UpdateName(ctx context.Context, userID uuid.UUID, name string) error {
	return m.Called(ctx, userID, name).Error(0)
}

func (m *mockAuthService) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

type mockBookingService struct{ mock.Mock }

func (m *mockBookingService) RequestBooking(ctx context.Context, userID, courseID uuid.UUID) (*service.BookingOutcome, error) {
	args := m.Called(ctx, userID, courseID)
	o, _ := args.Get(0).(*service.BookingOutcome)
	return o, args.Error(1)
}

func (m *mockBookingService) RequestCancellation(ctx context.Context, userID, courseID uuid.UUID) (*service.BookingOutcome, error) {
	args := m.Called(ctx, userID, courseID)
	o, _ := args.Get(0).(*service.BookingOutcome)
	return o, args.Error(1)
}

func (m *mockBookingService) Balance(ctx context.Context, userID uuid.UUID) (ledger.Balance, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(ledger.Balance), args.Error(1)
}

func (m *mockBookingService) Occupancy(ctx context.Context, courseID uuid.UUID) (ledger.Occupancy, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(ledger.Occupancy), args.Error(1)
}

func (m *mockBookingService) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]model.CourseBooking, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).([]model.CourseBooking)
	return b, args.Error(1)
}

type mockCreditService struct{ mock.Mock }

func (m *mockCreditService) PurchaseCredits(ctx context.Context, userID, packageID uuid.UUID) (*service.PurchaseOutcome, error) {
	args := m.Called(ctx, userID, packageID)
	o, _ := args.Get(0).(*service.PurchaseOutcome)
	return o, args.Error(1)
}

func (m *mockCreditService) ListPackages(ctx context.Context) ([]model.CreditPackage, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]model.CreditPackage)
	return p, args.Error(1)
}

func (m *mockCreditService) CreatePackage(ctx context.Context, name string, creditAmount, price decimal.Decimal) (*model.CreditPackage, error) {
	args := m.Called(ctx, name, creditAmount, price)
	p, _ := args.Get(0).(*model.CreditPackage)
	return p, args.Error(1)
}

func (m *mockCreditService) DeletePackage(ctx context.Context, packageID uuid.UUID) error {
	return m.Called(ctx, packageID).Error(0)
}

type mockCoachService struct{ mock.Mock }

func (m *mockCoachService) ListCoaches(ctx context.Context) ([]model.CoachSummary, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]model.CoachSummary)
	return c, args.Error(1)
}

func (m *mockCoachService) GetCoach(ctx context.Context, coachID uuid.UUID) (*model.CoachDetails, error) {
	args := m.Called(ctx, coachID)
	c, _ := args.Get(0).(*model.CoachDetails)
	return c, args.Error(1)
}

func (m *mockCoachService) CoachForUser(ctx context.Context, userID uuid.UUID) (*model.Coach, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*model.Coach)
	return c, args.Error(1)
}

func (m *mockCoachService) PromoteToCoach(ctx context.Context, userID uuid.UUID, experienceYears int, description string) (*model.Coach, error) {
	args := m.Called(ctx, userID, experienceYears, description)
	c, _ := args.Get(0).(*model.Coach)
	return c, args.Error(1)
}

func (m *mockCoachService) ProfileImageUploadURL(ctx context.Context, userID uuid.UUID) (*service.UploadURL, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*service.UploadURL)
	return u, args.Error(1)
}

type mockCourseService struct{ mock.Mock }

func (m *mockCourseService) ListCourses(ctx context.Context) ([]model.CourseDetails, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]model.CourseDetails)
	return c, args.Error(1)
}

func (m *mockCourseService) CreateCourse(ctx context.Context, course *model.Course) (*model.Course, error) {
	args := m.Called(ctx, course)
	c, _ := args.Get(0).(*model.Course)
	return c, args.Error(1)
}

func (m *mockCourseService) ListSkills(ctx context.Context) ([]model.Skill, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]model.Skill)
	return s, args.Error(1)
}

func (m *mockCourseService) CreateSkill(ctx context.Context, name string) (*model.Skill, error) {
	args := m.Called(ctx, name)
	s, _ := args.Get(0).(*model.Skill)
	return s, args.Error(1)
}
