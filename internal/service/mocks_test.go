package service

import (
	"context"

	"booking-service/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) (int64, error) {
	args := m.Called(ctx, id, name)
	return args.Get(0).(int64), args.Error(1)
}

type mockDeviceTokenRepo struct{ mock.Mock }

func (m *mockDeviceTokenRepo) Register(ctx context.Context, userID uuid.UUID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *mockDeviceTokenRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	tokens, _ := args.Get(0).([]string)
	return tokens, args.Error(1)
}

type mockTokenIssuer struct{ mock.Mock }

func (m *mockTokenIssuer) GenerateToken(user *model.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

type mockCoachRepo struct{ mock.Mock }

func (m *mockCoachRepo) List(ctx context.Context) ([]model.CoachSummary, error) {
	args := m.Called(ctx)
	coaches, _ := args.Get(0).([]model.CoachSummary)
	return coaches, args.Error(1)
}

func (m *mockCoachRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CoachDetails, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.CoachDetails)
	return c, args.Error(1)
}

func (m *mockCoachRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Coach, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*model.Coach)
	return c, args.Error(1)
}

func (m *mockCoachRepo) Promote(ctx context.Context, coach *model.Coach) (*model.Coach, error) {
	args := m.Called(ctx, coach)
	c, _ := args.Get(0).(*model.Coach)
	return c, args.Error(1)
}

func (m *mockCoachRepo) UpdateProfileImage(ctx context.Context, userID uuid.UUID, imageURL string) error {
	return m.Called(ctx, userID, imageURL).Error(0)
}

type mockPresigner struct{ mock.Mock }

func (m *mockPresigner) PresignUpload(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}

func (m *mockPresigner) PublicURL(objectKey string) string {
	return m.Called(objectKey).String(0)
}

type mockCourseRepo struct{ mock.Mock }

func (m *mockCourseRepo) Create(ctx context.Context, course *model.Course) (*model.Course, error) {
	args := m.Called(ctx, course)
	c, _ := args.Get(0).(*model.Course)
	return c, args.Error(1)
}

func (m *mockCourseRepo) ListDetails(ctx context.Context) ([]model.CourseDetails, error) {
	args := m.Called(ctx)
	courses, _ := args.Get(0).([]model.CourseDetails)
	return courses, args.Error(1)
}

type mockSkillRepo struct{ mock.Mock }

func (m *mockSkillRepo) List(ctx context.Context) ([]model.Skill, error) {
	args := m.Called(ctx)
	skills, _ := args.Get(0).([]model.Skill)
	return skills, args.Error(1)
}

func (m *mockSkillRepo) Create(ctx context.Context, name string) (*model.Skill, error) {
	args := m.Called(ctx, name)
	s, _ := args.Get(0).(*model.Skill)
	return s, args.Error(1)
}

type mockPackageRepo struct{ mock.Mock }

func (m *mockPackageRepo) List(ctx context.Context) ([]model.CreditPackage, error) {
	args := m.Called(ctx)
	pkgs, _ := args.Get(0).([]model.CreditPackage)
	return pkgs, args.Error(1)
}

func (m *mockPackageRepo) Create(ctx context.Context, pkg *model.CreditPackage) (*model.CreditPackage, error) {
	args := m.Called(ctx, pkg)
	p, _ := args.Get(0).(*model.CreditPackage)
	return p, args.Error(1)
}

func (m *mockPackageRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
