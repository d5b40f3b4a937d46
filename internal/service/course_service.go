package service

import (
	"context"
	"errors"
	"strings"

	"booking-service/internal/model"
	"booking-service/internal/repository"
)

var (
	ErrInvalidCourse = errors.New("course needs a name, an end after its start and at least one participant")
	ErrSkillNotFound = errors.New("skill not found")
	ErrSkillTaken    = errors.New("skill already exists")
)

type CourseService interface {
	ListCourses(ctx context.Context) ([]model.CourseDetails, error)
	CreateCourse(ctx context.Context, course *model.Course) (*model.Course, error)
	ListSkills(ctx context.Context) ([]model.Skill, error)
	CreateSkill(ctx context.Context, name string) (*model.Skill, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
	skillRepo  repository.SkillRepository
}

func NewCourseService(courseRepo repository.CourseRepository, skillRepo repository.SkillRepository) CourseService {
	return &courseService{courseRepo: courseRepo, skillRepo: skillRepo}
}

func (s *courseService) ListCourses(ctx context.Context) ([]model.CourseDetails, error) {
	return s.courseRepo.ListDetails(ctx)
}

func (s *courseService) CreateCourse(ctx context.Context, course *model.Course) (*model.Course, error) {
	course.Name = strings.TrimSpace(course.Name)
	if course.Name == "" || course.MaxParticipants <= 0 || !course.EndAt.After(course.StartAt) {
		return nil, ErrInvalidCourse
	}

	created, err := s.courseRepo.Create(ctx, course)
	switch {
	case errors.Is(err, repository.ErrUnknownSkill):
		return nil, ErrSkillNotFound
	case errors.Is(err, repository.ErrUnknownCoach):
		return nil, ErrCoachNotFound
	case err != nil:
		return nil, err
	}

	return created, nil
}

func (s *courseService) ListSkills(ctx context.Context) ([]model.Skill, error) {
	return s.skillRepo.List(ctx)
}

func (s *courseService) CreateSkill(ctx context.Context, name string) (*model.Skill, error) {
	skill, err := s.skillRepo.Create(ctx, strings.TrimSpace(name))
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrSkillTaken
	}
	return skill, err
}
