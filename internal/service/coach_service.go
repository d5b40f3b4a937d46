package service

import (
	"context"
	"errors"
	"log/slog"

	"booking-service/internal/model"
	"booking-service/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCoachNotFound = errors.New("coach not found")
	ErrAlreadyCoach  = errors.New("user is already a coach")
)

// ImagePresigner issues short-lived upload URLs for object storage.
type ImagePresigner interface {
	PresignUpload(ctx context.Context, objectKey string) (string, error)
	PublicURL(objectKey string) string
}

type UploadURL struct {
	UploadURL     string `json:"upload_url"`
	FinalImageURL string `json:"final_image_url"`
}

type CoachService interface {
	ListCoaches(ctx context.Context) ([]model.CoachSummary, error)
	GetCoach(ctx context.Context, coachID uuid.UUID) (*model.CoachDetails, error)
	CoachForUser(ctx context.Context, userID uuid.UUID) (*model.Coach, error)
	PromoteToCoach(ctx context.Context, userID uuid.UUID, experienceYears int, description string) (*model.Coach, error)
	ProfileImageUploadURL(ctx context.Context, userID uuid.UUID) (*UploadURL, error)
}

type coachService struct {
	coachRepo repository.CoachRepository
	presigner ImagePresigner
}

func NewCoachService(coachRepo repository.CoachRepository, presigner ImagePresigner) CoachService {
	return &coachService{coachRepo: coachRepo, presigner: presigner}
}

func (s *coachService) ListCoaches(ctx context.Context) ([]model.CoachSummary, error) {
	return s.coachRepo.List(ctx)
}

func (s *coachService) GetCoach(ctx context.Context, coachID uuid.UUID) (*model.CoachDetails, error) {
	coach, err := s.coachRepo.FindByID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, ErrCoachNotFound
	}
	return coach, nil
}

func (s *coachService) CoachForUser(ctx context.Context, userID uuid.UUID) (*model.Coach, error) {
	coach, err := s.coachRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, ErrCoachNotFound
	}
	return coach, nil
}

func (s *coachService) PromoteToCoach(ctx context.Context, userID uuid.UUID, experienceYears int, description string) (*model.Coach, error) {
	coach, err := s.coachRepo.Promote(ctx, &model.Coach{
		UserID:          userID,
		ExperienceYears: experienceYears,
		Description:     description,
	})

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrAlreadyCoach
	case err != nil:
		return nil, err
	}

	slog.InfoContext(ctx, "User promoted to coach", "user_id", userID, "coach_id", coach.ID)
	return coach, nil
}

// ProfileImageUploadURL presigns an upload and records the resulting public
// URL on the coach profile.
func (s *coachService) ProfileImageUploadURL(ctx context.Context, userID uuid.UUID) (*UploadURL, error) {
	objectKey := "coach-images/" + userID.String() + "/" + uuid.NewString() + ".jpg"

	uploadURL, err := s.presigner.PresignUpload(ctx, objectKey)
	if err != nil {
		return nil, err
	}

	finalURL := s.presigner.PublicURL(objectKey)
	if err := s.coachRepo.UpdateProfileImage(ctx, userID, finalURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}

	return &UploadURL{UploadURL: uploadURL, FinalImageURL: finalURL}, nil
}
