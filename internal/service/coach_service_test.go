package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"booking-service/internal/model"
	"booking-service/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCoachService_GetCoach_NotFound(t *testing.T) {
	coaches := new(mockCoachRepo)
	svc := NewCoachService(coaches, nil)
	id := uuid.New()
	coaches.On("FindByID", mock.Anything, id).Return(nil, nil)

	_, err := svc.GetCoach(context.Background(), id)
	assert.ErrorIs(t, err, ErrCoachNotFound)
}

func TestCoachService_CoachForUser(t *testing.T) {
	userID := uuid.New()
	coaches := new(mockCoachRepo)
	svc := NewCoachService(coaches, nil)
	coaches.On("FindByUserID", mock.Anything, userID).Return(nil, nil).Once()
	coaches.On("FindByUserID", mock.Anything, userID).Return(&model.Coach{ID: uuid.New(), UserID: userID}, nil).Once()

	_, err := svc.CoachForUser(context.Background(), userID)
	assert.ErrorIs(t, err, ErrCoachNotFound)

	coach, err := svc.CoachForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, coach.UserID)
}

func TestCoachService_PromoteToCoach(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "promotes"},
		{name: "unknown user", repoErr: repository.ErrNotFound, wantErr: ErrUserNotFound},
		{name: "already coach", repoErr: repository.ErrDuplicate, wantErr: ErrAlreadyCoach},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coaches := new(mockCoachRepo)
			svc := NewCoachService(coaches, nil)

			var created *model.Coach
			if tt.repoErr == nil {
				created = &model.Coach{ID: uuid.New(), UserID: userID, ExperienceYears: 4}
			}
			coaches.On("Promote", mock.Anything, mock.MatchedBy(func(c *model.Coach) bool {
				return c.UserID == userID && c.ExperienceYears == 4
			})).Return(created, tt.repoErr)

			coach, err := svc.PromoteToCoach(context.Background(), userID, 4, "Badminton coach")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, coach.ID)
		})
	}
}

func TestCoachService_ProfileImageUploadURL(t *testing.T) {
	userID := uuid.New()
	coaches := new(mockCoachRepo)
	presigner := new(mockPresigner)
	svc := NewCoachService(coaches, presigner)

	isCoachKey := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "coach-images/"+userID.String()+"/") && strings.HasSuffix(key, ".jpg")
	})
	presigner.On("PresignUpload", mock.Anything, isCoachKey).Return("https://s3.local/upload?sig=abc", nil)
	presigner.On("PublicURL", isCoachKey).Return("https://s3.local/bucket/coach-images/x.jpg")
	coaches.On("UpdateProfileImage", mock.Anything, userID, "https://s3.local/bucket/coach-images/x.jpg").Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	urls, err := svc.ProfileImageUploadURL(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/upload?sig=abc", urls.UploadURL)
	assert.Equal(t, "https://s3.local/bucket/coach-images/x.jpg", urls.FinalImageURL)
	presigner.AssertExpectations(t)
	coaches.AssertExpectations(t)
}

func TestCoachService_ProfileImageUploadURL_NotCoach(t *testing.T) {
	userID := uuid.New()
	coaches := new(mockCoachRepo)
	presigner := new(mockPresigner)
	svc := NewCoachService(coaches, presigner)

	presigner.On("PresignUpload", mock.Anything, mock.Anything).Return("https://s3.local/upload", nil)
	presigner.On("PublicURL", mock.Anything).Return("https://s3.local/final.jpg")
	coaches.On("UpdateProfileImage", mock.Anything, userID, mock.Anything).Return(repository.ErrNotFound)

	_, err := svc.ProfileImageUploadURL(context.Background(), userID)
	assert.ErrorIs(t, err, ErrCoachNotFound)
}
