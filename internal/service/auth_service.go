package service

import (
	"context"
	"errors"
	"strings"

	"booking-service/internal/model"
	"booking-service/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type TokenIssuer interface {
	GenerateToken(user *model.User) (string, error)
}

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateName(ctx context.Context, userID uuid.UUID, name string) error
	RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.DeviceTokenRepository
	tokens    TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.DeviceTokenRepository, tokens TokenIssuer) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
	}
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &model.User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) UpdateName(ctx context.Context, userID uuid.UUID, name string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if user.Name == name {
		return ErrNameUnchanged
	}

	n, err := s.userRepo.UpdateName(ctx, userID, name)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *authService) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.tokenRepo.Register(ctx, userID, token)
}
