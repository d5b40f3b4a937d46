package jwt_test

import (
	"testing"
	"time"

	"booking-service/internal/jwt"
	"booking-service/internal/model"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour)
	user := &model.User{ID: uuid.New(), Name: "Ann", Role: model.RoleCoach}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), claims["sub"])
	require.Equal(t, model.RoleCoach, claims["role"])
}

func TestManager_Expired(t *testing.T) {
	m := jwt.NewManager("secret", -time.Minute)
	token, err := m.GenerateToken(&model.User{ID: uuid.New(), Role: model.RoleUser})
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	require.ErrorIs(t, err, jwtv5.ErrTokenExpired)
}

func TestManager_WrongSecret(t *testing.T) {
	token, err := jwt.NewManager("a", time.Hour).GenerateToken(&model.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = jwt.NewManager("b", time.Hour).ValidateToken(token)
	require.Error(t, err)
}
