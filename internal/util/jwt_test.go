package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Email:     "sami@ficam.ma",
		Role:      model.Admin,
	}

	token, err := GenerateJWT(user, "test-secret-at-least-32-characters!!", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, "test-secret-at-least-32-characters!!")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "sami@ficam.ma", claims.Email)
	assert.Equal(t, model.Admin, claims.Role)
}

func TestJWTWrongSecretRejected(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Email: "a@b.c", Role: model.Participant}

	token, err := GenerateJWT(user, "first-secret-at-least-32-characters!", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret-at-least-32-characters!")
	assert.Error(t, err)
}

func TestJWTExpiredRejected(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Email: "a@b.c", Role: model.Participant}

	token, err := GenerateJWT(user, "test-secret-at-least-32-characters!!", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "test-secret-at-least-32-characters!!")
	assert.Error(t, err)
}
