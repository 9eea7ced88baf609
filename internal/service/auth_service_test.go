package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/config"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/util"
	"github.com/kachaniabdellah86/ficam-festival-app/pkg/logger"
)

type fakeAccounts struct {
	users  map[string]*model.User
	nextID uint

	lastLoginErr    error
	lastLoginCalled bool
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeAccounts) Create(user *model.User) error {
	if _, ok := f.users[user.Email]; ok {
		return util.ErrEmailRegistered
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Email] = user
	return nil
}

func (f *fakeAccounts) FindByID(id uint) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccounts) FindByEmail(email string) (*model.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccounts) UpdateLastLogin(userID uint) error {
	f.lastLoginCalled = true
	return f.lastLoginErr
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-at-least-32-characters!!",
			ExpireTime: time.Hour,
		},
	}
}

func newTestAuthService(accounts *fakeAccounts) *AuthService {
	logger.Log = zap.NewNop()
	return NewAuthService(accounts, authTestConfig())
}

func registerParticipant(t *testing.T, s *AuthService, email, password string) *model.User {
	t.Helper()
	user := &model.User{Name: "Sami", Email: email, Password: password, Role: model.Participant}
	require.NoError(t, s.Register(user))
	return user
}

func TestRegisterHashesPasswordAndRejectsDuplicates(t *testing.T) {
	accounts := newFakeAccounts()
	s := newTestAuthService(accounts)

	user := registerParticipant(t, s, "sami@ficam.ma", "motdepasse")
	assert.NotEqual(t, "motdepasse", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("motdepasse")))

	dup := &model.User{Name: "Autre", Email: "sami@ficam.ma", Password: "autre-mdp"}
	assert.ErrorIs(t, s.Register(dup), util.ErrEmailRegistered)
}

func TestLoginIssuesParsableToken(t *testing.T) {
	accounts := newFakeAccounts()
	s := newTestAuthService(accounts)
	registerParticipant(t, s, "sami@ficam.ma", "motdepasse")

	token, err := s.Login("sami@ficam.ma", "motdepasse")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, authTestConfig().JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, "sami@ficam.ma", claims.Email)
	assert.True(t, accounts.lastLoginCalled)
}

func TestLoginRejectsBadCredentialsAndDisabledAccounts(t *testing.T) {
	accounts := newFakeAccounts()
	s := newTestAuthService(accounts)
	user := registerParticipant(t, s, "sami@ficam.ma", "motdepasse")

	_, err := s.Login("sami@ficam.ma", "faux-mdp")
	assert.Error(t, err)

	_, err = s.Login("inconnu@ficam.ma", "motdepasse")
	assert.Error(t, err)

	user.Disabled = true
	_, err = s.Login("sami@ficam.ma", "motdepasse")
	assert.EqualError(t, err, "account disabled")
}

func TestLoginSurvivesLastLoginWriteFailure(t *testing.T) {
	accounts := newFakeAccounts()
	s := newTestAuthService(accounts)
	registerParticipant(t, s, "sami@ficam.ma", "motdepasse")

	// The timestamp is bookkeeping; a write failure is logged, not returned.
	accounts.lastLoginErr = errors.New("connection reset")

	token, err := s.Login("sami@ficam.ma", "motdepasse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
