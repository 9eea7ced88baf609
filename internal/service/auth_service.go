package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/config"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/util"
	"github.com/kachaniabdellah86/ficam-festival-app/pkg/logger"
)

// AccountStore is the slice of user storage the auth flow needs.
type AccountStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	UpdateLastLogin(userID uint) error
}

type AuthService struct {
	Accounts AccountStore
	Cfg      *config.Config
}

func NewAuthService(accounts AccountStore, cfg *config.Config) *AuthService {
	return &AuthService{
		Accounts: accounts,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(user *model.User) error {
	_, err := s.Accounts.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.Accounts.Create(user)
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.Accounts.FindByEmail(email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if user.Disabled {
		return "", errors.New("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	// Bookkeeping only; a failed timestamp update never blocks the login.
	if err := s.Accounts.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("failed to record last login",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.Accounts.FindByID(claims.UserID)
	return user
}
