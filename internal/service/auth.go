package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gti/booking-qa/internal/models"
	"github.com/gti/booking-qa/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionInvalid     = errors.New("invalid or expired session")
)

type AuthService struct {
	userRepo      *repository.UserRepository
	sessionExpiry time.Duration
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		sessionExpiry: 24 * time.Hour * 7, // 7 days
	}
}

// Login verifies the password and creates a session, returning the user and
// the session token
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token := uuid.New().String()
	session := &models.Session{
		Token:     token,
		Username:  user.Username,
		ExpiresAt: time.Now().Add(s.sessionExpiry),
	}
	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// ValidateSession validates a session token and returns the username
func (s *AuthService) ValidateSession(ctx context.Context, token string) (string, error) {
	session, err := s.userRepo.GetSession(ctx, token)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return "", ErrSessionInvalid
	}
	if err != nil {
		return "", err
	}

	return session.Username, nil
}

// Logout deletes a session (logout)
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.userRepo.DeleteSession(ctx, token)
}

// CleanExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanExpiredSessions(ctx context.Context) error {
	return s.userRepo.DeleteExpiredSessions(ctx)
}
