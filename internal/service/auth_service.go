package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/hijrafr/expat-services-api/internal/model"
	"github.com/hijrafr/expat-services-api/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

const sessionTTL = 12 * time.Hour

type AuthService struct {
	admins *repository.AdminRepository
}

func NewAuthService(admins *repository.AdminRepository) *AuthService {
	return &AuthService{admins: admins}
}

// Login verifies the password and mints an opaque bearer token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Session, *model.AdminUser, error) {
	user, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session := &model.Session{
		Token:     uuid.NewString(),
		AdminID:   user.ID,
		ExpiresAt: time.Now().UTC().Add(sessionTTL),
	}
	if err := s.admins.CreateSession(ctx, session); err != nil {
		return nil, nil, err
	}

	if err := s.admins.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Str("admin_id", user.ID).Msg("failed to update last_login")
	}
	return session, user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.admins.DeleteSession(ctx, token)
	if errors.Is(err, pgx.ErrNoRows) {
		// Already gone; logout is idempotent.
		return nil
	}
	return err
}

// Validate satisfies middleware.SessionValidator.
func (s *AuthService) Validate(ctx context.Context, token string) (*model.AdminUser, error) {
	return s.admins.FindSessionUser(ctx, token)
}

// PurgeExpiredSessions is called periodically from main.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) {
	n, err := s.admins.DeleteExpiredSessions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to purge expired sessions")
		return
	}
	if n > 0 {
		log.Debug().Int64("count", n).Msg("purged expired admin sessions")
	}
}
