package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/session"
)

// dummyHash is compared against when the username does not exist, so a
// missing user costs the same time as a wrong password.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type authUseCase struct {
	adminRepo  domain.AdminRepository
	sessions   session.Store
	sessionTTL time.Duration
	log        *logrus.Logger
}

func NewAuthUseCase(repo domain.AdminRepository, sessions session.Store, sessionTTL time.Duration, logger *logrus.Logger) domain.AuthUseCase {
	return &authUseCase{
		adminRepo:  repo,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        logger,
	}
}

func (uc *authUseCase) Login(ctx context.Context, username, password string) (*domain.AdminUser, string, error) {
	uc.log.Infof("Use Case: Login attempt for username: %s", username)

	if username == "" || password == "" {
		return nil, "", domain.ErrUnauthorized
	}

	user, err := uc.adminRepo.GetAdminByUsername(username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			uc.log.Warnf("Use Case: Login failed for %s", username)
			return nil, "", domain.ErrUnauthorized
		}
		uc.log.Errorf("Use Case: Failed to load admin %s: %v", username, err)
		return nil, "", fmt.Errorf("could not load admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Login failed for %s", username)
			return nil, "", domain.ErrUnauthorized
		}
		uc.log.Errorf("Use Case: Error comparing password hash for %s: %v", username, err)
		return nil, "", fmt.Errorf("internal error during authentication: %w", err)
	}

	token := uuid.NewString()
	s := session.Session{
		Token:     token,
		AdminID:   user.ID,
		ExpiresAt: time.Now().Add(uc.sessionTTL),
	}
	if err := uc.sessions.Create(ctx, s); err != nil {
		uc.log.Errorf("Use Case: Failed to store session for %s: %v", username, err)
		return nil, "", fmt.Errorf("could not establish session: %w", err)
	}

	uc.log.Infof("Use Case: Login successful for %s (admin id %d)", username, user.ID)
	return user, token, nil
}

func (uc *authUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrUnauthorized
	}
	if err := uc.sessions.Delete(ctx, token); err != nil {
		uc.log.Errorf("Use Case: Failed to delete session: %v", err)
		return fmt.Errorf("could not end session: %w", err)
	}
	uc.log.Info("Use Case: Session ended")
	return nil
}

func (uc *authUseCase) CurrentUser(ctx context.Context, token string) (*domain.AdminUser, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	s, err := uc.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		uc.log.Errorf("Use Case: Failed to read session: %v", err)
		return nil, fmt.Errorf("could not read session: %w", err)
	}

	user, err := uc.adminRepo.GetAdminByID(s.AdminID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The account behind the session is gone; treat the session as dead.
			_ = uc.sessions.Delete(ctx, token)
			return nil, domain.ErrUnauthorized
		}
		uc.log.Errorf("Use Case: Failed to load admin %d for session: %v", s.AdminID, err)
		return nil, fmt.Errorf("could not load admin user: %w", err)
	}

	return user, nil
}
