package service

import (
	"context"
	"errors"
	"time"

	"user-backend/internal/hash"
	"user-backend/internal/logging"
	"user-backend/internal/models"
	"user-backend/internal/repo"
	"user-backend/internal/tokens"
)

const refreshTTL = 7 * 24 * time.Hour

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	AccessTTL time.Duration
}

// SessionResult carries everything a handler needs to set the session
// cookies: both token values and their expiries, plus the user summary for
// the login response body.
type SessionResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         models.Summary
}

func (s *AuthService) Login(ctx context.Context, identity, password string) (*SessionResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.ValidateCredentials(ctx, identity, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		l.Warn("login_failed", "reason", "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	res, err := s.openSession(ctx, user)
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, err
	}

	l.Info("login_successful", "user_id", user.ID)
	return res, nil
}

// ValidateCredentials looks the user up by username or email and verifies
// the password. A mismatch returns (nil, nil): the caller decides the error
// shape.
func (s *AuthService) ValidateCredentials(ctx context.Context, identity, password string) (*models.User, error) {
	user, err := s.Repo.FindByIdentity(ctx, identity)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}
	return user, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*SessionResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refreshToken == "" {
		return nil, ErrMissingToken
	}

	newValue, err := tokens.NewRefreshValue()
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	user, err := s.Repo.RotateRefreshToken(ctx, refreshToken, newValue, refreshExp)
	if err != nil {
		if errors.Is(err, repo.ErrRefreshInvalid) {
			l.Warn("refresh_rejected", "reason", "token invalid or expired")
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_failed", "error", err)
		return nil, err
	}

	access, accessExp, err := tokens.SignAccessToken(user.ID, user.IsAdmin, s.JWTSecret, s.AccessTTL)
	if err != nil {
		return nil, err
	}

	l.Info("tokens_refreshed", "user_id", user.ID)
	return &SessionResult{
		AccessToken:  access,
		RefreshToken: newValue,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user.Summary(),
	}, nil
}

// Logout drops the refresh token row if one matches. Unknown or absent
// tokens are fine: logging out twice is a success both times.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.Repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		logging.FromContext(ctx).Warn("logout_revoke_failed", "error", err)
	}
	return nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User) (*SessionResult, error) {
	access, accessExp, err := tokens.SignAccessToken(user.ID, user.IsAdmin, s.JWTSecret, s.AccessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := tokens.NewRefreshValue()
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	if err := s.Repo.CreateRefreshToken(ctx, refresh, user.ID, refreshExp); err != nil {
		return nil, err
	}

	return &SessionResult{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user.Summary(),
	}, nil
}
