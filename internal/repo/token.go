package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"user-backend/internal/models"
)

// ErrRefreshInvalid covers both an unknown and an expired refresh token; the
// caller cannot tell the two apart and must re-authenticate either way.
var ErrRefreshInvalid = errors.New("refresh token invalid or expired")

func (r *GormRepo) CreateRefreshToken(ctx context.Context, token string, userID uint, expiresAt time.Time) error {
	row := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	return r.DB.WithContext(ctx).Create(&row).Error
}

// RotateRefreshToken consumes oldToken and stores newToken in a single
// transaction, so a used token can never be replayed and a crash never leaves
// the user with both tokens dead AND alive. Returns the owning user so the
// caller can mint an access token with the current admin flag.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldToken, newToken string, expiresAt time.Time) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored models.RefreshToken
		if err := tx.Where("token = ?", oldToken).First(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRefreshInvalid
			}
			return err
		}

		// expiry boundary is exclusive: a token expiring exactly now is dead
		if !stored.ExpiresAt.After(time.Now()) {
			return ErrRefreshInvalid
		}

		if err := tx.First(&user, stored.UserID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.RefreshToken{}, stored.ID).Error; err != nil {
			return err
		}

		next := models.RefreshToken{
			Token:     newToken,
			UserID:    stored.UserID,
			ExpiresAt: expiresAt,
		}
		return tx.Create(&next).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteRefreshToken is no-op safe: deleting an unknown token is not an error,
// which keeps logout idempotent.
func (r *GormRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.RefreshToken{}).Error
}
