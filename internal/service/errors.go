package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrMissingToken        = errors.New("no refresh token")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUsernameTaken       = errors.New("user with this username already exists")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
)
