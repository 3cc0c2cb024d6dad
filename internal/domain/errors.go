package domain

import "errors"

var (
	ErrTokenNotFound      = errors.New("token not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotConnected       = errors.New("provider not connected")
	ErrRefreshUnavailable = errors.New("no refresh token available")
)
