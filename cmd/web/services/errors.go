package services

import "errors"

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionRejected 는 원격 API 가 세션 토큰을 거부했음을 뜻한다. 다시 로그인해야 한다.
	ErrSessionRejected = errors.New("session rejected by api")
)
