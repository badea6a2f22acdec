package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenExpired = errors.New("token expired")

// TokenInfo 는 원격 API 가 발급한 토큰에서 읽어낸 정보이다.
// 서명 키는 원격 API 만 알고 있으므로 여기서는 검증하지 않고 클레임만 읽는다.
type TokenInfo struct {
	UserID string
	// ExpiresAt 이 zero 이면 토큰에 exp 클레임이 없다.
	ExpiresAt time.Time
}

// Inspect 는 JWT 형식 토큰의 sub(또는 user.id) 와 exp 클레임을 읽는다.
// JWT 가 아니면 에러를, exp 가 now 이전이면 ErrTokenExpired 를 반환한다.
func Inspect(tokenString string, now time.Time) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("inspect token: %w", err)
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		info.UserID = sub
	} else if user, ok := claims["user"].(map[string]any); ok {
		info.UserID, _ = user["id"].(string)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return TokenInfo{}, fmt.Errorf("inspect token: %w", err)
	}
	if exp != nil {
		info.ExpiresAt = exp.Time
		if !now.Before(info.ExpiresAt) {
			return info, ErrTokenExpired
		}
	}
	return info, nil
}
