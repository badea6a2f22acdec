package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/web/httpclient"
)

var (
	ErrMissingHeader = errors.New("missing_authorization_header")
	ErrInvalidFormat = errors.New("invalid_authorization_header")
	ErrEmptyToken    = errors.New("empty_token")
)

// ExtractToken 은 authtoken 헤더에서 세션 토큰을 읽고, 없으면 Authorization: Bearer 헤더를 본다.
func ExtractToken(c *gin.Context) (string, error) {
	if raw, ok := c.Request.Header[http.CanonicalHeaderKey(httpclient.AuthTokenHeader)]; ok {
		token := ""
		if len(raw) > 0 {
			token = strings.TrimSpace(raw[0])
		}
		if token == "" {
			return "", ErrEmptyToken
		}
		return token, nil
	}
	return ExtractBearerToken(c)
}

// ExtractBearerToken 은 Authorization 헤더의 Bearer 토큰을 꺼낸다.
func ExtractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrInvalidFormat
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// AbortWithUnauthorized 는 401 과 에러 JSON 으로 요청을 끝낸다.
func AbortWithUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
}
