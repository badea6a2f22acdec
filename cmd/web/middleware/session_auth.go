package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/auth"
	"hey-sainty/cmd/web/session"
	"hey-sainty/cmd/web/trace"
)

const sessionContextKey = "session"

// LoginPath 는 세션이 없을 때 돌려보낼 로그인 화면 경로이다.
const LoginPath = "/login"

// LoadSession 은 쿠키(없으면 authtoken/Bearer 헤더)에 세션이 있으면 gin 컨텍스트에 저장한다.
// 없어도 요청은 계속된다.
func LoadSession(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s, err := loadSession(m, c); err == nil {
			c.Set(sessionContextKey, s)
		}
		c.Next()
	}
}

func loadSession(m *session.Manager, c *gin.Context) (session.Session, error) {
	s, err := m.Load(c.Request)
	if err == nil {
		return s, nil
	}
	token, terr := auth.ExtractToken(c)
	if errors.Is(terr, auth.ErrMissingHeader) {
		return session.Session{}, err
	}
	if terr != nil {
		return session.Session{}, terr
	}
	return m.FromToken(token)
}

// RequireSession 은 세션이 없는 요청을 로그인 화면으로 돌려보낸다.
// 로그인 후 돌아올 수 있도록 원래 경로를 next 쿼리로 넘긴다.
// JSON 을 원하는 클라이언트에는 리다이렉트 대신 401 을 준다.
func RequireSession(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := SessionFrom(c); ok {
			c.Next()
			return
		}
		s, err := loadSession(m, c)
		if err != nil {
			logger.DebugWithFields("session required", logger.Fields{
				"path":       c.Request.URL.Path,
				"request_id": trace.RequestIDFromContext(c.Request.Context()),
				"error":      err.Error(),
			})
			if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
				auth.AbortWithUnauthorized(c, err)
				return
			}
			c.Redirect(http.StatusSeeOther, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Set(sessionContextKey, s)
		c.Next()
	}
}

// SessionFrom 은 LoadSession/RequireSession 이 저장한 세션을 꺼낸다.
func SessionFrom(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return session.Session{}, false
	}
	s, ok := v.(session.Session)
	return s, ok
}

// SessionToken 은 세션이 있으면 토큰을, 없으면 빈 문자열을 반환한다.
func SessionToken(c *gin.Context) string {
	s, _ := SessionFrom(c)
	return s.Token
}
