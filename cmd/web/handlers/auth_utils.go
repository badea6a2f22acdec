package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/middleware"
	"hey-sainty/cmd/web/session"
)

// endRejectedSession 은 원격 API 가 세션 토큰을 거부했을 때 호출한다.
// 쿠키 세션을 지우고 로그인 화면으로 보내며, 로그인 후 next 경로로 돌아온다.
func endRejectedSession(c *gin.Context, sessions *session.Manager, next string) {
	logger.InfoWithFields("session rejected by collaborator", logFields(c, logger.Fields{}))
	if err := sessions.End(c.Writer, c.Request); err != nil {
		logger.WarnWithFields("end session failed", logFields(c, logger.Fields{"error": err.Error()}))
	}
	redirectToLogin(c, next)
}

func redirectToLogin(c *gin.Context, next string) {
	target := middleware.LoginPath
	if next != "" {
		target += "?next=" + url.QueryEscape(next)
	}
	c.Redirect(http.StatusSeeOther, target)
	c.Abort()
}
