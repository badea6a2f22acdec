package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/middleware"
	"hey-sainty/cmd/web/profile"
	"hey-sainty/cmd/web/services"
	"hey-sainty/cmd/web/session"
)

const msgAuthFailed = "Something went wrong. Please try again."

type loginView struct {
	Email  string
	Next   string
	Errors []string
}

type signupView struct {
	Name   string
	Email  string
	Errors []string
}

// LoginPageHandler 는 로그인 폼을 그린다. 이미 로그인했다면 next 로 보낸다.
func LoginPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		next := profile.SafeNext(c.Query("next"))
		if _, ok := middleware.SessionFrom(c); ok {
			c.Redirect(http.StatusSeeOther, next)
			return
		}
		render(c, http.StatusOK, "login.html", "Login", loginView{Next: next})
	}
}

// LoginHandler 는 원격 API 로 자격 증명을 확인하고 세션을 시작한다.
func LoginHandler(authSvc *services.AuthService, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form profile.LoginForm
		berr := bindForm(c, &form)
		next := profile.SafeNext(form.Next)
		view := loginView{Email: form.Email, Next: next}

		token, name, err := "", "", berr
		if err == nil {
			token, name, err = authSvc.Login(c.Request.Context(), form)
		}
		if err != nil {
			status, msgs := authFailure(c, err, profile.MsgBadCredentials)
			view.Errors = msgs
			render(c, status, "login.html", "Login", view)
			return
		}

		if _, err := sessions.Begin(c.Writer, c.Request, token, name); err != nil {
			logger.ErrorWithFields("begin session failed", logFields(c, logger.Fields{"error": err.Error()}))
			view.Errors = []string{msgAuthFailed}
			render(c, http.StatusInternalServerError, "login.html", "Login", view)
			return
		}
		logger.InfoWithFields("user logged in", logFields(c, logger.Fields{"next": next}))
		c.Redirect(http.StatusSeeOther, next)
	}
}

// SignupPageHandler 는 회원가입 폼을 그린다.
func SignupPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, "signup.html", "Sign up", signupView{})
	}
}

// SignupHandler 는 계정을 만들고 곧바로 세션을 시작한다.
func SignupHandler(authSvc *services.AuthService, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form profile.SignupForm
		berr := bindForm(c, &form)
		view := signupView{Name: form.Name, Email: form.Email}

		token, name, err := "", "", berr
		if err == nil {
			token, name, err = authSvc.Signup(c.Request.Context(), form)
		}
		if err != nil {
			status, msgs := authFailure(c, err, profile.MsgEmailTaken)
			view.Errors = msgs
			render(c, status, "signup.html", "Sign up", view)
			return
		}

		if _, err := sessions.Begin(c.Writer, c.Request, token, name); err != nil {
			logger.ErrorWithFields("begin session failed", logFields(c, logger.Fields{"error": err.Error()}))
			view.Errors = []string{msgAuthFailed}
			render(c, http.StatusInternalServerError, "signup.html", "Sign up", view)
			return
		}
		logger.InfoWithFields("user signed up", logFields(c, logger.Fields{}))
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// LogoutHandler 는 세션 쿠키를 지우고 홈으로 보낸다.
func LogoutHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.End(c.Writer, c.Request); err != nil {
			logger.WarnWithFields("end session failed", logFields(c, logger.Fields{"error": err.Error()}))
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// authFailure 는 로그인/회원가입 실패를 상태 코드와 인라인 메시지로 바꾼다.
func authFailure(c *gin.Context, err error, rejected string) (int, []string) {
	var (
		ferr *profile.FormError
		berr *bindError
	)
	switch {
	case errors.As(err, &berr):
		return http.StatusBadRequest, []string{msgInvalidForm}
	case errors.As(err, &ferr):
		return http.StatusUnprocessableEntity, ferr.Messages
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, []string{rejected}
	default:
		logger.ErrorWithFields("auth request failed", logFields(c, logger.Fields{"error": err.Error()}))
		return http.StatusBadGateway, []string{msgAuthFailed}
	}
}
