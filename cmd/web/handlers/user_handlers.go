package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/dto"
	"hey-sainty/cmd/web/middleware"
	"hey-sainty/cmd/web/profile"
	"hey-sainty/cmd/web/services"
	"hey-sainty/cmd/web/session"
)

const (
	msgSaved        = "Saved"
	msgUpdateFailed = "Could not save your changes. Please try again."
)

type profileView struct {
	Tab    profile.Tab
	Nav    []profile.NavItem
	User   dto.UserProfileDTO
	Errors []string
	Notice string
}

// ProfileHandler 는 ?tab= 으로 고른 프로필 탭을 그린다. 알 수 없는 탭은 My Profile 이다.
// 현재 사용자를 불러오지 못하면 세션을 지우고 홈으로 보낸다.
func ProfileHandler(userSvc *services.UserService, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tab := profile.TabFor(c.Query("tab"))
		user, ok := currentUser(c, userSvc, sessions)
		if !ok {
			return
		}
		view := profileView{Tab: tab, Nav: profile.Nav(tab), User: user}
		if c.Query("saved") != "" {
			view.Notice = msgSaved
		}
		render(c, http.StatusOK, "profile.html", tab.Title, view)
	}
}

// UpdateProfileHandler 는 /profile/:tab 으로 들어온 탭별 폼을 처리한다.
// 성공하면 같은 탭으로 돌아가고, 검증 실패는 폼과 함께 인라인 메시지로 보여준다.
func UpdateProfileHandler(userSvc *services.UserService, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tab := profile.TabFor(c.Param("tab"))
		token := middleware.SessionToken(c)
		ctx := c.Request.Context()

		var err error
		switch tab.Slug {
		case "edit-profile":
			var form profile.EditProfileForm
			if err = bindForm(c, &form); err != nil {
				break
			}
			var updated dto.UserProfileDTO
			if updated, err = userSvc.UpdateProfile(ctx, token, form); err == nil && updated.Name != "" {
				refreshSessionName(c, sessions, updated.Name)
			}
		case "change-password":
			var form profile.ChangePasswordForm
			if err = bindForm(c, &form); err == nil {
				err = userSvc.ChangePassword(ctx, token, form)
			}
		case "notifications":
			var form profile.NotificationForm
			if err = bindForm(c, &form); err == nil {
				err = userSvc.UpdateNotifications(ctx, token, form)
			}
		case "account":
			var form profile.DeleteAccountForm
			if err = bindForm(c, &form); err != nil {
				break
			}
			if err = userSvc.DeleteAccount(ctx, token, form); err == nil {
				logger.InfoWithFields("account deleted", logFields(c, logger.Fields{}))
				_ = sessions.End(c.Writer, c.Request)
				c.Redirect(http.StatusSeeOther, "/")
				return
			}
		default:
			c.Redirect(http.StatusSeeOther, "/profile")
			return
		}

		if err == nil {
			c.Redirect(http.StatusSeeOther, "/profile?tab="+tab.Slug+"&saved=1")
			return
		}
		if errors.Is(err, services.ErrSessionRejected) {
			endRejectedSession(c, sessions, "/profile?tab="+tab.Slug)
			return
		}

		status, msgs := profileFailure(c, err)
		user, ok := currentUser(c, userSvc, sessions)
		if !ok {
			return
		}
		render(c, status, "profile.html", tab.Title, profileView{Tab: tab, Nav: profile.Nav(tab), User: user, Errors: msgs})
	}
}

func currentUser(c *gin.Context, userSvc *services.UserService, sessions *session.Manager) (dto.UserProfileDTO, bool) {
	user, err := userSvc.Current(c.Request.Context(), middleware.SessionToken(c))
	switch {
	case err == nil:
		return user, true
	case errors.Is(err, services.ErrSessionRejected), errors.Is(err, services.ErrUserNotFound):
		logger.InfoWithFields("profile without user", logFields(c, logger.Fields{"error": err.Error()}))
		_ = sessions.End(c.Writer, c.Request)
		c.Redirect(http.StatusSeeOther, "/")
	default:
		logger.ErrorWithFields("load profile failed", logFields(c, logger.Fields{"error": err.Error()}))
		renderError(c, http.StatusBadGateway, "failed_to_load_profile", "Could not load your profile. Please try again.")
	}
	return dto.UserProfileDTO{}, false
}

func profileFailure(c *gin.Context, err error) (int, []string) {
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
		return http.StatusUnprocessableEntity, []string{profile.MsgWrongPassword}
	default:
		logger.ErrorWithFields("profile update failed", logFields(c, logger.Fields{"error": err.Error()}))
		return http.StatusBadGateway, []string{msgUpdateFailed}
	}
}

// refreshSessionName 은 이름이 바뀌면 내비게이션에 보이는 이름도 갱신한다.
func refreshSessionName(c *gin.Context, sessions *session.Manager, name string) {
	s, ok := middleware.SessionFrom(c)
	if !ok || s.UserName == name {
		return
	}
	if _, err := sessions.Begin(c.Writer, c.Request, s.Token, name); err != nil {
		logger.WarnWithFields("refresh session failed", logFields(c, logger.Fields{"error": err.Error()}))
	}
}
