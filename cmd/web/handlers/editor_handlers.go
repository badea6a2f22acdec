package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/editor"
	"hey-sainty/cmd/web/middleware"
	"hey-sainty/cmd/web/services"
	"hey-sainty/cmd/web/session"
)

const msgSaveFailed = "Could not save the post. Please try again."

type editorView struct {
	Form   editor.Form
	Errors []string
}

// EditorHandler 는 새 글 작성 폼을, ?edit=<permalink> 가 있으면 기존 글 수정 폼을 그린다.
// RequireSession 뒤에 등록된다.
func EditorHandler(blogSvc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		permalink := c.Query("edit")
		if permalink == "" {
			render(c, http.StatusOK, "editor.html", "New post", editorView{})
			return
		}

		form, err := blogSvc.EditForm(c.Request.Context(), permalink, middleware.SessionToken(c))
		if err != nil {
			if errors.Is(err, services.ErrPostNotFound) {
				renderError(c, http.StatusNotFound, "post_not_found", "This post does not exist.")
				return
			}
			logger.ErrorWithFields("load post for editing failed", logFields(c, logger.Fields{
				"permalink": permalink,
				"error":     err.Error(),
			}))
			renderError(c, http.StatusBadGateway, "failed_to_load_post", "Could not load this post. Please try again.")
			return
		}
		render(c, http.StatusOK, "editor.html", "Edit post", editorView{Form: form})
	}
}

// SaveBlogHandler 는 에디터 폼을 검증해 글을 만들거나 수정하고 글 페이지로 이동한다.
func SaveBlogHandler(blogSvc *services.BlogService, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form editor.Form
		if err := bindForm(c, &form); err != nil {
			render(c, http.StatusBadRequest, "editor.html", "New post", editorView{Form: form, Errors: []string{msgInvalidForm}})
			return
		}

		postURL, err := blogSvc.Save(c.Request.Context(), middleware.SessionToken(c), form)
		var verr *editor.ValidationError
		switch {
		case err == nil:
			logger.InfoWithFields("post saved", logFields(c, logger.Fields{"post_url": postURL, "update": form.IsUpdate()}))
			c.Redirect(http.StatusSeeOther, postURL)
		case errors.As(err, &verr):
			render(c, http.StatusUnprocessableEntity, "editor.html", "New post", editorView{Form: form, Errors: verr.Messages})
		case errors.Is(err, services.ErrSessionRejected):
			next := "/editor"
			if form.IsUpdate() && form.Permalink != "" {
				next += "?edit=" + url.QueryEscape(form.Permalink)
			}
			endRejectedSession(c, sessions, next)
		case errors.Is(err, services.ErrPostNotFound):
			renderError(c, http.StatusNotFound, "post_not_found", "This post does not exist.")
		default:
			logger.ErrorWithFields("save post failed", logFields(c, logger.Fields{"error": err.Error()}))
			render(c, http.StatusBadGateway, "editor.html", "New post", editorView{Form: form, Errors: []string{msgSaveFailed}})
		}
	}
}
