package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/dto"
	"hey-sainty/cmd/web/listing"
	"hey-sainty/cmd/web/middleware"
	"hey-sainty/cmd/web/trace"
)

// page 는 모든 HTML 템플릿이 공통으로 받는 데이터이다.
// header 템플릿은 SignedIn/UserName 으로 내비게이션을 그린다.
type page struct {
	Title    string
	SignedIn bool
	UserName string
	Data     any
}

func render(c *gin.Context, status int, name, title string, data any) {
	s, ok := middleware.SessionFrom(c)
	c.HTML(status, name, page{
		Title:    title,
		SignedIn: ok,
		UserName: s.UserName,
		Data:     data,
	})
}

// renderError 는 HTML 요청에는 에러 페이지를, JSON 요청에는 ErrorResponseDTO 를 내려준다.
func renderError(c *gin.Context, status int, code, message string) {
	switch c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) {
	case gin.MIMEJSON:
		c.JSON(status, dto.ErrorResponseDTO{Error: code})
	default:
		render(c, status, "error.html", http.StatusText(status), message)
	}
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

const msgInvalidForm = "The form could not be read. Please try again."

// bindError 는 폼 바인딩 실패이다. 서비스를 호출하지 않고 400 으로 응답한다.
type bindError struct{ err error }

func (e *bindError) Error() string { return "bind form: " + e.err.Error() }
func (e *bindError) Unwrap() error { return e.err }

// bindForm 은 요청 폼을 form 에 채운다. 실패하면 *bindError 를 반환한다.
func bindForm(c *gin.Context, form any) error {
	if err := c.ShouldBind(form); err != nil {
		logger.WarnWithFields("bind form failed", logFields(c, logger.Fields{"error": err.Error()}))
		return &bindError{err: err}
	}
	return nil
}

func logFields(c *gin.Context, fields logger.Fields) logger.Fields {
	for k, v := range trace.Fields(c.Request.Context()) {
		fields[k] = v
	}
	if id := c.Param("id"); id != "" {
		fields["view_id"] = id
	}
	fields["path"] = c.Request.URL.Path
	return fields
}

// Pinger 는 헬스 체크에서 원격 API 가 살아 있는지 확인한다.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler 는 원격 API 상태와 열려 있는 목록 뷰 수를 보고한다.
func HealthHandler(api Pinger, reg *listing.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := api.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":        "degraded",
				"collaborator":  "down",
				"error":         err.Error(),
				"listing_views": reg.Len(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "listing_views": reg.Len()})
	}
}
