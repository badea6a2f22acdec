package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/trace"
)

const (
	headerRequestID = "X-Request-Id"
	headerSpanID    = "X-Span-Id"

	maxBodyLog = 1024
)

// 비밀번호가 폼 바디에 실리는 경로. 바디를 로그에 남기지 않는다.
var sensitivePrefixes = []string{"/login", "/signup", "/profile"}

// RequestTrace 는 모든 inbound 요청에 Request ID 와 Span ID 를 부여하고,
// 원격 API 호출(httpclient)이 같은 ID 를 이어받도록 컨텍스트에 저장한 뒤
// 응답이 끝나면 한 줄 요약 로그를 남긴다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		requestID := req.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}

		// inbound 로그는 span_id=0, 원격 API 호출은 1,2,3,... 로 증가
		ctxWithTrace := trace.WithRequestAndSpan(req.Context(), requestID, 0)
		c.Request = req.WithContext(ctxWithTrace)
		req = c.Request

		currentSpan := trace.CurrentSpanID(ctxWithTrace)
		c.Writer.Header().Set(headerRequestID, requestID)
		c.Writer.Header().Set(headerSpanID, currentSpan)

		var bodySnippet string
		if hasLoggableBody(req) {
			if bodyBytes, err := io.ReadAll(req.Body); err == nil {
				bodySnippet = string(bodyBytes[:min(len(bodyBytes), maxBodyLog)])
				// 핸들러에서 다시 읽을 수 있도록 Body 를 복원한다.
				c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			}
		}

		c.Next()

		fields := logger.Fields{
			"method":     req.Method,
			"path":       req.URL.Path,
			"query":      req.URL.RawQuery,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": requestID,
			"span_id":    currentSpan,
			// 이 요청 동안 나간 원격 API 호출 수
			"upstream_calls": trace.CurrentSpanID(c.Request.Context()),
		}
		if bodySnippet != "" {
			fields["body"] = bodySnippet
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.InfoWithFields("completed request", fields)
	}
}

func hasLoggableBody(req *http.Request) bool {
	if req.Body == nil || req.ContentLength == 0 {
		return false
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return false
	}
	for _, p := range sensitivePrefixes {
		if strings.HasPrefix(req.URL.Path, p) {
			return false
		}
	}
	return true
}
