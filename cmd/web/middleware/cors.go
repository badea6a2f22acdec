package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS 는 allowedOrigins 에 대해서만 교차 출처 요청을 허용한다.
// 목록 JSON(load more, 뷰 닫기)을 다른 origin 의 프론트에서 호출할 때 쓰인다.
// 목록이 비어 있으면 아무 헤더도 붙이지 않는다.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	h := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders:   []string{"Accept", "Content-Type", headerRequestID},
		ExposedHeaders:   []string{headerRequestID, headerSpanID},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return func(c *gin.Context) {
		h.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			// preflight 응답은 rs/cors 가 이미 썼다.
			c.Abort()
			return
		}
		c.Next()
	}
}
