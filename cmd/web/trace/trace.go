package trace

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// 요청 단위 추적 정보.
// inbound 요청마다 request id 를 하나 붙이고, 그 요청에서 나가는 원격 API 호출에는
// 1 부터 증가하는 span 번호를 매긴다. 목록 뷰 요청은 view id 도 함께 싣는다.

type requestKey struct{}

type viewKey struct{}

type request struct {
	id   string
	span atomic.Int64
}

func requestFrom(ctx context.Context) *request {
	if ctx == nil {
		return nil
	}
	r, _ := ctx.Value(requestKey{}).(*request)
	return r
}

// GenerateID 는 하이픈 없는 UUIDv4 문자열을 만든다.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithRequestAndSpan 은 request id 와 span 시작값(보통 0)을 담은 컨텍스트를 반환한다.
func WithRequestAndSpan(ctx context.Context, requestID string, initialSpan int64) context.Context {
	r := &request{id: requestID}
	r.span.Store(initialSpan)
	return context.WithValue(ctx, requestKey{}, r)
}

// RequestIDFromContext 는 request id 를, 없으면 빈 문자열을 반환한다.
func RequestIDFromContext(ctx context.Context) string {
	if r := requestFrom(ctx); r != nil {
		return r.id
	}
	return ""
}

// CurrentSpanID 는 지금까지 매긴 마지막 span 번호이다. 증가시키지 않는다.
func CurrentSpanID(ctx context.Context) string {
	r := requestFrom(ctx)
	if r == nil {
		return "0"
	}
	return strconv.FormatInt(max(r.span.Load(), 0), 10)
}

// NextSpanID 는 span 번호를 하나 올리고 (request id, span id) 를 반환한다.
// 미들웨어를 거치지 않은 컨텍스트면 둘 다 빈 문자열이다.
func NextSpanID(ctx context.Context) (string, string) {
	r := requestFrom(ctx)
	if r == nil {
		return "", ""
	}
	return r.id, strconv.FormatInt(max(r.span.Add(1), 1), 10)
}

// WithView 는 목록 뷰 id 를 컨텍스트에 싣는다.
func WithView(ctx context.Context, viewID string) context.Context {
	if viewID == "" {
		return ctx
	}
	return context.WithValue(ctx, viewKey{}, viewID)
}

// ViewIDFromContext 는 목록 뷰 id 를, 없으면 빈 문자열을 반환한다.
func ViewIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(viewKey{}).(string)
	return v
}

// Fields 는 로그에 붙일 request_id, view_id 를 돌려준다. 값이 없는 키는 빠진다.
func Fields(ctx context.Context) map[string]any {
	out := map[string]any{}
	if id := RequestIDFromContext(ctx); id != "" {
		out["request_id"] = id
	}
	if id := ViewIDFromContext(ctx); id != "" {
		out["view_id"] = id
	}
	return out
}
