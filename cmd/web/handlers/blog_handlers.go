package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/dto"
	"hey-sainty/cmd/web/listing"
	"hey-sainty/cmd/web/middleware"
	"hey-sainty/cmd/web/services"
	"hey-sainty/cmd/web/trace"
)

const (
	noticeNoMore  = "No more blogs to load"
	noticeLoading = "Still loading, please wait"
)

// HomeHandler 는 설정된 태그마다 카테고리 캐러셀을 그린다.
// 글이 부족하거나 조회에 실패한 태그는 숨겨진다.
func HomeHandler(blogSvc *services.BlogService, tags []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sections, err := blogSvc.CategorySections(c.Request.Context(), tags, middleware.SessionToken(c))
		if err != nil {
			// 클라이언트가 연결을 끊은 경우뿐이다.
			logger.WarnWithFields("home aborted", logFields(c, logger.Fields{"error": err.Error()}))
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		if wantsJSON(c) {
			c.JSON(http.StatusOK, sections)
			return
		}
		render(c, http.StatusOK, "home.html", "", sections)
	}
}

// ListBlogsHandler 는 전체 글 목록 뷰를 새로 열고 첫 페이지를 그린다.
func ListBlogsHandler(reg *listing.Registry, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		openListing(c, reg, pageSize, strings.TrimSpace(c.Query("tag")))
	}
}

// TagBlogsHandler 는 /blog/tag/:tag 로 태그가 고정된 목록 뷰를 연다.
func TagBlogsHandler(reg *listing.Registry, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		openListing(c, reg, pageSize, strings.TrimSpace(c.Param("tag")))
	}
}

func openListing(c *gin.Context, reg *listing.Registry, pageSize int, tag string) {
	id, state, err := reg.Open(listingContext(c), tag)
	if err != nil {
		logger.ErrorWithFields("open listing failed", logFields(c, logger.Fields{
			"view_id": id,
			"tag":     tag,
			"error":   err.Error(),
		}))
	}
	out := services.MapListing(id, pageSize, state)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, out)
		return
	}
	title := "Blogs"
	if tag != "" {
		title = tag
	}
	render(c, http.StatusOK, "blogs.html", title, out)
}

// LoadMoreHandler 는 뷰의 다음 페이지를 불러온다.
// HTML 요청에는 목록 조각(listing.html)을, JSON 요청에는 ListingDTO 를 반환한다.
func LoadMoreHandler(reg *listing.Registry, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		state, err := reg.LoadMore(listingContext(c), id)
		respondListingStep(c, id, pageSize, state, err)
	}
}

// SetTagHandler 는 열린 뷰의 태그 필터를 바꾼다. 목록과 페이지는 처음부터 다시 시작한다.
func SetTagHandler(reg *listing.Registry, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		state, err := reg.SetParam(listingContext(c), id, strings.TrimSpace(c.PostForm("tag")))
		respondListingStep(c, id, pageSize, state, err)
	}
}

// CloseViewHandler 는 페이지를 떠날 때 뷰를 닫는다.
func CloseViewHandler(reg *listing.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !reg.Close(c.Param("id")) {
			c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "view_not_found"})
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "view closed"})
	}
}

func respondListingStep(c *gin.Context, id string, pageSize int, state listing.State, err error) {
	var notice string
	switch {
	case errors.Is(err, listing.ErrViewNotFound), errors.Is(err, listing.ErrClosed):
		renderError(c, http.StatusNotFound, "view_not_found", "This page has expired. Reload to see the latest posts.")
		return
	case errors.Is(err, listing.ErrNoMoreItems):
		notice = noticeNoMore
	case errors.Is(err, listing.ErrLoadInProgress):
		notice = noticeLoading
	case errors.Is(err, listing.ErrSuperseded):
	case err != nil:
		logger.ErrorWithFields("listing fetch failed", logFields(c, logger.Fields{
			"view_id": id,
			"page":    state.Page + 1,
			"error":   err.Error(),
		}))
	}

	out := services.MapListing(id, pageSize, state)
	out.Notice = notice
	if wantsJSON(c) {
		c.JSON(http.StatusOK, out)
		return
	}
	c.HTML(http.StatusOK, "listing.html", out)
}

// listingContext 는 세션 토큰과 뷰 id 를 실은 컨텍스트를 만든다.
// 목록 조회에 authtoken 헤더가 붙고, 원격 호출 로그에 view_id 가 남는다.
func listingContext(c *gin.Context) context.Context {
	ctx := trace.WithView(c.Request.Context(), c.Param("id"))
	return services.WithAuthToken(ctx, middleware.SessionToken(c))
}

// GetPostHandler 는 단일 글 페이지를 그린다.
func GetPostHandler(blogSvc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := blogSvc.GetByPermalink(c.Request.Context(), c.Param("permalink"), middleware.SessionToken(c))
		if err != nil {
			if errors.Is(err, services.ErrPostNotFound) {
				renderError(c, http.StatusNotFound, "post_not_found", "This post does not exist.")
				return
			}
			logger.ErrorWithFields("get post failed", logFields(c, logger.Fields{"error": err.Error()}))
			renderError(c, http.StatusBadGateway, "failed_to_load_post", "Could not load this post. Please try again.")
			return
		}
		if wantsJSON(c) {
			c.JSON(http.StatusOK, post)
			return
		}
		render(c, http.StatusOK, "post.html", post.Title, post)
	}
}
