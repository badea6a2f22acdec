package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/clients/blogclient"
	"hey-sainty/cmd/web/dto"
	"hey-sainty/cmd/web/editor"
	"hey-sainty/cmd/web/listing"
	"hey-sainty/cmd/web/trace"
)

// BlogService 는 블로그 글 조회/저장과 DTO 매핑을 담당한다.
//
// - client: 원격 블로그 API 를 호출해 목록/단건/저장을 수행한다.
// - listing 패키지의 Fetcher 로도 쓰여 페이지 단위 조회를 제공한다.
type BlogService struct {
	client   *blogclient.Client
	pageSize int
	minPosts int
}

type BlogServiceOptions struct {
	PageSize int
	// MinPosts 는 카테고리 캐러셀을 보여주기 위한 최소 글 수이다.
	MinPosts int
}

func NewBlogService(client *blogclient.Client, opts BlogServiceOptions) *BlogService {
	if opts.PageSize <= 0 {
		opts.PageSize = 6
	}
	if opts.MinPosts <= 0 {
		opts.MinPosts = 2
	}
	return &BlogService{client: client, pageSize: opts.PageSize, minPosts: opts.MinPosts}
}

func (s *BlogService) PageSize() int {
	return s.pageSize
}

type tokenKey struct{}

// WithAuthToken 은 원격 API 호출에 실을 세션 토큰을 컨텍스트에 담는다.
// listing.Fetcher 인터페이스에는 토큰 인자가 없으므로 컨텍스트로 전달한다.
func WithAuthToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func authTokenFrom(ctx context.Context) string {
	v, _ := ctx.Value(tokenKey{}).(string)
	return v
}

// FetchPage 는 listing.Fetcher 구현이다. param 은 태그 필터이며 비어 있으면 전체 글이다.
//
// 원격 API 가 tag 쿼리를 무시할 수 있으므로 태그 목록은 전체 글을 받아 태그로 거른 뒤
// pageSize 단위로 잘라 돌려준다. 이때 전체 개수 힌트는 걸러진 글 수이다.
func (s *BlogService) FetchPage(ctx context.Context, param string, page int) (listing.Page, error) {
	if param == "" {
		resp, err := s.client.ListBlogs(ctx, blogclient.ListBlogsParams{
			Page:  page,
			Limit: s.pageSize,
			Token: authTokenFrom(ctx),
		})
		if err != nil {
			return listing.Page{}, err
		}
		return listing.Page{Posts: resp.BlogPosts, Total: resp.Total()}, nil
	}

	resp, err := s.client.ListBlogs(ctx, blogclient.ListBlogsParams{
		Tag:   param,
		Token: authTokenFrom(ctx),
	})
	if err != nil {
		return listing.Page{}, err
	}
	matched := filterByTag(resp.BlogPosts, param)
	start := min(max(page-1, 0)*s.pageSize, len(matched))
	end := min(start+s.pageSize, len(matched))
	return listing.Page{Posts: matched[start:end], Total: len(matched)}, nil
}

// GetByPermalink 는 글 페이지에 보여줄 글 하나를 불러온다.
func (s *BlogService) GetByPermalink(ctx context.Context, permalink, token string) (dto.PostDetailDTO, error) {
	p, err := s.client.GetBlog(ctx, permalink, token)
	if err != nil {
		if errors.Is(err, blogclient.ErrNotFound) {
			return dto.PostDetailDTO{}, ErrPostNotFound
		}
		return dto.PostDetailDTO{}, err
	}
	return mapDetail(p), nil
}

// CategorySection 은 전체 글을 받아 tag 가 붙은 글만 남긴다.
// 일치하는 글이 MinPosts 개 이상일 때만 섹션을 보여준다.
func (s *BlogService) CategorySection(ctx context.Context, tag, token string) (dto.CategorySectionDTO, error) {
	section := dto.CategorySectionDTO{Tag: tag, URL: TagURL(tag)}
	resp, err := s.client.ListBlogs(ctx, blogclient.ListBlogsParams{Tag: tag, Token: token})
	if err != nil {
		return section, fmt.Errorf("category %q: %w", tag, err)
	}

	matched := filterByTag(resp.BlogPosts, tag)
	section.Posts = make([]dto.PostCardDTO, 0, len(matched))
	for _, p := range matched {
		section.Posts = append(section.Posts, mapCard(p, CarouselSummaryRunes))
	}
	section.Visible = len(section.Posts) >= s.minPosts
	return section, nil
}

// CategorySections 는 여러 캐러셀 행을 동시에 불러오고 tags 순서대로 돌려준다.
// 조회에 실패한 행은 로그를 남기고 숨김 상태로 돌려준다.
func (s *BlogService) CategorySections(ctx context.Context, tags []string, token string) ([]dto.CategorySectionDTO, error) {
	out := make([]dto.CategorySectionDTO, len(tags))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, tag := range tags {
		g.Go(func() error {
			section, err := s.CategorySection(gctx, tag, token)
			if err != nil {
				logger.WarnWithFields("category section failed", logger.Fields{
					"tag":        tag,
					"request_id": trace.RequestIDFromContext(ctx),
					"error":      err.Error(),
				})
				section.Visible = false
			}
			out[i] = section
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save 는 폼에 id 가 있으면 글을 수정하고, 없으면 새로 만든다.
// 저장된 글의 페이지 URL 을 반환한다.
func (s *BlogService) Save(ctx context.Context, token string, form editor.Form) (string, error) {
	req, err := form.Build()
	if err != nil {
		return "", err
	}

	var saved blogclient.Post
	if form.IsUpdate() {
		saved, err = s.client.UpdateBlog(ctx, token, strings.TrimSpace(form.ID), req)
	} else {
		saved, err = s.client.CreateBlog(ctx, token, req)
	}
	switch {
	case errors.Is(err, blogclient.ErrUnauthorized):
		return "", ErrSessionRejected
	case errors.Is(err, blogclient.ErrNotFound):
		return "", ErrPostNotFound
	case err != nil:
		return "", err
	}

	permalink := saved.Permalink
	if permalink == "" {
		permalink = req.Permalink
	}
	return PostURL(permalink), nil
}

// EditForm 은 기존 글을 에디터 폼으로 불러온다.
func (s *BlogService) EditForm(ctx context.Context, permalink, token string) (editor.Form, error) {
	p, err := s.client.GetBlog(ctx, permalink, token)
	if err != nil {
		if errors.Is(err, blogclient.ErrNotFound) {
			return editor.Form{}, ErrPostNotFound
		}
		return editor.Form{}, err
	}
	return editor.Form{
		ID:         p.ID,
		Title:      p.Title,
		Permalink:  p.Permalink,
		Summary:    p.Summary,
		Content:    p.Content,
		Tags:       strings.Join(p.Tags, ", "),
		CoverImage: p.CoverImage,
	}, nil
}

func filterByTag(posts []blogclient.Post, tag string) []blogclient.Post {
	out := make([]blogclient.Post, 0, len(posts))
	for _, p := range posts {
		if slices.ContainsFunc(p.Tags, func(t string) bool { return strings.EqualFold(t, tag) }) {
			out = append(out, p)
		}
	}
	return out
}
