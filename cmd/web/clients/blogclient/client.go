package blogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"hey-sainty/cmd/web/httpclient"
)

// Client는 블로그 REST API(원격 collaborator)를 호출하는 얇은 클라이언트다.
//
// - 화면 상태나 세션은 전혀 알지 않고, 호출자가 넘겨준 토큰만 authtoken 헤더로 싣는다.
// - 웹 프론트(Go cmd/web)의 서비스 계층에서 이 클라이언트를 사용해 DTO를 조합한다.
//
// baseURL 예: https://hey-sainty-backend.vercel.app
type Client struct {
	base *httpclient.BaseClient
}

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotImage     = errors.New("upstream content is not an image")
)

// MaxCoverBytes 는 커버 이미지 프록시가 읽어 들이는 최대 바이트 수이다.
const MaxCoverBytes = 5 << 20

func New(base *httpclient.BaseClient) *Client {
	return &Client{base: base}
}

// -------------------- Blogs --------------------

// Post 는 원격 API 가 내려주는 블로그 글 한 건이다.
type Post struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Permalink   string    `json:"permalink"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content,omitempty"`
	Author      string    `json:"author"`
	DateCreated time.Time `json:"dateCreated"`
	LastUpdated time.Time `json:"lastUpdated"`
	Views       int       `json:"views"`
	CoverImage  string    `json:"coverimage"`
	Tags        []string  `json:"tag"`
}

type ListBlogsParams struct {
	// Page 가 0 이하이면 page/limit 쿼리를 보내지 않고 전체 목록을 요청한다.
	Page  int
	Limit int
	Tag   string
	Token string
}

type ListBlogsResponse struct {
	BlogPosts []Post `json:"blogPosts"`
	TotalBlog int    `json:"totalBlog"`
}

// Total 은 전체 개수 힌트를 반환한다.
// 응답에 totalBlog 가 없으면 이번 응답의 글 수를 힌트로 사용한다.
func (r ListBlogsResponse) Total() int {
	if r.TotalBlog > 0 {
		return r.TotalBlog
	}
	return len(r.BlogPosts)
}

// ListBlogs 는 GET /blog/blogs 를 호출한다.
func (c *Client) ListBlogs(ctx context.Context, params ListBlogsParams) (ListBlogsResponse, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
		if params.Limit > 0 {
			q.Set("limit", strconv.Itoa(params.Limit))
		}
	}
	if params.Tag != "" {
		q.Set("tag", params.Tag)
	}
	req, err := c.base.NewRequest(ctx, http.MethodGet, "/blog/blogs", q, nil)
	if err != nil {
		return ListBlogsResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	httpclient.SetAuthToken(req, params.Token)

	resp, err := c.base.Do(req)
	if err != nil {
		return ListBlogsResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ListBlogsResponse{}, httpclient.StatusError("blog-api ListBlogs", resp)
	}

	var out ListBlogsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ListBlogsResponse{}, err
	}
	return out, nil
}

// Ping 은 헬스 체크용으로 첫 페이지 한 건만 조회한다.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListBlogs(ctx, ListBlogsParams{Page: 1, Limit: 1})
	return err
}

// GetBlog 는 permalink 로 단일 글을 조회한다.
// 존재하지 않으면 ErrNotFound 를 반환한다.
func (c *Client) GetBlog(ctx context.Context, permalink, token string) (Post, error) {
	relPath := path.Join("/blog/getblog", permalink)
	req, err := c.base.NewRequest(ctx, http.MethodGet, relPath, nil, nil)
	if err != nil {
		return Post{}, err
	}
	httpclient.SetAuthToken(req, token)

	resp, err := c.base.Do(req)
	if err != nil {
		return Post{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out Post
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return Post{}, err
		}
		return out, nil
	case http.StatusNotFound:
		return Post{}, ErrNotFound
	default:
		return Post{}, httpclient.StatusError("blog-api GetBlog", resp)
	}
}

// -------------------- Editor --------------------

type SaveBlogRequest struct {
	Title      string   `json:"title"`
	Permalink  string   `json:"permalink"`
	Summary    string   `json:"summary"`
	Content    string   `json:"content"`
	Tags       []string `json:"tag"`
	CoverImage string   `json:"coverimage,omitempty"`
}

// CreateBlog 는 POST /blog/addblog 를 호출해 새 글을 저장한다.
func (c *Client) CreateBlog(ctx context.Context, token string, in SaveBlogRequest) (Post, error) {
	return c.saveBlog(ctx, http.MethodPost, "/blog/addblog", token, in, "blog-api CreateBlog")
}

// UpdateBlog 는 PUT /blog/updateblog/{id} 를 호출해 기존 글을 수정한다.
func (c *Client) UpdateBlog(ctx context.Context, token, id string, in SaveBlogRequest) (Post, error) {
	return c.saveBlog(ctx, http.MethodPut, path.Join("/blog/updateblog", id), token, in, "blog-api UpdateBlog")
}

func (c *Client) saveBlog(ctx context.Context, method, relPath, token string, in SaveBlogRequest, op string) (Post, error) {
	buf, err := json.Marshal(in)
	if err != nil {
		return Post{}, err
	}

	req, err := c.base.NewRequest(ctx, method, relPath, nil, bytes.NewReader(buf))
	if err != nil {
		return Post{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	httpclient.SetAuthToken(req, token)

	resp, err := c.base.Do(req)
	if err != nil {
		return Post{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var out Post
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return Post{}, err
		}
		return out, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return Post{}, ErrUnauthorized
	case http.StatusNotFound:
		return Post{}, ErrNotFound
	default:
		return Post{}, httpclient.StatusError(op, resp)
	}
}

// -------------------- Media --------------------

// Cover 는 커버 이미지 바이트와 Content-Type 이다.
type Cover struct {
	Data        []byte
	ContentType string
}

// GetCover 는 /media/blogcovers/<filename> 을 내려받는다.
// 이미지가 아닌 응답은 ErrNotImage, 404 는 ErrNotFound 로 돌려준다.
func (c *Client) GetCover(ctx context.Context, filename string) (Cover, error) {
	req, err := c.base.NewRequest(ctx, http.MethodGet, path.Join("/media/blogcovers", filename), nil, nil)
	if err != nil {
		return Cover{}, err
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return Cover{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Cover{}, ErrNotFound
	default:
		return Cover{}, httpclient.StatusError("blog-api GetCover", resp)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "image/") {
		return Cover{}, ErrNotImage
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxCoverBytes+1))
	if err != nil {
		return Cover{}, err
	}
	if len(data) == 0 || len(data) > MaxCoverBytes {
		return Cover{}, ErrNotImage
	}
	return Cover{Data: data, ContentType: mediaType}, nil
}
