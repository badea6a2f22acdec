package blogclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hey-sainty/cmd/web/httpclient"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(httpclient.NewBaseClient(srv.URL))
}

func TestListBlogsSendsPagingTagAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blog/blogs", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "go", r.URL.Query().Get("tag"))
		assert.Equal(t, "tok", r.Header.Get("authtoken"))
		_, _ = w.Write([]byte(`{"blogPosts":[{"_id":"a","title":"A","tag":["go"],"dateCreated":"2024-03-01T10:00:00.000Z","lastUpdated":"2024-03-01T10:00:00.000Z","views":7}],"totalBlog":9}`))
	})

	out, err := c.ListBlogs(context.Background(), ListBlogsParams{Page: 2, Limit: 3, Tag: "go", Token: "tok"})
	require.NoError(t, err)
	require.Len(t, out.BlogPosts, 1)
	assert.Equal(t, "a", out.BlogPosts[0].ID)
	assert.Equal(t, []string{"go"}, out.BlogPosts[0].Tags)
	assert.Equal(t, 7, out.BlogPosts[0].Views)
	assert.Equal(t, 9, out.Total())
}

func TestListBlogsWithoutPageSendsNoPaging(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		assert.Empty(t, r.Header.Get("authtoken"))
		_, _ = w.Write([]byte(`{"blogPosts":[{"_id":"a"},{"_id":"b"}]}`))
	})

	out, err := c.ListBlogs(context.Background(), ListBlogsParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total(), "missing totalBlog falls back to item count")
}

func TestListBlogsNon2xx(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.ListBlogs(context.Background(), ListBlogsParams{Page: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
}

func TestListBlogsMalformedPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"blogPosts": "nope"`))
	})

	_, err := c.ListBlogs(context.Background(), ListBlogsParams{Page: 1})
	assert.Error(t, err)
}

func TestPingAsksForOnePost(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"blogPosts":[],"totalBlog":0}`))
	})

	assert.NoError(t, c.Ping(context.Background()))
}

func TestGetBlogNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blog/getblog/hello-world", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetBlog(context.Background(), "hello-world", "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateBlogPostsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/blog/addblog", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("authtoken"))
		var in SaveBlogRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Hello", in.Title)
		assert.Equal(t, []string{"go"}, in.Tags)
		_, _ = w.Write([]byte(`{"_id":"new","title":"Hello","permalink":"hello"}`))
	})

	out, err := c.CreateBlog(context.Background(), "tok", SaveBlogRequest{Title: "Hello", Permalink: "hello", Tags: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, "new", out.ID)
}

func TestUpdateBlogUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/blog/updateblog/42", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.UpdateBlog(context.Background(), "bad", "42", SaveBlogRequest{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetCover(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/media/blogcovers/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		case "/media/blogcovers/page.png":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	cover, err := c.GetCover(context.Background(), "ok.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", cover.ContentType)
	assert.Len(t, cover.Data, 4)

	_, err = c.GetCover(context.Background(), "page.png")
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = c.GetCover(context.Background(), "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}
