// Package media serves blog cover images through the front end so a cover
// that cannot be fetched is replaced by the bundled default image instead
// of a broken-image icon.
package media

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/clients/blogclient"
	"hey-sainty/cmd/web/trace"
)

//go:embed default_blog.svg
var defaultCover []byte

const (
	DefaultContentType = "image/svg+xml"
	// CoverPathPrefix is the front end path covers are linked under.
	CoverPathPrefix = "/media/blogcovers/"
)

var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,199}$`)

// CoverSource fetches cover bytes from the blog API.
type CoverSource interface {
	GetCover(ctx context.Context, filename string) (blogclient.Cover, error)
}

// DefaultCover returns the bundled fallback image.
func DefaultCover() []byte {
	return defaultCover
}

// ValidFilename reports whether name is a plain file name safe to forward upstream.
func ValidFilename(name string) bool {
	return filenamePattern.MatchString(name) && name != "." && name != ".."
}

// CoverURL is the front end URL for a cover reference. An empty reference
// points at the default image.
func CoverURL(ref string) string {
	if ref == "" || !ValidFilename(ref) {
		return CoverPathPrefix + "default"
	}
	return CoverPathPrefix + ref
}

// ServeCover handles GET /media/blogcovers/:file. It never answers with an
// error status: anything that goes wrong serves the default image.
func ServeCover(src CoverSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("file")
		if !ValidFilename(name) || name == "default" {
			writeDefault(c)
			return
		}

		etag := fmt.Sprintf(`"cover-%s"`, name)
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}

		cover, err := src.GetCover(c.Request.Context(), name)
		if err != nil {
			fields := logger.Fields{
				"file":       name,
				"request_id": trace.RequestIDFromContext(c.Request.Context()),
				"error":      err.Error(),
			}
			if errors.Is(err, blogclient.ErrNotFound) || errors.Is(err, blogclient.ErrNotImage) {
				logger.DebugWithFields("cover fallback", fields)
			} else {
				logger.WarnWithFields("cover fetch failed", fields)
			}
			writeDefault(c)
			return
		}

		c.Header("Cache-Control", "public, max-age=86400")
		c.Header("ETag", etag)
		c.Data(http.StatusOK, cover.ContentType, cover.Data)
	}
}

func writeDefault(c *gin.Context) {
	// The real cover may be uploaded later, keep the cache short.
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, DefaultContentType, defaultCover)
}
