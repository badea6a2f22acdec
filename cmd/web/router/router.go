package router

import (
	"github.com/gin-gonic/gin"

	"hey-sainty/cmd/web/handlers"
	"hey-sainty/cmd/web/listing"
	"hey-sainty/cmd/web/media"
	"hey-sainty/cmd/web/middleware"
	"hey-sainty/cmd/web/services"
	"hey-sainty/cmd/web/session"
	"hey-sainty/cmd/web/templates"
	"hey-sainty/config"
)

// Deps 는 라우터가 핸들러에 넘겨줄 서비스 묶음이다. main 에서 한 번 만든다.
type Deps struct {
	Config   config.AppConfig
	Blogs    *services.BlogService
	Users    *services.UserService
	Auth     *services.AuthService
	Registry *listing.Registry
	Sessions *session.Manager
	Covers   media.CoverSource
	API      handlers.Pinger
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestTrace(),
		middleware.Recovery(),
		middleware.CORS(d.Config.Server.AllowedOrigins),
		middleware.LoadSession(d.Sessions),
	)
	r.SetHTMLTemplate(templates.MustLoad())

	// 헬스 체크
	r.GET("/health", handlers.HealthHandler(d.API, d.Registry))

	pageSize := d.Blogs.PageSize()

	r.GET("/", handlers.HomeHandler(d.Blogs, d.Config.Carousel.Tags))
	r.GET("/blogs", handlers.ListBlogsHandler(d.Registry, pageSize))
	r.GET("/blog/tag/:tag", handlers.TagBlogsHandler(d.Registry, pageSize))
	r.GET("/blog/:permalink", handlers.GetPostHandler(d.Blogs))
	r.GET(media.CoverPathPrefix+":file", media.ServeCover(d.Covers))

	views := r.Group("/blogs/views")
	{
		views.POST("/:id/more", handlers.LoadMoreHandler(d.Registry, pageSize))
		views.POST("/:id/tag", handlers.SetTagHandler(d.Registry, pageSize))
		views.DELETE("/:id", handlers.CloseViewHandler(d.Registry))
	}

	r.GET("/login", handlers.LoginPageHandler())
	r.POST("/login", handlers.LoginHandler(d.Auth, d.Sessions))
	r.GET("/signup", handlers.SignupPageHandler())
	r.POST("/signup", handlers.SignupHandler(d.Auth, d.Sessions))
	r.POST("/logout", handlers.LogoutHandler(d.Sessions))

	// 세션이 필요한 화면
	member := r.Group("/", middleware.RequireSession(d.Sessions))
	{
		member.GET("/editor", handlers.EditorHandler(d.Blogs))
		member.POST("/editor", handlers.SaveBlogHandler(d.Blogs, d.Sessions))
		member.GET("/profile", handlers.ProfileHandler(d.Users, d.Sessions))
		member.POST("/profile/:tab", handlers.UpdateProfileHandler(d.Users, d.Sessions))
	}

	return r
}
