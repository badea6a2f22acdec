package main

import (
	"fmt"

	"hey-sainty/cmd/web/clients/blogclient"
	"hey-sainty/cmd/web/clients/userclient"
	"hey-sainty/cmd/web/httpclient"
	"hey-sainty/cmd/web/listing"
	"hey-sainty/cmd/web/router"
	"hey-sainty/cmd/web/services"
	"hey-sainty/cmd/web/session"
	"hey-sainty/config"
)

// app 은 serve/browse 가 공유하는 클라이언트와 서비스 묶음이다.
type app struct {
	cfg      config.AppConfig
	blogs    *blogclient.Client
	users    *userclient.Client
	blogSvc  *services.BlogService
	registry *listing.Registry
}

func newApp(cfg config.AppConfig) *app {
	httpClient := httpclient.New(httpclient.Config{
		Timeout:           cfg.Collaborator.Timeout,
		RequestsPerSecond: cfg.Collaborator.RequestsPerSecond,
		Burst:             cfg.Collaborator.Burst,
	})
	base := httpclient.NewBaseClientWithClient(httpClient, cfg.Collaborator.BaseURL)

	blogs := blogclient.New(base)
	blogSvc := services.NewBlogService(blogs, services.BlogServiceOptions{
		PageSize: cfg.Listing.PageSize,
		MinPosts: cfg.Carousel.MinPosts,
	})
	return &app{
		cfg:     cfg,
		blogs:   blogs,
		users:   userclient.New(base),
		blogSvc: blogSvc,
		registry: listing.NewRegistry(blogSvc, listing.RegistryOptions{
			MaxViews: cfg.Listing.MaxViews,
			ViewTTL:  cfg.Listing.ViewTTL,
			Delay:    cfg.Listing.LoadMoreDelay,
		}),
	}
}

func (a *app) routerDeps() (router.Deps, error) {
	sessions, err := session.NewManager(a.cfg.Session)
	if err != nil {
		return router.Deps{}, fmt.Errorf("session: %w", err)
	}
	return router.Deps{
		Config:   a.cfg,
		Blogs:    a.blogSvc,
		Users:    services.NewUserService(a.users),
		Auth:     services.NewAuthService(a.users),
		Registry: a.registry,
		Sessions: sessions,
		Covers:   a.blogs,
		API:      a.blogs,
	}, nil
}
