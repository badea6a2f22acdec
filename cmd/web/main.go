package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"hey-sainty/cmd/internal/logger"
	"hey-sainty/cmd/web/listing"
	"hey-sainty/cmd/web/router"
	"hey-sainty/cmd/web/tui"
	"hey-sainty/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sainty",
		Short:        "Hey Sainty blog front end",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			config.InitApp()
			logger.Init(config.GetConfig().Logging.Level)
		},
	}
	cmd.AddCommand(newServeCmd(), newBrowseCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web front end",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetConfig()
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

func newBrowseCmd() *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse blog posts in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(config.GetConfig())
			ctrl := listing.NewController(a.blogSvc, a.cfg.Listing.LoadMoreDelay)
			return tui.Run(cmd.Context(), ctrl, strings.TrimSpace(tag))
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only show posts with this tag")
	return cmd
}

func serve(ctx context.Context, cfg config.AppConfig) error {
	if !strings.EqualFold(cfg.Logging.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	a := newApp(cfg)
	deps, err := a.routerDeps()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown 설정
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.InfoWithFields("starting web server", logger.Fields{
			"addr":         cfg.Server.Addr,
			"collaborator": cfg.Collaborator.BaseURL,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Log.Info("received shutdown signal, shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	// 열린 목록 뷰의 대기 중인 조회를 모두 취소한다.
	a.registry.CloseAll()
	logger.Log.Info("web server stopped")
	return err
}
