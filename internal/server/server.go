// Package server exposes the prayer engine over HTTP with gin.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 5 * time.Second

// New builds the router with all routes and middleware mounted.
func New(env Env, h *Handler) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.Use(RequestLogger())
	r.Use(ErrorHandler())
	r.Use(CORS(env.CORSOrigins))

	r.GET("/health", h.Health)
	r.GET("/athan", h.Athan)

	api := r.Group("/api/v1")
	{
		api.GET("/conventions", h.ListConventions)
		api.GET("/times", h.Times)
		api.GET("/schedule", h.Schedule)
		api.GET("/state", h.State)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "NOT_FOUND", Message: "no route for " + c.Request.URL.Path},
		})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, env Env, h *Handler) error {
	if env.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              env.Addr,
		Handler:           New(env, h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", env.Addr).Str("env", env.Environment).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
