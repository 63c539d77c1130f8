// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

// Package web serves the chat map page and the /process endpoint.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mapchat/mapchat/config"
	"github.com/mapchat/mapchat/locate"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Locator runs the place pipeline for a piece of text.
type Locator interface {
	Locate(ctx context.Context, text string) (*locate.Result, error)
}

type Server struct {
	locator Locator
	mapCfg  config.MapConfig
	logger  *zap.SugaredLogger
}

func NewServer(locator Locator, mapCfg config.MapConfig, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Server{
		locator: locator,
		mapCfg:  mapCfg,
		logger:  logger,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), requestLogger(s.logger), gin.Recovery())

	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	r.StaticFS("/static", http.FS(static))

	r.GET("/", s.index)
	r.POST("/process", s.process)
	r.GET("/healthz", s.healthz)

	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Infow("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func (s *Server) index(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"amap_key": s.mapCfg.JSKey,
		"amap_pwd": s.mapCfg.SecurityCode,
	})
}

// processRequest accepts the form post of the page and JSON clients alike.
type processRequest struct {
	UserInput string `form:"user_input" json:"user_input"`
}

func (s *Server) process(ctx *gin.Context) {
	var req processRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})

		return
	}

	if strings.TrimSpace(req.UserInput) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_input is required"})

		return
	}

	res, err := s.locator.Locate(ctx.Request.Context(), req.UserInput)

	switch {
	case errors.Is(err, locate.ErrEmptyInput):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_input is required"})
	case errors.Is(err, locate.ErrExtraction):
		s.logger.Errorw("place extraction failed", "request_id", ctx.GetString(requestIDKey), "error", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "place extraction failed"})
	case err != nil:
		s.logger.Errorw("processing request", "request_id", ctx.GetString(requestIDKey), "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		ctx.JSON(http.StatusOK, res)
	}
}

func (s *Server) healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
