package server

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/config"
	mw "storefront/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// ルート登録できるhandler
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo)
}

type Server struct {
	echo *echo.Echo
	cfg  config.Config
}

func New(cfg config.Config, log *zap.Logger, handlers ...RouteRegistrar) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(mw.RequestLogger(log))

	// フロントのオリジンのみ許可
	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.FEURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowCredentials: true,
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	for _, h := range handlers {
		h.RegisterRoutes(e)
	}

	return &Server{echo: e, cfg: cfg}
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.cfg.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
