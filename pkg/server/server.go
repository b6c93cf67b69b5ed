package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storyflip/pkg/comic"
)

type Server struct {
	Echo     *echo.Echo
	Pipeline *comic.Pipeline
}

func NewServer(p *comic.Pipeline) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:     e,
		Pipeline: p,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.POST("/create-comic", s.handleCreateComic) // multipart form -> ComicResult JSON
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
