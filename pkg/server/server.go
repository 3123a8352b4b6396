package server

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"folio/pkg/character"
	"folio/pkg/content"
	"folio/pkg/media"
	"folio/pkg/queue"
	"folio/pkg/schema"
	"folio/pkg/utils"
)

const (
	maxGalleryEntries = 50
	maxBodySize       = "12M"
)

type Server struct {
	Echo    *echo.Echo
	Ctx     context.Context
	Engine  *character.Engine
	Queue   queue.Queue
	Content content.Store
	Media   media.Storage
	Buckets media.Buckets
	Gallery *utils.Saver[[]schema.GalleryEntry]

	HeroInterval      time.Duration
	ReservedReference string
}

type Options struct {
	Queue   queue.Queue
	Content content.Store
	Media   media.Storage
	Buckets media.Buckets
	Gallery *utils.Saver[[]schema.GalleryEntry]

	HeroInterval      time.Duration
	ReservedReference string
}

func NewServer(ctx context.Context, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(maxBodySize))

	if opts.Gallery == nil {
		opts.Gallery = utils.NewSaver[[]schema.GalleryEntry]("", nil)
	}
	if opts.ReservedReference == "" {
		opts.ReservedReference = character.DefaultReservedReference
	}

	s := &Server{
		Echo:              e,
		Ctx:               ctx,
		Engine:            character.NewEngine(character.WithReservedReference(opts.ReservedReference)),
		Queue:             opts.Queue,
		Content:           opts.Content,
		Media:             opts.Media,
		Buckets:           opts.Buckets,
		Gallery:           opts.Gallery,
		HeroInterval:      opts.HeroInterval,
		ReservedReference: opts.ReservedReference,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	// every collection in one call
	api.GET("/content", s.handleGetContent)
	api.POST("/content/refresh", s.handlePostContentRefresh)
	api.GET("/sections", s.handleGetSections)
	api.GET("/projects", s.handleGetProjects)
	api.GET("/projects/:slug", s.handleGetProject)
	api.GET("/hero-titles", s.handleGetHeroTitles)
	api.GET("/quotes", s.handleGetQuotes)
	api.GET("/quotes/random", s.handleGetRandomQuote)
	api.GET("/trivia", s.handleGetTrivia)
	api.GET("/media", s.handleGetMedia)
	// prompt in, image URL out
	api.POST("/generate-image", s.handlePostGenerateImage)

	char := api.Group("/character")
	char.GET("/schema", s.handleGetCharacterSchema)
	char.POST("/prompt", s.handlePostCharacterPrompt)
	char.POST("/generate", s.handlePostCharacterGenerate)
	char.POST("/stream", s.handlePostCharacterStream)
	char.GET("/gallery", s.handleGetGallery)
}

func (s *Server) Start(addr string) error {
	utils.Logf("Server listening at %s", addr)
	if s.Queue != nil {
		s.Queue.Start()
	}
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	utils.Logf("Shutting down server...")

	saveErr := s.Gallery.Flush()
	shutDownErr := s.Echo.Shutdown(ctx)
	if s.Queue != nil {
		s.Queue.Stop()
	}
	if shutDownErr != nil {
		return shutDownErr
	}

	return saveErr
}
