package server

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"folio/pkg/content"
	"folio/pkg/media"
	"folio/pkg/utils"
)

type contentResponse struct {
	Sections   []content.Section   `json:"sections"`
	Projects   []content.Project   `json:"projects"`
	HeroTitles []content.HeroTitle `json:"heroTitles"`
	Quotes     []content.Quote     `json:"quotes"`
	Trivia     []content.Trivia    `json:"trivia"`
}

// GET /api/content
func (s *Server) handleGetContent(c echo.Context) error {
	var resp contentResponse
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() (err error) {
		resp.Sections, err = s.Content.Sections(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Projects, err = s.Content.Projects(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.HeroTitles, err = s.Content.HeroTitles(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Quotes, err = s.Content.Quotes(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Trivia, err = s.Content.Trivia(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return contentError(c, "content", err)
	}

	resp.Projects = maskProjects(resp.Projects)
	resp.HeroTitles = content.Sequence(resp.HeroTitles, s.HeroInterval)
	return c.JSON(http.StatusOK, resp)
}

// refresher is implemented by stores that hold a cache.
type refresher interface {
	Refresh(ctx context.Context) error
}

// POST /api/content/refresh
func (s *Server) handlePostContentRefresh(c echo.Context) error {
	r, ok := s.Content.(refresher)
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{"refreshed": false})
	}
	if err := r.Refresh(c.Request().Context()); err != nil {
		return contentError(c, "refresh", err)
	}
	log.Info("content cache refreshed")
	return c.JSON(http.StatusOK, map[string]any{"refreshed": true})
}

func (s *Server) handleGetSections(c echo.Context) error {
	sections, err := s.Content.Sections(c.Request().Context())
	if err != nil {
		return contentError(c, "sections", err)
	}
	return c.JSON(http.StatusOK, sections)
}

func (s *Server) handleGetProjects(c echo.Context) error {
	projects, err := s.Content.Projects(c.Request().Context())
	if err != nil {
		return contentError(c, "projects", err)
	}
	return c.JSON(http.StatusOK, maskProjects(projects))
}

func (s *Server) handleGetProject(c echo.Context) error {
	slug := c.Param("slug")
	project, err := s.Content.Project(c.Request().Context(), slug)
	if errors.Is(err, content.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "project not found")
	}
	if err != nil {
		return contentError(c, "project "+slug, err)
	}
	return c.JSON(http.StatusOK, maskProject(project))
}

// GET /api/hero-titles
func (s *Server) handleGetHeroTitles(c echo.Context) error {
	titles, err := s.Content.HeroTitles(c.Request().Context())
	if err != nil {
		return contentError(c, "hero titles", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"titles":  content.Sequence(titles, s.HeroInterval),
		"cycleMs": content.CycleMs(titles, s.HeroInterval),
	})
}

func (s *Server) handleGetQuotes(c echo.Context) error {
	quotes, err := s.Content.Quotes(c.Request().Context())
	if err != nil {
		return contentError(c, "quotes", err)
	}
	return c.JSON(http.StatusOK, quotes)
}

func (s *Server) handleGetRandomQuote(c echo.Context) error {
	quotes, err := s.Content.Quotes(c.Request().Context())
	if err != nil {
		return contentError(c, "quotes", err)
	}
	if len(quotes) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no quotes")
	}
	return c.JSON(http.StatusOK, quotes[rand.IntN(len(quotes))])
}

func (s *Server) handleGetTrivia(c echo.Context) error {
	trivia, err := s.Content.Trivia(c.Request().Context())
	if err != nil {
		return contentError(c, "trivia", err)
	}
	return c.JSON(http.StatusOK, trivia)
}

func contentError(c echo.Context, what string, err error) error {
	log.Error("content fetch failed", "what", what, "error", err)
	return c.JSON(http.StatusBadGateway, utils.ErrJSON(err.Error()))
}

func maskProject(p content.Project) content.Project {
	if p.ImageBucket != "" && p.ImageFile != "" {
		p.ImageURL = media.URL(p.ImageBucket, p.ImageFile)
	}
	return p
}

func maskProjects(in []content.Project) []content.Project {
	out := make([]content.Project, len(in))
	for i, p := range in {
		out[i] = maskProject(p)
	}
	return out
}
