package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	status := map[string]any{
		"service":   "folio API",
		"status":    "ok",
		"generator": s.Queue != nil,
	}
	if s.Queue != nil {
		status["queued"] = s.Queue.Len()
	}
	return c.JSON(http.StatusOK, status)
}
