package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"folio/pkg/media"
	"folio/pkg/utils"
)

// GET /api/media?bucket=&file=
func (s *Server) handleGetMedia(c echo.Context) error {
	bucket := c.QueryParam("bucket")
	file, err := s.Buckets.Clean(bucket, c.QueryParam("file"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	obj, err := s.Media.Open(c.Request().Context(), bucket, file)
	if errors.Is(err, media.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "media not found")
	}
	if err != nil {
		log.Warn("media fetch failed", "bucket", bucket, "file", file, "error", err)
		return c.JSON(http.StatusBadGateway, utils.ErrJSON("media unavailable"))
	}

	c.Response().Header().Set("Cache-Control", media.CacheControl)
	return c.Blob(http.StatusOK, obj.ContentType, obj.Data)
}
