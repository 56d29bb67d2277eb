package handler

import (
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the static HTML pages from the public directory.
type PageHandler struct {
	dir string
}

func NewPageHandler(dir string) *PageHandler {
	return &PageHandler{dir: dir}
}

func (h *PageHandler) Index(c echo.Context) error {
	return c.File(filepath.Join(h.dir, "index.html"))
}

// Dashboard must be mounted behind middleware.RedirectAnonymous.
func (h *PageHandler) Dashboard(c echo.Context) error {
	return c.File(filepath.Join(h.dir, "dashboard.html"))
}
