package handlers

import (
	"net/http"
	"path/filepath"
	"sort"

	"github.com/conbrio/conbrio-api/internal/logger"
	"github.com/conbrio/conbrio-api/internal/web/templates"
	"github.com/gin-gonic/gin"
)

type WebHandler struct {
	frontendDir string
	version     string
}

func NewWebHandler(frontendDir, version string) *WebHandler {
	return &WebHandler{
		frontendDir: frontendDir,
		version:     version,
	}
}

// Home renders the landing page
func (h *WebHandler) Home(c *gin.Context) {
	component := templates.Home(h.version)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render template"})
	}
}

// App renders the page that loads the frontend's built JS chunks
func (h *WebHandler) App(c *gin.Context) {
	chunks, err := h.jsChunks()
	if err != nil {
		logger.Error("Failed to list frontend chunks", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load frontend"})
		return
	}
	if len(chunks) == 0 {
		logger.Warn("No frontend chunks found", logger.Fields{"frontend_dir": h.frontendDir})
	}

	component := templates.App(chunks)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render template"})
	}
}

// jsChunks returns the build's static/js/*.js paths relative to the build
// directory, with forward slashes
func (h *WebHandler) jsChunks() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(h.frontendDir, "static", "js", "*.js"))
	if err != nil {
		return nil, err
	}
	chunks := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(h.frontendDir, m)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, filepath.ToSlash(rel))
	}
	sort.Strings(chunks)
	return chunks, nil
}
