package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/conbrio/conbrio-api/internal/config"
	"github.com/conbrio/conbrio-api/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	js := filepath.Join(dir, "static", "js")
	require.NoError(t, os.MkdirAll(js, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(js, "main.123.js"), []byte("console.log(1)"), 0o644))

	cfg := &config.Config{
		Environment:        "test",
		FrontendDir:        dir,
		CORSAllowedOrigins: []string{"*"},
		DefaultScaleStyle:  "ABRSM",
	}
	return SetupRouter(cfg, &metrics.Client{}, "test")
}

func TestRoutes(t *testing.T) {
	router := setupTestRouter(t)

	for _, path := range []string{
		"/",
		"/app",
		"/health",
		"/api/metrics",
		"/api/exercise/",
		"/api/chromatic/",
		"/api/scale/",
		"/api/scale/midi",
		"/api/arpeggio/",
		"/api/arpeggio/midi",
		"/api/chords/",
		"/static/js/main.123.js",
	} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chromatic/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
