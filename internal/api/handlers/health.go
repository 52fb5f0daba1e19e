package handlers

import (
	"net/http"

	"github.com/conbrio/conbrio-api/internal/presets"
	"github.com/gin-gonic/gin"
)

var presetLoader = presets.Default()

// HealthCheck returns the health status of the API. The embedded style
// presets must parse for the service to be healthy.
func HealthCheck(c *gin.Context) {
	styles, err := presetLoader.GetStyles()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"presets": gin.H{
			"styles": len(styles),
		},
	})
}
