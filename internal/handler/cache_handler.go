package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/moodmap-backend-go/internal/logging"
	"github.com/jengzang/moodmap-backend-go/internal/service"
	"github.com/jengzang/moodmap-backend-go/pkg/response"
)

// CacheHandler exposes the result cache
type CacheHandler struct {
	service *service.DiscoveryService
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(service *service.DiscoveryService) *CacheHandler {
	return &CacheHandler{service: service}
}

// GetStats returns cache counters
// GET /api/v1/cache/stats
func (h *CacheHandler) GetStats(c *gin.Context) {
	response.Success(c, h.service.CacheStats())
}

// Clear drops every cached result set
// DELETE /api/v1/cache
func (h *CacheHandler) Clear(c *gin.Context) {
	h.service.ClearCache()
	logging.Ctx(c.Request.Context()).Info().Msg("Cache cleared")
	response.Success(c, gin.H{"cleared": true})
}
