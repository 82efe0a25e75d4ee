package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/moodmap-backend-go/internal/service"
	"github.com/jengzang/moodmap-backend-go/pkg/response"
)

// MoodHandler lists the available moods
type MoodHandler struct {
	service *service.DiscoveryService
}

// NewMoodHandler creates a new mood handler
func NewMoodHandler(service *service.DiscoveryService) *MoodHandler {
	return &MoodHandler{service: service}
}

// ListMoods returns all moods in display order
// GET /api/v1/moods
func (h *MoodHandler) ListMoods(c *gin.Context) {
	response.Success(c, h.service.Moods())
}
