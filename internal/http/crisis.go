package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sergeai-server/internal/service"
)

type logCrisisRequest struct {
	CrisisType string `json:"crisis_type" binding:"required"`
}

// logCrisis records crisis resource usage. It accepts anonymous requests so
// nothing stands between someone in crisis and the hotline numbers.
func (h *Handler) logCrisis(c *gin.Context) {
	var req logCrisisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var userID *int64
	if user := currentUser(c); user != nil {
		userID = &user.ID
	}

	log, err := h.crisis.Log(c.Request.Context(), userID, req.CrisisType)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"log":                 crisisLogToResponse(*log),
		"emergency_resources": service.DefaultEmergencyResources(),
	})
}

func (h *Handler) crisisResources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"emergency_resources": service.DefaultEmergencyResources()})
}
