package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getSettings(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"theme_preference":      user.ThemePreference,
		"notifications_enabled": user.NotificationsEnabled,
		"daily_checkins":        user.DailyCheckins,
		"wellness_tips":         user.WellnessTips,
		"breathing_reminders":   user.BreathingReminders,
		"biometric_lock":        user.BiometricLock,
	})
}

// updateSettings shares the profile update path; the settings endpoint just
// scopes it to preference fields.
func (h *Handler) updateSettings(c *gin.Context) {
	h.updateMe(c)
}

type startBreathingRequest struct {
	Technique       string `json:"technique"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

func (h *Handler) startBreathing(c *gin.Context) {
	var req startBreathingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.breathing.Start(c.Request.Context(), currentUser(c).ID, req.Technique, req.DurationMinutes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, breathingToResponse(*session))
}

func (h *Handler) completeBreathing(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	session, err := h.breathing.Complete(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breathingToResponse(*session))
}

func (h *Handler) listBreathing(c *gin.Context) {
	offset, limit := pagination(c)
	sessions, err := h.breathing.List(c.Request.Context(), currentUser(c).ID, offset, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]BreathingResponse, len(sessions))
	for i := range sessions {
		resp[i] = breathingToResponse(sessions[i])
	}
	c.JSON(http.StatusOK, gin.H{"sessions": resp})
}

func (h *Handler) breathingStats(c *gin.Context) {
	stats, err := h.breathing.Stats(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) exportData(c *gin.Context) {
	export, archiveURI, err := h.export.Export(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sessions := make([]SessionResponse, len(export.ChatSessions))
	for i := range export.ChatSessions {
		sessions[i] = sessionToResponse(export.ChatSessions[i])
	}
	breathing := make([]BreathingResponse, len(export.BreathingSessions))
	for i := range export.BreathingSessions {
		breathing[i] = breathingToResponse(export.BreathingSessions[i])
	}

	resp := gin.H{
		"exported_at":        export.ExportedAt,
		"user":               userToResponse(*export.User),
		"mood_entries":       moodsToResponse(export.MoodEntries),
		"chat_sessions":      sessions,
		"breathing_sessions": breathing,
	}
	if archiveURI != "" {
		resp["archive_uri"] = archiveURI
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) helpResources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"crisis_resources": gin.H{
			"crisis_lifeline": "988",
			"crisis_text":     "Text HOME to 741741",
			"emergency":       "911",
		},
		"resources": []gin.H{
			{
				"title":       "National Suicide Prevention Lifeline",
				"description": "Free and confidential support, 24/7.",
				"contact":     "988",
			},
			{
				"title":       "Crisis Text Line",
				"description": "Text with a trained crisis counselor.",
				"contact":     "Text HOME to 741741",
			},
			{
				"title":       "SAMHSA National Helpline",
				"description": "Treatment referral and information service.",
				"contact":     "1-800-662-4357",
			},
		},
	})
}
