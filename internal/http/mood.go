package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sergeai-server/internal/repository"
)

type moodRequest struct {
	MoodScore        int      `json:"mood_score" binding:"required"`
	EnergyLevel      string   `json:"energy_level"`
	AffectingFactors []string `json:"affecting_factors"`
	Notes            string   `json:"notes"`
}

func (h *Handler) upsertMood(c *gin.Context) {
	var req moodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.moods.UpsertToday(c.Request.Context(), currentUser(c).ID,
		req.MoodScore, req.EnergyLevel, req.AffectingFactors, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, moodToResponse(*entry))
}

func (h *Handler) listMoods(c *gin.Context) {
	offset, limit := pagination(c)
	days, _ := strconv.Atoi(c.DefaultQuery("days", "0"))

	entries, err := h.moods.List(c.Request.Context(), currentUser(c).ID, offset, limit, days)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": moodsToResponse(entries)})
}

func (h *Handler) moodToday(c *gin.Context) {
	entry, err := h.moods.Today(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"entry": nil})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": moodToResponse(*entry)})
}

func (h *Handler) moodAnalytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	analytics, err := h.moods.Analytics(c.Request.Context(), currentUser(c).ID, days)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"average_mood":   analytics.AverageMood,
		"trend":          analytics.Trend,
		"entry_count":    analytics.EntryCount,
		"common_factors": factorsToResponse(analytics.CommonFactors),
		"recent_entries": moodsToResponse(analytics.Recent),
	})
}

func (h *Handler) moodStreak(c *gin.Context) {
	streak, err := h.moods.Streak(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"streak": streak})
}

func (h *Handler) moodOverview(c *gin.Context) {
	overview, err := h.moods.Overview(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{
		"total_entries": overview.TotalEntries,
		"streak":        overview.Streak,
		"today":         nil,
	}
	if overview.Today != nil {
		resp["today"] = moodToResponse(*overview.Today)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getMood(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	entry, err := h.moods.Get(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moodToResponse(*entry))
}

func (h *Handler) updateMood(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req moodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.moods.Update(c.Request.Context(), id, currentUser(c).ID,
		req.MoodScore, req.EnergyLevel, req.AffectingFactors, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moodToResponse(*entry))
}

func (h *Handler) deleteMood(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.moods.Delete(c.Request.Context(), id, currentUser(c).ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mood entry deleted successfully"})
}
