package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sergeai-server/internal/repository"
)

type dayCountResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type dayAverageResponse struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

func dayCountsToResponse(counts []repository.DayCount) []dayCountResponse {
	resp := make([]dayCountResponse, len(counts))
	for i, c := range counts {
		resp[i] = dayCountResponse{Date: c.Date.Format("2006-01-02"), Count: c.Count}
	}
	return resp
}

func dayAveragesToResponse(averages []repository.DayAverage) []dayAverageResponse {
	resp := make([]dayAverageResponse, len(averages))
	for i, a := range averages {
		resp[i] = dayAverageResponse{Date: a.Date.Format("2006-01-02"), Average: a.Average, Count: a.Count}
	}
	return resp
}

func (h *Handler) adminDashboard(c *gin.Context) {
	dashboard, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":                dashboard.TotalUsers,
		"active_users":               dashboard.ActiveUsers,
		"sessions_today":             dashboard.SessionsToday,
		"crisis_interventions_today": dashboard.CrisisInterventionsToday,
		"positive_feedback_rate":     dashboard.PositiveFeedbackRate,
		"average_mood":               dashboard.AverageMood,
		"user_growth":                dayCountsToResponse(dashboard.UserGrowth),
		"mood_trends":                dayAveragesToResponse(dashboard.MoodTrends),
		"crisis_stats":               dashboard.Crisis,
		"system_health":              dashboard.SystemHealth,
	})
}

type adminUserResponse struct {
	UserResponse
	MoodEntryCount   int `json:"mood_entry_count"`
	ChatSessionCount int `json:"chat_session_count"`
}

func (h *Handler) adminUsers(c *gin.Context) {
	offset, limit := pagination(c)
	users, total, err := h.admin.Users(c.Request.Context(), offset, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]adminUserResponse, len(users))
	for i, user := range users {
		resp[i] = adminUserResponse{
			UserResponse:     userToResponse(user.User),
			MoodEntryCount:   user.MoodEntryCount,
			ChatSessionCount: user.ChatSessionCount,
		}
	}
	c.JSON(http.StatusOK, gin.H{"users": resp, "total": total})
}

type adminCrisisLogResponse struct {
	CrisisLogResponse
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

func (h *Handler) adminCrisisLogs(c *gin.Context) {
	offset, limit := pagination(c)
	unresolvedOnly := c.Query("unresolved") == "true"

	logs, total, err := h.admin.CrisisLogs(c.Request.Context(), offset, limit, unresolvedOnly)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]adminCrisisLogResponse, len(logs))
	for i, log := range logs {
		resp[i] = adminCrisisLogResponse{
			CrisisLogResponse: crisisLogToResponse(log.CrisisLog),
			Username:          log.Username,
			Email:             log.Email,
		}
	}
	c.JSON(http.StatusOK, gin.H{"logs": resp, "total": total})
}

func (h *Handler) adminResolveCrisisLog(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.crisis.Resolve(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Crisis log resolved"})
}

func (h *Handler) adminAnalytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	analytics, err := h.admin.Analytics(c.Request.Context(), days)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":                days,
		"total_users":         analytics.TotalUsers,
		"new_users":           analytics.NewUsers,
		"chat_sessions":       analytics.ChatSessions,
		"chat_messages":       analytics.ChatMessages,
		"breathing_sessions":  analytics.BreathingSessions,
		"breathing_completed": analytics.BreathingCompleted,
		"mood_averages":       dayAveragesToResponse(analytics.MoodAverages),
	})
}
