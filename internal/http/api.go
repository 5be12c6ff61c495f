package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sergeai-server/internal/mail"
	"sergeai-server/internal/repository"
	"sergeai-server/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	chat      service.ChatService
	moods     service.MoodService
	crisis    service.CrisisService
	breathing service.BreathingService
	admin     service.AdminService
	export    service.ExportService
	mailer    mail.Mailer
	logger    *logrus.Logger

	jwtSecret      []byte
	tokenTTL       time.Duration
	frontendURL    string
	allowedOrigins []string
}

// HandlerConfig carries the dependencies of the HTTP layer.
type HandlerConfig struct {
	Users     service.UserService
	Chat      service.ChatService
	Moods     service.MoodService
	Crisis    service.CrisisService
	Breathing service.BreathingService
	Admin     service.AdminService
	Export    service.ExportService
	Mailer    mail.Mailer
	Logger    *logrus.Logger

	JWTSecret      []byte
	TokenTTL       time.Duration
	FrontendURL    string
	AllowedOrigins []string
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		users:          cfg.Users,
		chat:           cfg.Chat,
		moods:          cfg.Moods,
		crisis:         cfg.Crisis,
		breathing:      cfg.Breathing,
		admin:          cfg.Admin,
		export:         cfg.Export,
		mailer:         cfg.Mailer,
		logger:         cfg.Logger,
		jwtSecret:      cfg.JWTSecret,
		tokenTTL:       cfg.TokenTTL,
		frontendURL:    strings.TrimRight(cfg.FrontendURL, "/"),
		allowedOrigins: cfg.AllowedOrigins,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(h.allowedOrigins))

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		api.POST("/users/register", h.register)
		api.POST("/users/login", h.login)
		api.POST("/users/forgot-password", h.forgotPassword)
		api.POST("/users/verify-reset-token", h.verifyResetToken)
		api.POST("/users/reset-password", h.resetPassword)

		api.GET("/crisis/resources", h.crisisResources)
		api.POST("/crisis", h.optionalAuth(), h.logCrisis)

		authed := api.Group("", h.requireAuth())
		{
			authed.GET("/users/me", h.me)
			authed.PUT("/users/me", h.updateMe)
			authed.DELETE("/users/me", h.deleteAccount)
			authed.POST("/users/logout", h.logout)

			authed.POST("/chat/sessions", h.createSession)
			authed.GET("/chat/sessions", h.listSessions)
			authed.GET("/chat/sessions/:id", h.getSession)
			authed.DELETE("/chat/sessions/:id", h.deleteSession)
			authed.POST("/chat/sessions/:id/messages", h.sendMessage)
			authed.GET("/chat/overview", h.chatOverview)

			authed.POST("/mood", h.upsertMood)
			authed.GET("/mood", h.listMoods)
			authed.GET("/mood/today", h.moodToday)
			authed.GET("/mood/analytics", h.moodAnalytics)
			authed.GET("/mood/streak", h.moodStreak)
			authed.GET("/mood/overview", h.moodOverview)
			authed.GET("/mood/:id", h.getMood)
			authed.PUT("/mood/:id", h.updateMood)
			authed.DELETE("/mood/:id", h.deleteMood)

			authed.GET("/settings", h.getSettings)
			authed.PUT("/settings", h.updateSettings)

			authed.POST("/breathing/sessions", h.startBreathing)
			authed.PUT("/breathing/sessions/:id/complete", h.completeBreathing)
			authed.GET("/breathing/sessions", h.listBreathing)
			authed.GET("/breathing/stats", h.breathingStats)

			authed.GET("/export-data", h.exportData)
			authed.GET("/help/resources", h.helpResources)

			authed.GET("/admin/dashboard", h.adminDashboard)
			authed.GET("/admin/users", h.adminUsers)
			authed.GET("/admin/crisis-logs", h.adminCrisisLogs)
			authed.PUT("/admin/crisis-logs/:id/resolve", h.adminResolveCrisisLog)
			authed.GET("/admin/analytics", h.adminAnalytics)
		}
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := map[string]bool{}
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case len(allowed) == 0:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// respondError maps service errors onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInactiveUser),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailRegistered),
		errors.Is(err, service.ErrInvalidResetToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return offset, limit
}
