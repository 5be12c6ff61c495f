package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"sergeai-server/internal/auth"
	"sergeai-server/internal/domain"
	"sergeai-server/internal/repository"
	"sergeai-server/internal/service"
)

// forgotPasswordReply is returned whether or not the email is registered.
const forgotPasswordReply = "If an account with that email exists, we've sent a reset link."

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.FullName, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.issueToken(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.issueToken(c, http.StatusOK, user)
}

func (h *Handler) issueToken(c *gin.Context, status int, user *domain.User) {
	token, err := auth.IssueToken(user.ID, h.jwtSecret, h.tokenTTL)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        userToResponse(*user),
	})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(*currentUser(c)))
}

type updateMeRequest struct {
	FullName             *string `json:"full_name"`
	ThemePreference      *string `json:"theme_preference"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	DailyCheckins        *bool   `json:"daily_checkins"`
	WellnessTips         *bool   `json:"wellness_tips"`
	BreathingReminders   *bool   `json:"breathing_reminders"`
	BiometricLock        *bool   `json:"biometric_lock"`
}

func (h *Handler) updateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateSettings(c.Request.Context(), currentUser(c).ID, service.SettingsUpdate{
		FullName:             req.FullName,
		ThemePreference:      req.ThemePreference,
		NotificationsEnabled: req.NotificationsEnabled,
		DailyCheckins:        req.DailyCheckins,
		WellnessTips:         req.WellnessTips,
		BreathingReminders:   req.BreathingReminders,
		BiometricLock:        req.BiometricLock,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) deleteAccount(c *gin.Context) {
	user := currentUser(c)

	if err := h.export.PurgeArchives(c.Request.Context(), user.UUID); err != nil {
		h.logger.Warnf("purge archives for user %d: %v", user.ID, err)
	}
	if err := h.users.Deactivate(c.Request.Context(), user.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (h *Handler) logout(c *gin.Context) {
	// Tokens are stateless; clients discard them on logout.
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.users.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		// Never reveal whether the account exists.
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"message": forgotPasswordReply})
			return
		}
		h.respondError(c, err)
		return
	}

	link := h.resetLink(user.Email, token)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
			h.logger.Warnf("send reset mail to user %d: %v", user.ID, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordReply})
}

func (h *Handler) resetLink(email, token string) string {
	query := url.Values{}
	query.Set("token", token)
	query.Set("email", email)
	return h.frontendURL + "/auth/reset-password?" + query.Encode()
}

type verifyResetTokenRequest struct {
	Email string `json:"email" binding:"required"`
	Token string `json:"token" binding:"required"`
}

func (h *Handler) verifyResetToken(c *gin.Context) {
	var req verifyResetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.VerifyResetToken(c.Request.Context(), req.Email, req.Token); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), req.Email, req.Token, req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}
