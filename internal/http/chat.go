package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createSession(c *gin.Context) {
	session, err := h.chat.CreateSession(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionToResponse(*session))
}

func (h *Handler) listSessions(c *gin.Context) {
	offset, limit := pagination(c)
	sessions, err := h.chat.ListSessions(c.Request.Context(), currentUser(c).ID, offset, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]SessionResponse, len(sessions))
	for i := range sessions {
		resp[i] = sessionToResponse(sessions[i])
	}
	c.JSON(http.StatusOK, gin.H{"sessions": resp})
}

func (h *Handler) getSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	session, err := h.chat.GetSession(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionToResponse(*session))
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chat.SendMessage(c.Request.Context(), id, currentUser(c).ID, req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageToResponse(*message))
}

func (h *Handler) deleteSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.chat.DeleteSession(c.Request.Context(), id, currentUser(c).ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

func (h *Handler) chatOverview(c *gin.Context) {
	overview, err := h.chat.Overview(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{
		"total_sessions": overview.TotalSessions,
		"total_messages": overview.TotalMessages,
	}
	if overview.Recent != nil {
		resp["recent_session"] = sessionToResponse(*overview.Recent)
	}
	c.JSON(http.StatusOK, resp)
}
