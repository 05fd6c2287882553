package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	messagingapp "stayhub/internal/app/handlers/messaging"
	"stayhub/internal/app/queries"
)

type MessagingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type postMessageRequest struct {
	PropertyID string `json:"property_id" binding:"required"`
	GuestID    string `json:"guest_id"`
	Body       string `json:"body" binding:"required"`
}

func (h MessagingHandler) Post(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := messagingapp.PostMessageCommand{
		Actor:      p.actor(),
		PropertyID: req.PropertyID,
		GuestID:    req.GuestID,
		Body:       req.Body,
	}
	result, err := commands.Dispatch[messagingapp.PostMessageCommand, *messagingapp.PostMessageResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h MessagingHandler) ListThreads(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	result, err := queries.Ask[messagingapp.ListThreadsQuery, []dto.Thread](c.Request.Context(), h.Queries, messagingapp.ListThreadsQuery{Actor: p.actor()})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"threads": result})
}

func (h MessagingHandler) GetThread(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	markRead, _ := strconv.ParseBool(c.DefaultQuery("mark_read", "true"))
	q := messagingapp.GetThreadQuery{
		Actor:    p.actor(),
		ThreadID: c.Param("id"),
		MarkRead: markRead,
	}
	result, err := queries.Ask[messagingapp.GetThreadQuery, dto.Thread](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ MessagingHTTP = MessagingHandler{}
