package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	availabilityapp "stayhub/internal/app/handlers/availability"
	"stayhub/internal/app/queries"
)

type CalendarHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h CalendarHandler) Calendar(c *gin.Context) {
	q := availabilityapp.GetCalendarQuery{
		PropertyID: c.Param("id"),
		RoomID:     c.Param("roomID"),
		From:       c.Query("from"),
		To:         c.Query("to"),
	}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CalendarHandler) Quote(c *gin.Context) {
	q := availabilityapp.QuoteStayQuery{
		PropertyID: c.Param("id"),
		RoomID:     c.Param("roomID"),
		CheckIn:    c.Query("check_in"),
		CheckOut:   c.Query("check_out"),
	}
	result, err := queries.Ask[availabilityapp.QuoteStayQuery, dto.Quote](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type setOverrideRequest struct {
	Date       string `json:"date" binding:"required"`
	Status     string `json:"status"`
	PriceMinor *int64 `json:"price_minor"`
	Currency   string `json:"currency"`
	Notes      string `json:"notes"`
	Clear      bool   `json:"clear"`
}

func (h CalendarHandler) SetOverride(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req setOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := availabilityapp.SetOverrideCommand{
		PropertyID: c.Param("id"),
		RoomID:     c.Param("roomID"),
		Actor:      p.actor(),
		Date:       req.Date,
		Status:     req.Status,
		PriceMinor: req.PriceMinor,
		Currency:   req.Currency,
		Notes:      req.Notes,
		Clear:      req.Clear,
	}
	result, err := commands.Dispatch[availabilityapp.SetOverrideCommand, *availabilityapp.SetOverrideResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ CalendarHTTP = CalendarHandler{}
