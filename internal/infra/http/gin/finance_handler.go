package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/dto"
	financeapp "stayhub/internal/app/handlers/finance"
	"stayhub/internal/app/queries"
)

type FinanceHandler struct {
	Queries queries.Bus
}

func (h FinanceHandler) Ledger(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	q := financeapp.PropertyLedgerQuery{Actor: p.actor(), PropertyID: c.Param("id")}
	result, err := queries.Ask[financeapp.PropertyLedgerQuery, dto.LedgerSummary](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ FinanceHTTP = FinanceHandler{}
