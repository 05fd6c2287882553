package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	maintenanceapp "stayhub/internal/app/handlers/maintenance"
	"stayhub/internal/app/queries"
)

type MaintenanceHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createTaskRequest struct {
	RoomID      string   `json:"room_id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Due         string   `json:"due"`
	Priority    string   `json:"priority"`
	BlockDates  []string `json:"block_dates"`
}

func (h MaintenanceHandler) CreateTask(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := maintenanceapp.CreateTaskCommand{
		Actor:       p.actor(),
		PropertyID:  c.Param("id"),
		RoomID:      req.RoomID,
		Title:       req.Title,
		Description: req.Description,
		Due:         req.Due,
		Priority:    req.Priority,
		BlockDates:  req.BlockDates,
	}
	result, err := commands.Dispatch[maintenanceapp.CreateTaskCommand, *maintenanceapp.CreateTaskResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h MaintenanceHandler) CompleteTask(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	cmd := maintenanceapp.CompleteTaskCommand{Actor: p.actor(), TaskID: c.Param("taskID")}
	result, err := commands.Dispatch[maintenanceapp.CompleteTaskCommand, *maintenanceapp.CompleteTaskResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MaintenanceHandler) ListTasks(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	q := maintenanceapp.ListTasksQuery{Actor: p.actor(), PropertyID: c.Param("id")}
	result, err := queries.Ask[maintenanceapp.ListTasksQuery, []dto.Task](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": result})
}

var _ MaintenanceHTTP = MaintenanceHandler{}
