package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskman-app/taskman-api/middleware"
	"github.com/taskman-app/taskman-api/models"
	"github.com/taskman-app/taskman-api/services"
)

// TaskController exposes the task workflow over HTTP.
type TaskController struct {
	tasks *services.TaskService
}

// NewTaskController creates a task controller using the given task engine.
func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

// RequestTaskBody represents the request body for requesting a task
type RequestTaskBody struct {
	Type models.TaskType     `json:"type" binding:"required"`
	Data *models.PaymentData `json:"data"`
}

// ListTasks handles GET /api/v1/tasks - lists the tasks visible to the
// caller's staff role, optionally filtered by status
func (tc *TaskController) ListTasks(c *gin.Context) {
	role, err := middleware.GetUserRole(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	status := models.TaskStatus(c.Query("status"))
	tasks, err := tc.tasks.ListTasks(role, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"results": tasks},
	})
}

// RequestTask handles POST /api/v1/tasks - a guest requests a talk or a
// payment
func (tc *TaskController) RequestTask(c *gin.Context) {
	guestID, err := middleware.GetUserID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	role, err := middleware.GetUserRole(c)
	if err != nil || role != models.RoleGuest {
		respondErrorEnvelope(c, http.StatusForbidden, "FORBIDDEN", "Only guests can request tasks")
		return
	}

	var body RequestTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	task, err := tc.tasks.RequestTask(guestID, body.Type, body.Data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    task,
	})
}

// AdvanceTask handles POST /api/v1/tasks/:id/next - a staff member advances
// a task one step. Completing a relay task returns the spawned successor.
func (tc *TaskController) AdvanceTask(c *gin.Context) {
	actorID, err := middleware.GetUserID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	result, err := tc.tasks.Advance(c.Param("id"), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Task == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": result.Message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Task,
	})
}
