package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/readreviews/internal/tasks"
)

// TaskEnqueuer is the subset of *tasks.Client used by the task endpoints.
type TaskEnqueuer interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, id string) (backlite.TaskStatus, error)
}

// TasksController handles task queue management endpoints.
type TasksController struct {
	client TaskEnqueuer
}

// NewTasksController creates a new TasksController.
func NewTasksController(client TaskEnqueuer) *TasksController {
	return &TasksController{client: client}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        tasks.QueueRefreshBookRatings,
			Description: "Refresh the stored ratings of one book (requires isbn)",
			Queue:       tasks.QueueRefreshBookRatings,
		},
		{
			Type:        tasks.QueueRefreshAllRatings,
			Description: "Refresh the stored ratings of every book in the catalog",
			Queue:       tasks.QueueRefreshAllRatings,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunTaskRequest is the optional body of a run request.
type RunTaskRequest struct {
	// ISBN is required for refresh_book_ratings
	ISBN string `json:"isbn,omitempty" form:"isbn"`
}

// RunTask handles POST /api/tasks/:type/run
// The isbn may be sent as a query parameter, form field or JSON body.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.ContentType() == "application/json" && c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&req)
	} else {
		_ = c.ShouldBind(&req)
	}
	if req.ISBN == "" {
		req.ISBN = c.Query("isbn")
	}
	req.ISBN = strings.TrimSpace(req.ISBN)

	var task backlite.Task
	switch taskType {
	case tasks.QueueRefreshBookRatings:
		if req.ISBN == "" {
			respondBadRequest(c, "isbn is required for "+tasks.QueueRefreshBookRatings)
			return
		}
		task = tasks.RefreshBookRatingsTask{ISBN: req.ISBN}

	case tasks.QueueRefreshAllRatings:
		task = tasks.RefreshAllRatingsTask{}

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	id, err := tc.client.Enqueue(task)
	if err != nil {
		respondInternalError(c, err, "enqueue "+taskType)
		return
	}

	respondAccepted(c, "task enqueued", gin.H{"task_id": id, "type": taskType})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
