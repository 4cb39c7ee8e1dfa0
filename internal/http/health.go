package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readreviews/internal/database"
)

type HealthResponse struct {
	Status      string             `json:"status"`
	Time        string             `json:"time"`
	Version     string             `json:"version,omitempty"`
	Checks      map[string]string  `json:"checks"`
	RatingsSync *RatingsSyncStatus `json:"ratings_sync,omitempty"`
}

// RatingsSyncStatus reports the scheduled ratings refresh.
type RatingsSyncStatus struct {
	Running    bool       `json:"running"`
	NextRun    *time.Time `json:"next_run,omitempty"`
	LastRun    *time.Time `json:"last_run,omitempty"`
	LastTaskID string     `json:"last_task_id,omitempty"`
}

type HealthController struct {
	db      *database.Database
	version string
	sync    SyncScheduler
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// WithRatingsSync adds the scheduler's state to the health report.
func (h *HealthController) WithRatingsSync(sync SyncScheduler) *HealthController {
	h.sync = sync
	return h
}

func (h *HealthController) syncStatus() *RatingsSyncStatus {
	if h.sync == nil {
		return nil
	}
	lastRun, taskID := h.sync.LastRun()
	return &RatingsSyncStatus{
		Running:    h.sync.IsRunning(),
		NextRun:    h.sync.GetNextRunTime(),
		LastRun:    lastRun,
		LastTaskID: taskID,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}
	health.RatingsSync = h.syncStatus()

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}
