package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"salesboard/internal/model"
	"salesboard/internal/service/pipeline"
	"salesboard/internal/store"
)

const defaultRunLimit = 20

// ListRuns 最近的运行日志
// GET /api/runs?limit=20
func (h *Handler) ListRuns(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultRunLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	runs, err := h.store.ListRunLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []*model.RunLog{}
	}
	c.JSON(http.StatusOK, gin.H{"items": runs, "total": len(runs)})
}

// GetRun 查询单次运行
// GET /api/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	run, err := h.store.GetRunLog(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

// CreateRun 同步执行一次报表运行
// POST /api/runs
func (h *Handler) CreateRun(c *gin.Context) {
	var req pipeline.RunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
	}

	run, err := h.runner.Run(c.Request.Context(), req)
	respondRun(c, run, err)
}

// CreateGoalRun 同步执行一次目标分解
// POST /api/goal
func (h *Handler) CreateGoalRun(c *gin.Context) {
	var req pipeline.GoalRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
	}

	run, err := h.runner.Goal(c.Request.Context(), req)
	respondRun(c, run, err)
}

func respondRun(c *gin.Context, run *model.RunLog, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, run)
	case errors.Is(err, pipeline.ErrNoInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case run != nil:
		// 运行已记录但失败
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "run": run})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
