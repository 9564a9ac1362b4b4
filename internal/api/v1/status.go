package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salesboard/internal/store"
)

// HealthResponse 系统状态响应
type HealthResponse struct {
	Status         string `json:"status"`
	Initialized    bool   `json:"initialized"`    // 是否已有报表输出
	CurrentPeriod  string `json:"currentPeriod"`  // 最近一次运行的本期
	AssignmentKind string `json:"assignmentKind"` // three-way / two-way
	LastRunID      string `json:"lastRunId"`
	Tables         int    `json:"tables"`
}

// Health 获取系统状态
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	meta, err := h.store.GetAllMeta()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	tables, err := h.store.ListTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:         "ok",
		Initialized:    len(tables) > 0,
		CurrentPeriod:  meta[store.MetaCurrentPeriod],
		AssignmentKind: meta[store.MetaAssignmentKind],
		LastRunID:      meta[store.MetaLastRunID],
		Tables:         len(tables),
	})
}
