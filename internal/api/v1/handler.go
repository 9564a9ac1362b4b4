package v1

import (
	"github.com/gin-gonic/gin"

	"salesboard/internal/service/pipeline"
	"salesboard/internal/store"
)

// Handler 报表 API 处理器
type Handler struct {
	store  *store.Store
	runner *pipeline.Runner
}

// NewHandler 创建报表 API 处理器
func NewHandler(store *store.Store, runner *pipeline.Runner) *Handler {
	return &Handler{
		store:  store,
		runner: runner,
	}
}

// RegisterRoutes 注册报表 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/health", h.Health)

	// 期数
	router.GET("/periods", h.ListPeriods)

	// 报表输出表
	router.GET("/tables", h.ListTables)
	router.GET("/tables/:name", h.GetTable)

	// 运行
	router.GET("/runs", h.ListRuns)
	router.GET("/runs/:id", h.GetRun)
	router.POST("/runs", h.CreateRun)
	router.POST("/goal", h.CreateGoalRun)
}
