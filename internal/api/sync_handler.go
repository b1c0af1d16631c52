package api

import (
	"fmt"
	"net/http"

	"VTSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SyncHandler 任务的手动触发与查询接口
type SyncHandler struct {
	syncService *service.SyncService
	logger      *logrus.Logger
}

func NewSyncHandler(syncService *service.SyncService, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		logger:      logger,
	}
}

// ListJobs 全部已注册任务名
// GET /api/jobs
func (h *SyncHandler) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.syncService.JobNames()})
}

// RunJob 立即执行一次指定任务（不影响正常调度）
// POST /api/jobs/:job/run
func (h *SyncHandler) RunJob(c *gin.Context) {
	name := c.Param("job")
	if err := h.syncService.RunJob(c.Request.Context(), name); err != nil {
		h.logger.WithError(err).WithField("job", name).Error("手动触发失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("任务%s执行成功", name)})
}
