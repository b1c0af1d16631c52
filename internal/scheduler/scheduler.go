package scheduler

import (
	"context"
	"fmt"
	"time"

	"VTSync/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler 轮询调度器：每个任务按配置的分钟间隔触发。
// 上一次还没跑完时跳过本次触发，慢任务不会在自己身后排队。
type Scheduler struct {
	cron   *cron.Cron
	logger *logrus.Logger
}

func New(syncSvc *service.SyncService, logger *logrus.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.PrintfLogger(logger)),
		cron.Recover(cron.PrintfLogger(logger)),
	))

	for _, sc := range syncSvc.Jobs() {
		job := sc.Job
		// 单次执行最多占用一个完整周期
		timeout := time.Duration(sc.Interval) * time.Minute
		_, err := c.AddFunc(fmt.Sprintf("@every %dm", sc.Interval), func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if err := job.Run(ctx); err != nil {
				logger.WithError(err).WithField("job", job.Name()).Error("任务执行失败")
			}
		})
		if err != nil {
			return nil, fmt.Errorf("注册任务%s失败: %w", job.Name(), err)
		}
		logger.WithFields(logrus.Fields{
			"job":      job.Name(),
			"interval": sc.Interval,
		}).Info("任务已调度")
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

// Start 启动调度（非阻塞）
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度，返回的ctx在运行中任务全部结束后Done
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("调度器停止中")
	return s.cron.Stop()
}
