package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// StoreHealth 持久层健康探针：超时计数与连接重置
type StoreHealth interface {
	ErrorCount() int64
	ResetConnection() error
}

// Watchdog 持久层看门狗：超时累计达到阈值就重置连接池。
// 长连接被中间设备静默掐断时，所有操作都会以超时告终，
// 重建连接比等驱动自愈快得多。
type Watchdog struct {
	store     StoreHealth
	threshold int64
	interval  time.Duration
	logger    *logrus.Logger
}

func NewWatchdog(store StoreHealth, threshold int, interval time.Duration, logger *logrus.Logger) *Watchdog {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watchdog{
		store:     store,
		threshold: int64(threshold),
		interval:  interval,
		logger:    logger,
	}
}

// Run 阻塞运行直到ctx取消，通常go w.Run(ctx)
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watchdog) check() {
	count := w.store.ErrorCount()
	if count < w.threshold {
		return
	}
	w.logger.WithField("errors", count).Warn("持久层超时累计达到阈值，重置连接池")
	if err := w.store.ResetConnection(); err != nil {
		w.logger.WithError(err).Error("连接池重置失败")
		return
	}
	w.logger.Info("连接池已重置")
}
