package apikey

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RotatingKey 多个API Key按固定周期轮换使用，分摊配额。
// 显式持有状态并注入到需要的任务里，不做进程级单例。
type RotatingKey struct {
	mu         sync.Mutex
	keys       []string
	cursor     int
	rate       time.Duration
	nextRotate time.Time
	now        func() time.Time // 测试可替换
	logger     *logrus.Logger
}

// NewRotatingKey rotationRate 单位分钟；只有一个Key时永不轮换
func NewRotatingKey(keys []string, rotationRate int, logger *logrus.Logger) *RotatingKey {
	r := &RotatingKey{
		keys:   keys,
		rate:   time.Duration(rotationRate) * time.Minute,
		now:    time.Now,
		logger: logger,
	}
	r.nextRotate = r.now().Add(r.rate)
	return r
}

// Get 返回当前Key，到达轮换时间点时先推进游标
func (r *RotatingKey) Get() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return ""
	}
	if len(r.keys) > 1 {
		r.checkRotate()
	}
	return r.keys[r.cursor]
}

func (r *RotatingKey) checkRotate() {
	current := r.now()
	if !current.Before(r.nextRotate) {
		r.cursor = (r.cursor + 1) % len(r.keys)
		r.nextRotate = current.Add(r.rate)
		r.logger.WithField("next_rotate", r.nextRotate.UTC().Format("2006-01-02 15:04:05 UTC")).
			Info("已轮换API Key")
	}
}
