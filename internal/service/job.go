package service

import "context"

// Job 单个轮询任务。Run必须自包含：拉取、归一化、落库、日志，
// 任何失败只返回error，由调度器决定下一周期是否继续。
type Job interface {
	Name() string
	Run(ctx context.Context) error
}
