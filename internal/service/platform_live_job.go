package service

import (
	"context"
	"sort"

	"VTSync/internal/interfaces"
	"VTSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// PlatformLiveJob 单平台直播心跳任务（Twitch/Twitcasting共用）：
// 批量探测追踪名单，排序后写入该平台集合的live字段。
// 这些平台没有主源配对，不经过归并引擎。
type PlatformLiveJob struct {
	name     string
	dataset  string
	coll     string
	fetcher  interfaces.LiveListFetcher
	liveRepo *repository.LiveRepository
	datasets *DatasetService
	logger   *logrus.Logger
}

func NewPlatformLiveJob(name, dataset, coll string, fetcher interfaces.LiveListFetcher,
	liveRepo *repository.LiveRepository, datasets *DatasetService, logger *logrus.Logger) *PlatformLiveJob {
	return &PlatformLiveJob{
		name:     name,
		dataset:  dataset,
		coll:     coll,
		fetcher:  fetcher,
		liveRepo: liveRepo,
		datasets: datasets,
		logger:   logger,
	}
}

func (j *PlatformLiveJob) Name() string {
	return j.name
}

func (j *PlatformLiveJob) Run(ctx context.Context) error {
	vtlog := j.logger.WithField("job", j.name)

	users, err := j.datasets.TrackedUsers(j.dataset)
	if err != nil {
		return err
	}
	lives, err := j.fetcher.FetchLives(ctx, users)
	if err != nil {
		return err
	}
	sort.SliceStable(lives, func(i, k int) bool {
		return lives[i].StartTime < lives[k].StartTime
	})

	if len(lives) == 0 {
		doc, err := j.liveRepo.FetchLive(ctx, j.coll)
		if err != nil {
			return err
		}
		if len(doc.Live) == 0 {
			vtlog.Debug("无直播且文档已为空，跳过写入")
			return nil
		}
	}

	if err := j.liveRepo.UpdateLive(ctx, j.coll, lives); err != nil {
		return err
	}
	vtlog.WithField("live", len(lives)).Info("直播列表已更新")
	return nil
}
