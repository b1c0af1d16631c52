package service

import (
	"context"
	"sort"

	"VTSync/internal/interfaces"
	"VTSync/internal/model"
	"VTSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// PlatformChannelsJob 单平台频道统计任务（YouTube/Twitch/Twitcasting共用）：
// 批量拉取追踪名单的频道元数据，排序后写入集合的channels字段。
// 默认按粉丝数降序，YouTube任务改为按显示名升序（见SortByName）。
type PlatformChannelsJob struct {
	name        string
	dataset     string
	coll        string
	fetcher     interfaces.ChannelStatsFetcher
	channelRepo *repository.ChannelRepository
	datasets    *DatasetService
	logger      *logrus.Logger
	less        func(a, b *model.ChannelStats) bool
}

func NewPlatformChannelsJob(name, dataset, coll string, fetcher interfaces.ChannelStatsFetcher,
	channelRepo *repository.ChannelRepository, datasets *DatasetService, logger *logrus.Logger) *PlatformChannelsJob {
	return &PlatformChannelsJob{
		name:        name,
		dataset:     dataset,
		coll:        coll,
		fetcher:     fetcher,
		channelRepo: channelRepo,
		datasets:    datasets,
		logger:      logger,
		less: func(a, b *model.ChannelStats) bool {
			return a.FollowerCount > b.FollowerCount
		},
	}
}

// SortByName 改为按显示名升序排序
func (j *PlatformChannelsJob) SortByName() *PlatformChannelsJob {
	j.less = func(a, b *model.ChannelStats) bool {
		return a.Name < b.Name
	}
	return j
}

func (j *PlatformChannelsJob) Name() string {
	return j.name
}

func (j *PlatformChannelsJob) Run(ctx context.Context) error {
	vtlog := j.logger.WithField("job", j.name)

	users, err := j.datasets.TrackedUsers(j.dataset)
	if err != nil {
		return err
	}
	stats, err := j.fetcher.FetchChannels(ctx, users)
	if err != nil {
		return err
	}
	sort.SliceStable(stats, func(i, k int) bool {
		return j.less(stats[i], stats[k])
	})

	if err := j.channelRepo.UpdateChannels(ctx, j.coll, stats); err != nil {
		return err
	}
	vtlog.WithField("channels", len(stats)).Info("频道统计已更新")
	return nil
}
