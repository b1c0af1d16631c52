package service

import (
	"context"
	"sort"
	"strconv"

	"VTSync/internal/config"
	"VTSync/internal/interfaces"
	"VTSync/internal/model"
	"VTSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// BiliChannelsColl 全部配对共用一个频道统计集合，按团体名分字段
const BiliChannelsColl = "channel_data"

// BiliChannelsJob BiliBili频道统计任务：一次拉取vtbs全量镜像，
// 按各配对数据集筛出追踪的UID，分团体写入channel_data集合。
type BiliChannelsJob struct {
	pairings    map[string]config.PairingConfig
	stats       interfaces.VtbsStatsFetcher
	channelRepo *repository.ChannelRepository
	datasets    *DatasetService
	logger      *logrus.Logger
}

func NewBiliChannelsJob(pairings map[string]config.PairingConfig, stats interfaces.VtbsStatsFetcher,
	channelRepo *repository.ChannelRepository, datasets *DatasetService, logger *logrus.Logger) *BiliChannelsJob {
	return &BiliChannelsJob{
		pairings:    pairings,
		stats:       stats,
		channelRepo: channelRepo,
		datasets:    datasets,
		logger:      logger,
	}
}

func (j *BiliChannelsJob) Name() string {
	return "bili_channels"
}

func (j *BiliChannelsJob) Run(ctx context.Context) error {
	vtlog := j.logger.WithField("job", j.Name())

	infos, err := j.stats.FetchVtbsInfo(ctx)
	if err != nil {
		return err
	}
	byUID := make(map[string]*model.VtbsChannelInfo, len(infos))
	for i := range infos {
		byUID[strconv.FormatInt(infos[i].MID, 10)] = &infos[i]
	}

	groups := make(map[string][]*model.ChannelStats, len(j.pairings))
	for pairing, cfg := range j.pairings {
		entries, err := j.datasets.PairingEntries(cfg.Dataset)
		if err != nil {
			return err
		}
		group := cfg.Group
		if group == "" {
			group = pairing
		}
		base := len(groups[group])
		for idx, entry := range entries {
			info, ok := byUID[entry.UID]
			if !ok {
				vtlog.WithField("uid", entry.UID).Warn("vtbs镜像缺少该UID，跳过")
				continue
			}
			groups[group] = append(groups[group], &model.ChannelStats{
				ID:              entry.UID,
				RoomID:          entry.RoomID,
				Name:            info.UName,
				Description:     info.Sign,
				Thumbnail:       info.Face,
				SubscriberCount: info.Follower,
				ViewCount:       info.ArchiveView,
				VideoCount:      info.Video,
				Live:            info.LiveStatus == 1,
				Platform:        model.PlatformBiliBili,
				NSort:           base + idx, // 数据集顺序即展示顺序
			})
		}
	}
	// 同一团体可能由多个数据集拼成，最后统一按NSort整理
	for _, channels := range groups {
		sort.SliceStable(channels, func(i, k int) bool {
			return channels[i].NSort < channels[k].NSort
		})
	}

	if err := j.channelRepo.UpdateGroups(ctx, BiliChannelsColl, groups); err != nil {
		return err
	}
	vtlog.WithField("groups", len(groups)).Info("频道统计已更新")
	return nil
}
