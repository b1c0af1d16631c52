package service

import (
	"context"

	"VTSync/internal/config"
	"VTSync/internal/interfaces"
	"VTSync/internal/model"
	"VTSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// ytBatchSize Data API videos.list 单次最多查50个ID，留余量取40
const ytBatchSize = 40

// YouTubeFeedsJob 发现阶段：轮询各频道RSS订阅源找新视频ID，
// 仅对从未见过的ID调用Data API判定是否直播。确认非直播的ID进
// 已结束名单，之后永不再查——这是配额控制的关键。
type YouTubeFeedsJob struct {
	cfg      config.YouTubeConfig
	source   interfaces.YTVideoSource
	liveRepo *repository.YTLiveRepository
	seenRepo *repository.SeenRepository
	datasets *DatasetService
	logger   *logrus.Logger
}

func NewYouTubeFeedsJob(cfg config.YouTubeConfig, source interfaces.YTVideoSource,
	liveRepo *repository.YTLiveRepository, seenRepo *repository.SeenRepository,
	datasets *DatasetService, logger *logrus.Logger) *YouTubeFeedsJob {
	return &YouTubeFeedsJob{
		cfg:      cfg,
		source:   source,
		liveRepo: liveRepo,
		seenRepo: seenRepo,
		datasets: datasets,
		logger:   logger,
	}
}

func (j *YouTubeFeedsJob) Name() string {
	return "yt_feeds"
}

func (j *YouTubeFeedsJob) Run(ctx context.Context) error {
	vtlog := j.logger.WithField("job", j.Name())

	channels, err := j.datasets.YTChannels(j.cfg.Dataset)
	if err != nil {
		return err
	}
	seen, err := j.seenRepo.Load(ctx, j.cfg.EndedCollection)
	if err != nil {
		return err
	}
	tracked, err := j.liveRepo.Load(ctx, j.cfg.LiveCollection)
	if err != nil {
		return err
	}

	// 阶段一：RSS里出现、但既不在已结束名单也不在追踪列表里的，才是新ID
	videoChannel := make(map[string]model.YTChannel)
	var newIDs []string
	for _, ch := range channels {
		ids, err := j.source.FetchFeedVideoIDs(ctx, ch.ID)
		if err != nil {
			vtlog.WithError(err).WithField("channel", ch.ID).Warn("订阅源拉取失败，跳过该频道")
			continue
		}
		known := knownIDSet(seen[ch.ID], tracked[ch.ID])
		for _, id := range ids {
			if _, ok := known[id]; ok {
				continue
			}
			videoChannel[id] = ch
			newIDs = append(newIDs, id)
		}
	}
	if len(newIDs) == 0 {
		vtlog.Debug("无新视频")
		return nil
	}
	vtlog.WithField("new", len(newIDs)).Info("发现新视频，查询直播详情")

	// 阶段二：分批查详情。接口没返回的ID视同非直播（已删除/设为私有），
	// 同样进已结束名单，避免每周期反复请求一个查不到的ID。
	endedAdd := make(map[string][]string)
	trackedDirty := make(map[string]struct{})
	for start := 0; start < len(newIDs); start += ytBatchSize {
		end := start + ytBatchSize
		if end > len(newIDs) {
			end = len(newIDs)
		}
		batch := newIDs[start:end]
		items, err := j.source.FetchVideos(ctx, batch)
		if err != nil {
			vtlog.WithError(err).Warn("Data API查询失败，本批ID留待下周期")
			continue
		}
		returned := make(map[string]struct{}, len(items))
		for i := range items {
			item := &items[i]
			returned[item.ID] = struct{}{}
			ch := videoChannel[item.ID]
			ev := j.source.ParseVideo(item, ch.Group)
			if ev == nil || ev.Status == model.StatusPast {
				endedAdd[ch.ID] = append(endedAdd[ch.ID], item.ID)
				continue
			}
			tracked[ch.ID] = append(tracked[ch.ID], ev)
			trackedDirty[ch.ID] = struct{}{}
		}
		for _, id := range batch {
			if _, ok := returned[id]; !ok {
				ch := videoChannel[id]
				endedAdd[ch.ID] = append(endedAdd[ch.ID], id)
			}
		}
	}

	for channelID := range trackedDirty {
		if err := j.liveRepo.SaveChannel(ctx, j.cfg.LiveCollection, channelID, tracked[channelID]); err != nil {
			return err
		}
	}
	for channelID, ids := range endedAdd {
		if err := j.seenRepo.SaveChannel(ctx, j.cfg.EndedCollection, channelID, append(seen[channelID], ids...)); err != nil {
			return err
		}
	}
	return nil
}

func knownIDSet(seenIDs []string, events []*model.LiveEvent) map[string]struct{} {
	set := make(map[string]struct{}, len(seenIDs)+len(events))
	for _, id := range seenIDs {
		set[id] = struct{}{}
	}
	for _, ev := range events {
		set[ev.ID] = struct{}{}
	}
	return set
}
