package service

import (
	"context"
	"time"

	"VTSync/internal/config"
	"VTSync/internal/interfaces"
	"VTSync/internal/model"
	"VTSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// ytStalePastLimit 预定开播时间过去这么久仍未开播的，视为已放弃
const ytStalePastLimit = 6 * time.Hour

// YouTubeLiveJob 心跳阶段：对追踪列表里的全部视频刷新直播详情。
// 已结束、被删除/私有化、长期爽约的预定都从追踪列表移出并记入
// 已结束名单，剩下的更新状态和观看人数后写回。
type YouTubeLiveJob struct {
	cfg      config.YouTubeConfig
	source   interfaces.YTVideoSource
	liveRepo *repository.YTLiveRepository
	seenRepo *repository.SeenRepository
	logger   *logrus.Logger
	now      func() time.Time
}

func NewYouTubeLiveJob(cfg config.YouTubeConfig, source interfaces.YTVideoSource,
	liveRepo *repository.YTLiveRepository, seenRepo *repository.SeenRepository, logger *logrus.Logger) *YouTubeLiveJob {
	return &YouTubeLiveJob{
		cfg:      cfg,
		source:   source,
		liveRepo: liveRepo,
		seenRepo: seenRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func (j *YouTubeLiveJob) Name() string {
	return "yt_live"
}

func (j *YouTubeLiveJob) Run(ctx context.Context) error {
	vtlog := j.logger.WithField("job", j.Name())

	tracked, err := j.liveRepo.Load(ctx, j.cfg.LiveCollection)
	if err != nil {
		return err
	}
	var allIDs []string
	for _, events := range tracked {
		for _, ev := range events {
			allIDs = append(allIDs, ev.ID)
		}
	}
	if len(allIDs) == 0 {
		vtlog.Debug("追踪列表为空")
		return nil
	}

	// 分批刷详情，失败的批次保留旧状态下周期再试
	refreshed := make(map[string]*model.YTVideoItem)
	failed := make(map[string]struct{})
	for start := 0; start < len(allIDs); start += ytBatchSize {
		end := start + ytBatchSize
		if end > len(allIDs) {
			end = len(allIDs)
		}
		batch := allIDs[start:end]
		items, err := j.source.FetchVideos(ctx, batch)
		if err != nil {
			vtlog.WithError(err).Warn("Data API查询失败，本批保留旧状态")
			for _, id := range batch {
				failed[id] = struct{}{}
			}
			continue
		}
		for i := range items {
			refreshed[items[i].ID] = &items[i]
		}
	}

	nowUTC := j.now().UTC().Unix()
	endedAdd := make(map[string][]string)
	for channelID, events := range tracked {
		kept := make([]*model.LiveEvent, 0, len(events))
		for _, old := range events {
			if _, ok := failed[old.ID]; ok {
				kept = append(kept, old)
				continue
			}
			item, ok := refreshed[old.ID]
			if !ok {
				// 接口没返回：视频被删除或设为私有，直接出追踪列表
				vtlog.WithField("video", old.ID).Info("视频不可见，移出追踪")
				endedAdd[channelID] = append(endedAdd[channelID], old.ID)
				continue
			}
			ev := j.source.ParseVideo(item, old.Group)
			if ev == nil || ev.Status == model.StatusPast {
				endedAdd[channelID] = append(endedAdd[channelID], old.ID)
				continue
			}
			if ev.Status == model.StatusUpcoming && nowUTC-ev.StartTime > int64(ytStalePastLimit.Seconds()) {
				vtlog.WithField("video", old.ID).Info("预定长期未开播，移出追踪")
				endedAdd[channelID] = append(endedAdd[channelID], old.ID)
				continue
			}
			kept = append(kept, ev)
		}
		if err := j.liveRepo.SaveChannel(ctx, j.cfg.LiveCollection, channelID, kept); err != nil {
			return err
		}
	}

	if len(endedAdd) == 0 {
		return nil
	}
	seen, err := j.seenRepo.Load(ctx, j.cfg.EndedCollection)
	if err != nil {
		return err
	}
	for channelID, ids := range endedAdd {
		seen[channelID] = append(seen[channelID], ids...)
	}
	return j.seenRepo.SaveAll(ctx, j.cfg.EndedCollection, seen)
}
