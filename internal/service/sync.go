package service

import (
	"context"
	"fmt"
	"sort"

	"VTSync/internal/adapter"
	"VTSync/internal/config"
	"VTSync/internal/interfaces"
	"VTSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// Scheduled 一个任务及其轮询间隔（分钟）
type Scheduled struct {
	Job      Job
	Interval int
}

// SyncService 任务注册表：按配置装配全部轮询任务，
// 调度器和手动触发接口都从这里取任务。新增平台只需在装配处挂一行。
type SyncService struct {
	logger *logrus.Logger
	jobs   []Scheduled
	byName map[string]Job
}

func NewSyncService(cfg *config.Config, reg *adapter.Registry, store interfaces.DocStore, logger *logrus.Logger) *SyncService {
	datasets := NewDatasetService(cfg.Dataset.Dir)
	liveRepo := repository.NewLiveRepository(store)
	channelRepo := repository.NewChannelRepository(store)
	ytLiveRepo := repository.NewYTLiveRepository(store)
	seenRepo := repository.NewSeenRepository(store)
	reconciler := NewReconciler(repository.NewIgnoreRepository(store), cfg.Reconcile.GraceWindow, logger)

	s := &SyncService{
		logger: logger,
		byName: make(map[string]Job),
	}

	// 配对任务按名字排序装配，保证注册顺序稳定
	pairings := make([]string, 0, len(cfg.Pairings))
	for name := range cfg.Pairings {
		pairings = append(pairings, name)
	}
	sort.Strings(pairings)
	for _, name := range pairings {
		pc := cfg.Pairings[name]
		s.register(NewBiliLiveJob(name, pc, reg.BiliBili(), reg.PrimarySource(), reconciler, liveRepo, datasets, logger), cfg.Jobs.BiliLive)
		s.register(NewBiliCalendarJob(name, pc, reg.BiliBili(), liveRepo, datasets, logger), cfg.Jobs.BiliCalendar)
	}
	if len(cfg.Pairings) > 0 {
		s.register(NewBiliChannelsJob(cfg.Pairings, reg.BiliBili(), channelRepo, datasets, logger), cfg.Jobs.BiliChannels)
	}

	if cfg.YouTube.Dataset != "" {
		s.register(NewYouTubeFeedsJob(cfg.YouTube, reg.YouTube(), ytLiveRepo, seenRepo, datasets, logger), cfg.Jobs.YouTubeFeeds)
		s.register(NewYouTubeLiveJob(cfg.YouTube, reg.YouTube(), ytLiveRepo, seenRepo, logger), cfg.Jobs.YouTubeLive)
		s.register(NewPlatformChannelsJob("yt_channels", cfg.YouTube.Dataset, cfg.YouTube.ChannelsCollection, reg.YouTube(), channelRepo, datasets, logger).SortByName(), cfg.Jobs.YouTubeChannels)
	}
	if cfg.Twitch.Dataset != "" {
		s.register(NewPlatformLiveJob("twitch_live", cfg.Twitch.Dataset, cfg.Twitch.Collection, reg.Twitch(), liveRepo, datasets, logger), cfg.Jobs.TwitchLive)
		s.register(NewPlatformChannelsJob("twitch_channels", cfg.Twitch.Dataset, cfg.Twitch.Collection, reg.Twitch(), channelRepo, datasets, logger), cfg.Jobs.TwitchChannels)
	}
	if cfg.Twitcasting.Dataset != "" {
		s.register(NewPlatformLiveJob("twitcasting_live", cfg.Twitcasting.Dataset, cfg.Twitcasting.Collection, reg.Twitcasting(), liveRepo, datasets, logger), cfg.Jobs.TwitcastingLive)
		s.register(NewPlatformChannelsJob("twitcasting_channels", cfg.Twitcasting.Dataset, cfg.Twitcasting.ChannelsCollection, reg.Twitcasting(), channelRepo, datasets, logger), cfg.Jobs.TwitcastingChannels)
	}
	return s
}

func (s *SyncService) register(job Job, interval int) {
	if interval <= 0 {
		s.logger.WithField("job", job.Name()).Warn("任务间隔未配置，该任务不调度")
		return
	}
	s.jobs = append(s.jobs, Scheduled{Job: job, Interval: interval})
	s.byName[job.Name()] = job
}

// Jobs 全部已注册任务及其间隔（注册顺序）
func (s *SyncService) Jobs() []Scheduled {
	return s.jobs
}

// JobNames 全部任务名（手动触发接口展示用）
func (s *SyncService) JobNames() []string {
	names := make([]string, 0, len(s.jobs))
	for _, sc := range s.jobs {
		names = append(names, sc.Job.Name())
	}
	return names
}

// RunJob 按名字立即执行一次任务（手动触发接口用）
func (s *SyncService) RunJob(ctx context.Context, name string) error {
	job, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("未注册的任务: %s", name)
	}
	s.logger.WithField("job", name).Info("手动触发任务")
	if err := job.Run(ctx); err != nil {
		return fmt.Errorf("任务%s执行失败: %w", name, err)
	}
	return nil
}
