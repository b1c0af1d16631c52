package service

import (
	"context"
	"fmt"
	"sync"

	"VTSync/internal/config"
	"VTSync/internal/interfaces"
	"VTSync/internal/model"
	"VTSync/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BiliLiveJob 单个配对的BiliBili房间心跳任务：
// 并发探测数据集里的全部房间，归一化后交给归并引擎过滤转播，
// 结果写入 {pairing}_data 集合的live字段。
type BiliLiveJob struct {
	pairing    string
	cfg        config.PairingConfig
	rooms      interfaces.RoomStatusFetcher
	primary    interfaces.PrimaryLiveSource
	reconciler *Reconciler
	liveRepo   *repository.LiveRepository
	datasets   *DatasetService
	logger     *logrus.Logger
}

func NewBiliLiveJob(pairing string, cfg config.PairingConfig, rooms interfaces.RoomStatusFetcher,
	primary interfaces.PrimaryLiveSource, reconciler *Reconciler,
	liveRepo *repository.LiveRepository, datasets *DatasetService, logger *logrus.Logger) *BiliLiveJob {
	return &BiliLiveJob{
		pairing:    pairing,
		cfg:        cfg,
		rooms:      rooms,
		primary:    primary,
		reconciler: reconciler,
		liveRepo:   liveRepo,
		datasets:   datasets,
		logger:     logger,
	}
}

func (j *BiliLiveJob) Name() string {
	return "bili_live_" + j.pairing
}

func (j *BiliLiveJob) Run(ctx context.Context) error {
	vtlog := j.logger.WithFields(logrus.Fields{"job": j.Name(), "run": uuid.NewString()[:8]})

	entries, err := j.datasets.PairingEntries(j.cfg.Dataset)
	if err != nil {
		return err
	}

	// 主源失败则放弃本周期：没有主源列表就无法判定转播，
	// 宁可保留上一周期的数据也不能把转播写成本源直播。
	primaryLives, primaryUpcoming, err := j.primary.FetchLives(ctx, j.cfg.PrimaryEndpoint)
	if err != nil {
		return fmt.Errorf("主源拉取失败，跳过本周期: %w", err)
	}

	candidates := j.fetchRooms(ctx, entries, vtlog)
	vtlog.WithFields(logrus.Fields{
		"rooms":      len(entries),
		"candidates": len(candidates),
	}).Debug("房间探测完成")

	output, err := j.reconciler.Reconcile(ctx, &ReconcileInput{
		Pairing:         j.pairing,
		IgnoredColl:     j.cfg.IgnoredCollection,
		Candidates:      candidates,
		PrimaryLives:    primaryLives,
		PrimaryUpcoming: primaryUpcoming,
		RoomMapping:     model.BuildRoomMapping(entries),
	})
	if err != nil {
		return err
	}

	// 结果为空时只有"上周期非空"才写：避免每个空闲周期都打一次库
	if len(output) == 0 {
		doc, err := j.liveRepo.FetchLive(ctx, j.cfg.LiveCollection)
		if err != nil {
			return err
		}
		if len(doc.Live) == 0 {
			vtlog.Debug("无直播且文档已为空，跳过写入")
			return nil
		}
	}

	if err := j.liveRepo.UpdateLive(ctx, j.cfg.LiveCollection, output); err != nil {
		return err
	}
	vtlog.WithField("live", len(output)).Info("直播列表已更新")
	return nil
}

// fetchRooms 并发探测全部房间，按完成顺序收集。
// 单个房间失败只告警跳过，顺序无关紧要——归并引擎最后会统一排序。
func (j *BiliLiveJob) fetchRooms(ctx context.Context, entries []model.DatasetEntry, vtlog *logrus.Entry) []*model.LiveEvent {
	results := make(chan *model.LiveEvent, len(entries))
	var wg sync.WaitGroup
	for _, entry := range entries {
		wg.Add(1)
		go func(roomID string) {
			defer wg.Done()
			info, err := j.rooms.FetchRoom(ctx, roomID)
			if err != nil {
				vtlog.WithError(err).WithField("room", roomID).Warn("房间探测失败，跳过")
				return
			}
			if ev := j.rooms.ParseRoomLive(info, roomID); ev != nil {
				results <- ev
			}
		}(entry.RoomID)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var candidates []*model.LiveEvent
	for ev := range results {
		candidates = append(candidates, ev)
	}
	return candidates
}
