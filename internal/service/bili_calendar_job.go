package service

import (
	"context"
	"sort"

	"VTSync/internal/config"
	"VTSync/internal/interfaces"
	"VTSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// BiliCalendarJob 单个配对的预约日历任务：拉取当月预约节目，
// 写入 {pairing}_data 集合的upcoming字段（live字段不动）。
type BiliCalendarJob struct {
	pairing  string
	cfg      config.PairingConfig
	calendar interfaces.CalendarFetcher
	liveRepo *repository.LiveRepository
	datasets *DatasetService
	logger   *logrus.Logger
}

func NewBiliCalendarJob(pairing string, cfg config.PairingConfig, calendar interfaces.CalendarFetcher,
	liveRepo *repository.LiveRepository, datasets *DatasetService, logger *logrus.Logger) *BiliCalendarJob {
	return &BiliCalendarJob{
		pairing:  pairing,
		cfg:      cfg,
		calendar: calendar,
		liveRepo: liveRepo,
		datasets: datasets,
		logger:   logger,
	}
}

func (j *BiliCalendarJob) Name() string {
	return "bili_calendar_" + j.pairing
}

func (j *BiliCalendarJob) Run(ctx context.Context) error {
	vtlog := j.logger.WithField("job", j.Name())

	entries, err := j.datasets.PairingEntries(j.cfg.Dataset)
	if err != nil {
		return err
	}
	uids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.UID != "" {
			uids = append(uids, e.UID)
		}
	}

	upcoming, err := j.calendar.FetchCalendar(ctx, uids)
	if err != nil {
		return err
	}
	sort.SliceStable(upcoming, func(i, k int) bool {
		return upcoming[i].StartTime < upcoming[k].StartTime
	})

	// 预约列表不做空保护：过期节目必须被空列表冲掉
	if err := j.liveRepo.UpdateUpcoming(ctx, j.cfg.LiveCollection, upcoming); err != nil {
		return err
	}
	vtlog.WithField("upcoming", len(upcoming)).Info("预约列表已更新")
	return nil
}
