package service

import (
	"context"
	"testing"
	"time"

	"VTSync/internal/config"
	"VTSync/internal/model"
	"VTSync/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeYTSource struct {
	feeds      map[string][]string
	videos     map[string]model.YTVideoItem
	parsed     map[string]*model.LiveEvent
	fetchCalls int
}

func (f *fakeYTSource) FetchFeedVideoIDs(_ context.Context, channelID string) ([]string, error) {
	return f.feeds[channelID], nil
}

func (f *fakeYTSource) FetchVideos(_ context.Context, videoIDs []string) ([]model.YTVideoItem, error) {
	f.fetchCalls++
	var items []model.YTVideoItem
	for _, id := range videoIDs {
		if item, ok := f.videos[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeYTSource) ParseVideo(item *model.YTVideoItem, _ string) *model.LiveEvent {
	return f.parsed[item.ID]
}

func ytTestConfig() config.YouTubeConfig {
	return config.YouTubeConfig{
		Dataset:         "yt.json",
		LiveCollection:  "yt_live",
		EndedCollection: "yt_ended_ids",
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestYouTubeFeedsJobDiscoversNewVideo(t *testing.T) {
	store := newFakeStore()
	dir := t.TempDir()
	writeDataset(t, dir, "yt.json", `[{"id":"UCaaa","name":"A","affs":"hololive"}]`)

	src := &fakeYTSource{
		feeds:  map[string][]string{"UCaaa": {"vid1", "vid2"}},
		videos: map[string]model.YTVideoItem{"vid1": {ID: "vid1"}, "vid2": {ID: "vid2"}},
		parsed: map[string]*model.LiveEvent{
			"vid1": {ID: "vid1", Channel: "UCaaa", Status: model.StatusUpcoming, StartTime: 1700010000, Platform: model.PlatformYouTube},
			// vid2 不是直播
		},
	}
	job := NewYouTubeFeedsJob(ytTestConfig(), src,
		repository.NewYTLiveRepository(store), repository.NewSeenRepository(store),
		NewDatasetService(dir), quietLogger())

	require.NoError(t, job.Run(context.Background()))

	var events []*model.LiveEvent
	require.True(t, store.field("yt_live", "UCaaa", &events))
	require.Len(t, events, 1)
	assert.Equal(t, "vid1", events[0].ID)

	var ended []string
	require.True(t, store.field("yt_ended_ids", "UCaaa", &ended))
	assert.Equal(t, []string{"vid2"}, ended)
}

func TestYouTubeFeedsJobSkipsKnownIDs(t *testing.T) {
	store := newFakeStore()
	dir := t.TempDir()
	writeDataset(t, dir, "yt.json", `[{"id":"UCaaa","name":"A","affs":"hololive"}]`)
	// vid1 已在结束名单，vid2 已在追踪列表
	require.NoError(t, store.Upsert(context.Background(), "yt_ended_ids",
		map[string]interface{}{"UCaaa": []string{"vid1"}}))
	require.NoError(t, store.Upsert(context.Background(), "yt_live",
		map[string]interface{}{"UCaaa": []*model.LiveEvent{{ID: "vid2", Status: model.StatusUpcoming}}}))

	src := &fakeYTSource{feeds: map[string][]string{"UCaaa": {"vid1", "vid2"}}}
	job := NewYouTubeFeedsJob(ytTestConfig(), src,
		repository.NewYTLiveRepository(store), repository.NewSeenRepository(store),
		NewDatasetService(dir), quietLogger())

	require.NoError(t, job.Run(context.Background()))
	// 全部已知：一次Data API都不许调
	assert.Zero(t, src.fetchCalls)
}

func TestYouTubeFeedsJobMissingVideoGoesToEnded(t *testing.T) {
	store := newFakeStore()
	dir := t.TempDir()
	writeDataset(t, dir, "yt.json", `[{"id":"UCaaa","name":"A","affs":"hololive"}]`)

	// RSS里有，但Data API查不到（已删除/私有）
	src := &fakeYTSource{feeds: map[string][]string{"UCaaa": {"ghost"}}}
	job := NewYouTubeFeedsJob(ytTestConfig(), src,
		repository.NewYTLiveRepository(store), repository.NewSeenRepository(store),
		NewDatasetService(dir), quietLogger())

	require.NoError(t, job.Run(context.Background()))
	var ended []string
	require.True(t, store.field("yt_ended_ids", "UCaaa", &ended))
	assert.Equal(t, []string{"ghost"}, ended)
}

func newYTLiveTestJob(store *fakeStore, src *fakeYTSource, nowUnix int64) *YouTubeLiveJob {
	job := NewYouTubeLiveJob(ytTestConfig(), src,
		repository.NewYTLiveRepository(store), repository.NewSeenRepository(store), quietLogger())
	job.now = func() time.Time { return time.Unix(nowUnix, 0) }
	return job
}

func TestYouTubeLiveJobRefreshesAndRetires(t *testing.T) {
	store := newFakeStore()
	now := int64(1700000000)
	require.NoError(t, store.Upsert(context.Background(), "yt_live",
		map[string]interface{}{"UCaaa": []*model.LiveEvent{
			{ID: "live1", Status: model.StatusLive, StartTime: now - 600, Group: "hololive"},
			{ID: "done1", Status: model.StatusLive, StartTime: now - 7200, Group: "hololive"},
			{ID: "gone1", Status: model.StatusUpcoming, StartTime: now, Group: "hololive"},
		}}))

	endTime := now - 60
	src := &fakeYTSource{
		videos: map[string]model.YTVideoItem{
			"live1": {ID: "live1"},
			"done1": {ID: "done1"},
			// gone1 接口不再返回（已私有化）
		},
		parsed: map[string]*model.LiveEvent{
			"live1": {ID: "live1", Channel: "UCaaa", Status: model.StatusLive, StartTime: now - 600, Group: "hololive"},
			"done1": {ID: "done1", Channel: "UCaaa", Status: model.StatusPast, StartTime: now - 7200, EndTime: &endTime, Group: "hololive"},
		},
	}
	job := newYTLiveTestJob(store, src, now)

	require.NoError(t, job.Run(context.Background()))

	var events []*model.LiveEvent
	require.True(t, store.field("yt_live", "UCaaa", &events))
	require.Len(t, events, 1)
	assert.Equal(t, "live1", events[0].ID)

	var ended []string
	require.True(t, store.field("yt_ended_ids", "UCaaa", &ended))
	assert.ElementsMatch(t, []string{"done1", "gone1"}, ended)
}

func TestYouTubeLiveJobDropsStaleUpcoming(t *testing.T) {
	store := newFakeStore()
	now := int64(1700000000)
	stale := now - int64((7 * time.Hour).Seconds())
	require.NoError(t, store.Upsert(context.Background(), "yt_live",
		map[string]interface{}{"UCaaa": []*model.LiveEvent{
			{ID: "vid1", Status: model.StatusUpcoming, StartTime: stale, Group: "hololive"},
		}}))

	src := &fakeYTSource{
		videos: map[string]model.YTVideoItem{"vid1": {ID: "vid1"}},
		parsed: map[string]*model.LiveEvent{
			// 刷新后仍是upcoming，且预定时间已过去7小时
			"vid1": {ID: "vid1", Channel: "UCaaa", Status: model.StatusUpcoming, StartTime: stale, Group: "hololive"},
		},
	}
	job := newYTLiveTestJob(store, src, now)

	require.NoError(t, job.Run(context.Background()))

	var events []*model.LiveEvent
	require.True(t, store.field("yt_live", "UCaaa", &events))
	assert.Empty(t, events)

	var ended []string
	require.True(t, store.field("yt_ended_ids", "UCaaa", &ended))
	assert.Equal(t, []string{"vid1"}, ended)
}
