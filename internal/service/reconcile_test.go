package service

import (
	"context"
	"testing"
	"time"

	"VTSync/internal/model"
	"VTSync/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIgnoredColl = "hololive_ignored"

func newTestReconciler(store *fakeStore, nowUnix int64) *Reconciler {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	r := NewReconciler(repository.NewIgnoreRepository(store), 300, logger)
	r.now = func() time.Time { return time.Unix(nowUnix, 0) }
	return r
}

func biliCandidate(roomID string, startTime int64) *model.LiveEvent {
	return &model.LiveEvent{
		ID:        model.BuildLiveID(model.PlatformBiliBili, roomID, startTime),
		SourceID:  roomID,
		Title:     "テスト",
		StartTime: startTime,
		Status:    model.StatusLive,
		Platform:  model.PlatformBiliBili,
	}
}

func TestReconcileSuppressesRestream(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, 1700000600)

	cand := biliCandidate("100", 1700000000)
	out, err := r.Reconcile(context.Background(), &ReconcileInput{
		Pairing:     "hololive",
		IgnoredColl: testIgnoredColl,
		Candidates:  []*model.LiveEvent{cand},
		PrimaryLives: []*model.LiveEvent{
			{ID: "ytvid1", Channel: "UCaaa", Status: model.StatusLive},
		},
		RoomMapping: model.ChannelRoomMapping{
			"100": {ChannelID: "UCaaa", Name: "A"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, out)

	// 转播ID立即持久化
	var ids []string
	require.True(t, store.field(testIgnoredColl, "data", &ids))
	assert.Equal(t, []string{cand.ID}, ids)
}

func TestReconcileKeepsIndependentLive(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, 1700000600)

	cand := biliCandidate("100", 1700000000)
	out, err := r.Reconcile(context.Background(), &ReconcileInput{
		Pairing:     "hololive",
		IgnoredColl: testIgnoredColl,
		Candidates:  []*model.LiveEvent{cand},
		PrimaryLives: []*model.LiveEvent{
			{ID: "ytvid1", Channel: "UCother", Status: model.StatusLive},
		},
		RoomMapping: model.ChannelRoomMapping{
			"100": {ChannelID: "UCaaa", Name: "A"},
		},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Same(t, cand, out[0])
	// 映射补了显示名
	assert.Equal(t, "A", out[0].ChannelName)
	// 没有新增转播，不触发落库
	assert.Zero(t, store.upserts[testIgnoredColl])
}

func TestReconcileUnmappedRoomPassesThrough(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, 1700000600)

	cand := biliCandidate("999", 1700000000)
	out, err := r.Reconcile(context.Background(), &ReconcileInput{
		Pairing:     "hololive",
		IgnoredColl: testIgnoredColl,
		Candidates:  []*model.LiveEvent{cand},
		PrimaryLives: []*model.LiveEvent{
			{ID: "ytvid1", Channel: "UCaaa", Status: model.StatusLive},
		},
		RoomMapping: model.ChannelRoomMapping{},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestReconcileIgnoreListShortCircuits(t *testing.T) {
	store := newFakeStore()
	cand := biliCandidate("100", 1700000000)
	// 预置忽略列表
	require.NoError(t, store.Upsert(context.Background(), testIgnoredColl,
		map[string]interface{}{"data": []string{cand.ID}}))
	store.upserts[testIgnoredColl] = 0

	r := newTestReconciler(store, 1700000600)
	out, err := r.Reconcile(context.Background(), &ReconcileInput{
		Pairing:     "hololive",
		IgnoredColl: testIgnoredColl,
		Candidates:  []*model.LiveEvent{cand},
		// 主源现在完全没报这场直播：防抖要求仍然压制
		PrimaryLives: nil,
		RoomMapping: model.ChannelRoomMapping{
			"100": {ChannelID: "UCaaa", Name: "A"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, out)
	// 短路发生在归属解析之前
	assert.Equal(t, "", cand.ChannelName)
	// 集合没变化就不重写
	assert.Zero(t, store.upserts[testIgnoredColl])
}

func TestReconcileGraceWindow(t *testing.T) {
	store := newFakeStore()
	// now = 开播时间+600s
	r := newTestReconciler(store, 1700000600)

	mapping := model.ChannelRoomMapping{
		"100": {ChannelID: "UCaaa", Name: "A"},
		"200": {ChannelID: "UCbbb", Name: "B"},
	}
	candA := biliCandidate("100", 1700000100)
	candB := biliCandidate("200", 1700000100)
	out, err := r.Reconcile(context.Background(), &ReconcileInput{
		Pairing:     "hololive",
		IgnoredColl: testIgnoredColl,
		Candidates:  []*model.LiveEvent{candA, candB},
		PrimaryUpcoming: []*model.LiveEvent{
			// 开播时间已过去600s > 宽限300s：视为在播
			{ID: "yt1", Channel: "UCaaa", StartTime: 1700000000, Status: model.StatusUpcoming},
			// 开播时间只过去100s，仍在宽限内：不算在播
			{ID: "yt2", Channel: "UCbbb", StartTime: 1700000500, Status: model.StatusUpcoming},
		},
		RoomMapping: mapping,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "200", out[0].SourceID)
}

func TestReconcileSortsByStartTime(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, 1700009999)

	late := biliCandidate("1", 1700000300)
	early := biliCandidate("2", 1700000100)
	mid := biliCandidate("3", 1700000200)
	out, err := r.Reconcile(context.Background(), &ReconcileInput{
		Pairing:     "hololive",
		IgnoredColl: testIgnoredColl,
		Candidates:  []*model.LiveEvent{late, early, mid},
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []int64{1700000100, 1700000200, 1700000300},
		[]int64{out[0].StartTime, out[1].StartTime, out[2].StartTime})
}

func TestReconcileFillsMissingID(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store, 1700000600)

	cand := &model.LiveEvent{
		SourceID:  "100",
		StartTime: 1700000000,
		Status:    model.StatusLive,
		Platform:  model.PlatformBiliBili,
	}
	out, err := r.Reconcile(context.Background(), &ReconcileInput{
		Pairing:     "hololive",
		IgnoredColl: testIgnoredColl,
		Candidates:  []*model.LiveEvent{cand},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "bili100_1700000000", out[0].ID)
}

// 两个周期的幂等性：第一周期判成转播，第二周期主源抖动不再报，
// 依然靠持久化的忽略列表压制。
func TestReconcileDebounceAcrossCycles(t *testing.T) {
	store := newFakeStore()
	mapping := model.ChannelRoomMapping{"100": {ChannelID: "UCaaa", Name: "A"}}

	r1 := newTestReconciler(store, 1700000600)
	cand := biliCandidate("100", 1700000000)
	out, err := r1.Reconcile(context.Background(), &ReconcileInput{
		Pairing:      "hololive",
		IgnoredColl:  testIgnoredColl,
		Candidates:   []*model.LiveEvent{cand},
		PrimaryLives: []*model.LiveEvent{{ID: "yt1", Channel: "UCaaa", Status: model.StatusLive}},
		RoomMapping:  mapping,
	})
	require.NoError(t, err)
	assert.Empty(t, out)

	// 新的Reconciler实例模拟进程内无状态，第二周期主源为空
	r2 := newTestReconciler(store, 1700000900)
	cand2 := biliCandidate("100", 1700000000)
	out, err = r2.Reconcile(context.Background(), &ReconcileInput{
		Pairing:     "hololive",
		IgnoredColl: testIgnoredColl,
		Candidates:  []*model.LiveEvent{cand2},
		RoomMapping: mapping,
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}
