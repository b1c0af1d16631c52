package twitcasting

import (
	"strings"
	"testing"
	"time"

	"VTSync/internal/config"
	"VTSync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(nowUnix int64) *Adapter {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	a := NewTwitcastingAdapter(&config.PlatformConfig{BaseURL: "https://twitcasting.tv"}, logger)
	a.now = func() time.Time { return time.Unix(nowUnix, 0) }
	return a
}

func heartbeatLine(fields map[int]string) string {
	parts := make([]string, 8)
	for i := range parts {
		parts[i] = "0"
	}
	for i, v := range fields {
		parts[i] = v
	}
	return strings.Join(parts, "\t")
}

func TestParseHeartbeatLive(t *testing.T) {
	a := newTestAdapter(1700000000)
	raw := heartbeatLine(map[int]string{
		0: "987654",
		3: "42",
		5: "77",
		6: "600",
		7: "%E3%83%A9%E3%82%B8%E3%82%AA",
	})

	ev := a.parseHeartbeat(raw, "someuser")
	require.NotNil(t, ev)
	assert.Equal(t, "twcast987654", ev.ID)
	assert.Equal(t, int64(1699999400), ev.StartTime) // now-已播600秒
	assert.Equal(t, "ラジオ", ev.Title)
	assert.Equal(t, "someuser", ev.Channel)
	require.NotNil(t, ev.Viewers)
	assert.Equal(t, 42, *ev.Viewers)
	require.NotNil(t, ev.PeakViewers)
	assert.Equal(t, 77, *ev.PeakViewers)
	assert.Equal(t, model.StatusLive, ev.Status)
}

func TestParseHeartbeatStableIDAcrossPolls(t *testing.T) {
	// 同一场次在相邻轮询间ID必须不变，否则忽略列表匹配和去重都会失效。
	// 已播秒数与本地时钟有秒级偏差，反推的开播时间不能参与ID。
	first := newTestAdapter(1700000000).
		parseHeartbeat(heartbeatLine(map[int]string{0: "987654", 6: "600"}), "u")
	second := newTestAdapter(1700000123).
		parseHeartbeat(heartbeatLine(map[int]string{0: "987654", 6: "721"}), "u")
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.StartTime, second.StartTime)
}

func TestParseHeartbeatOffline(t *testing.T) {
	a := newTestAdapter(1700000000)
	// 会话ID为空或"7"都表示未开播
	assert.Nil(t, a.parseHeartbeat(heartbeatLine(map[int]string{0: ""}), "u"))
	assert.Nil(t, a.parseHeartbeat(heartbeatLine(map[int]string{0: "7"}), "u"))
}

func TestParseHeartbeatTruncatedResponse(t *testing.T) {
	a := newTestAdapter(1700000000)
	assert.Nil(t, a.parseHeartbeat("123\t456", "u"))
	assert.Nil(t, a.parseHeartbeat("", "u"))
}

func TestParseHeartbeatDefaultTitle(t *testing.T) {
	a := newTestAdapter(1700000000)
	raw := heartbeatLine(map[int]string{0: "555", 6: "60", 7: ""})
	ev := a.parseHeartbeat(raw, "u")
	require.NotNil(t, ev)
	assert.Equal(t, "Radio Live #555", ev.Title)
}

func TestParseHeartbeatBadElapsed(t *testing.T) {
	a := newTestAdapter(1700000000)
	raw := heartbeatLine(map[int]string{0: "555", 6: "不是数字"})
	assert.Nil(t, a.parseHeartbeat(raw, "u"))
}
