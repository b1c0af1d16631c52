package twitch

import (
	"testing"

	"VTSync/internal/config"
	"VTSync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter() *Adapter {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewTwitchAdapter(
		&config.PlatformConfig{BaseURL: "https://api.twitch.tv/helix"},
		&config.TwitchConfig{ClientID: "cid", ClientSecret: "secret"},
		logger)
}

func TestParseStream(t *testing.T) {
	a := newTestAdapter()
	ev := a.ParseStream(&model.TwitchStream{
		ID:           "40952121085",
		UserID:       "123",
		UserLogin:    "someuser",
		Type:         "live",
		Title:        "gaming",
		ViewerCount:  321,
		StartedAt:    "2021-01-01T02:00:00Z",
		ThumbnailURL: "https://static-cdn.jtvnw.net/previews-ttv/live_user_someuser-{width}x{height}.jpg",
	})
	require.NotNil(t, ev)
	assert.Equal(t, "ttv40952121085_1609466400", ev.ID)
	assert.Equal(t, int64(1609466400), ev.StartTime)
	assert.Equal(t, "someuser", ev.Channel)
	assert.Equal(t, model.StatusLive, ev.Status)
	require.NotNil(t, ev.Viewers)
	assert.Equal(t, 321, *ev.Viewers)
	// 占位符必须被替换成实际分辨率
	assert.Equal(t, "https://static-cdn.jtvnw.net/previews-ttv/live_user_someuser-1280x720.jpg", ev.Thumbnail)
}

func TestParseStreamAnomalous(t *testing.T) {
	a := newTestAdapter()
	// type为空串是平台侧异常流
	assert.Nil(t, a.ParseStream(&model.TwitchStream{ID: "1", StartedAt: "2021-01-01T02:00:00Z"}))
	// started_at解析不了同样跳过
	assert.Nil(t, a.ParseStream(&model.TwitchStream{ID: "1", Type: "live", StartedAt: "昨天"}))
}
