package youtube

import (
	"testing"

	"VTSync/internal/config"
	"VTSync/internal/model"
	"VTSync/internal/utils/apikey"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter() *Adapter {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	keys := apikey.NewRotatingKey([]string{"test-key"}, 60, logger)
	return NewYouTubeAdapter(&config.PlatformConfig{}, keys, logger)
}

func videoItem(id string, snippet model.YTSnippet, details *model.YTLiveStreamingDetails) *model.YTVideoItem {
	return &model.YTVideoItem{ID: id, Snippet: snippet, LiveStreamingDetails: details}
}

func TestParseVideoNotALiveStream(t *testing.T) {
	a := newTestAdapter()
	// 没有liveStreamingDetails的是普通视频
	assert.Nil(t, a.ParseVideo(videoItem("vid1", model.YTSnippet{}, nil), "hololive"))
	// broadcast为none且没有结束时间：上传视频
	assert.Nil(t, a.ParseVideo(videoItem("vid2",
		model.YTSnippet{LiveBroadcastContent: "none"},
		&model.YTLiveStreamingDetails{}), "hololive"))
}

func TestParseVideoUpcoming(t *testing.T) {
	a := newTestAdapter()
	ev := a.ParseVideo(videoItem("vid1",
		model.YTSnippet{Title: "枠", ChannelID: "UCaaa", LiveBroadcastContent: "upcoming"},
		&model.YTLiveStreamingDetails{ScheduledStartTime: "2021-01-01T02:00:00Z"}), "hololive")
	require.NotNil(t, ev)
	assert.Equal(t, "vid1", ev.ID) // YouTube直接用视频ID
	assert.Equal(t, model.StatusUpcoming, ev.Status)
	assert.Equal(t, int64(1609466400), ev.StartTime)
	assert.Equal(t, "UCaaa", ev.Channel)
	assert.Equal(t, "hololive", ev.Group)
	assert.Equal(t, "https://i.ytimg.com/vi/vid1/maxresdefault.jpg", ev.Thumbnail)
}

func TestParseVideoLive(t *testing.T) {
	a := newTestAdapter()
	ev := a.ParseVideo(videoItem("vid1",
		model.YTSnippet{ChannelID: "UCaaa", LiveBroadcastContent: "live"},
		&model.YTLiveStreamingDetails{
			ScheduledStartTime: "2021-01-01T02:00:00Z",
			ActualStartTime:    "2021-01-01T02:05:00Z",
			ConcurrentViewers:  "12000",
		}), "hololive")
	require.NotNil(t, ev)
	assert.Equal(t, model.StatusLive, ev.Status)
	// 实际开播时间优先于预定时间
	assert.Equal(t, int64(1609466700), ev.StartTime)
	require.NotNil(t, ev.Viewers)
	assert.Equal(t, 12000, *ev.Viewers)
}

func TestParseVideoEnded(t *testing.T) {
	a := newTestAdapter()
	ev := a.ParseVideo(videoItem("vid1",
		model.YTSnippet{ChannelID: "UCaaa", LiveBroadcastContent: "none"},
		&model.YTLiveStreamingDetails{
			ActualStartTime: "2021-01-01T02:00:00Z",
			ActualEndTime:   "2021-01-01T04:00:00Z",
		}), "hololive")
	require.NotNil(t, ev)
	assert.Equal(t, model.StatusPast, ev.Status)
	require.NotNil(t, ev.EndTime)
	assert.Equal(t, int64(1609473600), *ev.EndTime)
}

func TestParseChannel(t *testing.T) {
	a := newTestAdapter()
	stats := a.ParseChannel(&model.YTChannelItem{
		ID: "UCaaa",
		Snippet: model.YTChannelSnippet{
			Title:       "Aqua Ch.",
			Description: "バーチャルアイドル",
			Thumbnails:  model.YTThumbnails{High: model.YTThumbnail{URL: "https://yt3.ggpht.com/aaa"}},
		},
		Statistics: model.YTChannelStatistics{
			SubscriberCount: "1230000",
			ViewCount:       "456789012",
			VideoCount:      "789",
		},
	})
	require.NotNil(t, stats)
	assert.Equal(t, "UCaaa", stats.ID)
	assert.Equal(t, "Aqua Ch.", stats.Name)
	assert.Equal(t, "バーチャルアイドル", stats.Description)
	assert.Equal(t, "https://yt3.ggpht.com/aaa", stats.Thumbnail)
	assert.Equal(t, int64(1230000), stats.SubscriberCount)
	assert.Equal(t, int64(456789012), stats.ViewCount)
	assert.Equal(t, int64(789), stats.VideoCount)
	assert.Equal(t, model.PlatformYouTube, stats.Platform)
}

func TestParseChannelHiddenStats(t *testing.T) {
	a := newTestAdapter()
	// 隐藏订阅数的频道statistics缺字段，按0落库而不是报错
	stats := a.ParseChannel(&model.YTChannelItem{
		ID:      "UCbbb",
		Snippet: model.YTChannelSnippet{Title: "Secretive Ch."},
	})
	require.NotNil(t, stats)
	assert.Equal(t, int64(0), stats.SubscriberCount)
	assert.Equal(t, int64(0), stats.ViewCount)
}
