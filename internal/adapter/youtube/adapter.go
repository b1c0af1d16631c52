package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"VTSync/internal/config"
	"VTSync/internal/model"
	"VTSync/internal/utils/apikey"
	"VTSync/internal/utils/httpclient"
	"VTSync/internal/utils/timeparse"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
)

const (
	feedURL    = "https://www.youtube.com/feeds/videos.xml"
	dataAPIURL = "https://www.googleapis.com/youtube/v3"
)

// Adapter YouTube两段式适配器：RSS订阅源找新视频ID（便宜、高频），
// Data API查直播详情（计费、低频、多Key轮换）。
type Adapter struct {
	cfg        *config.PlatformConfig
	httpClient *http.Client
	keys       *apikey.RotatingKey
	feedParser *gofeed.Parser
	logger     *logrus.Logger
}

func NewYouTubeAdapter(cfg *config.PlatformConfig, keys *apikey.RotatingKey, logger *logrus.Logger) *Adapter {
	client := httpclient.NewHTTPClient(cfg, logger)
	fp := gofeed.NewParser()
	fp.Client = client
	return &Adapter{
		cfg:        cfg,
		httpClient: client,
		keys:       keys,
		feedParser: fp,
		logger:     logger,
	}
}

// FetchFeedVideoIDs 拉取频道RSS源里的全部视频ID（阶段一）
func (a *Adapter) FetchFeedVideoIDs(ctx context.Context, channelID string) ([]string, error) {
	feed, err := a.feedParser.ParseURLWithContext(feedURL+"?channel_id="+url.QueryEscape(channelID), ctx)
	if err != nil {
		return nil, fmt.Errorf("拉取频道%s订阅源失败: %w", channelID, err)
	}

	ids := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		// GUID形如 yt:video:VIDEOID
		if !strings.HasPrefix(item.GUID, "yt:video:") {
			continue
		}
		ids = append(ids, strings.TrimPrefix(item.GUID, "yt:video:"))
	}
	return ids, nil
}

// FetchVideos 调用Data API查询视频详情（阶段二，消耗配额，Key轮换）
func (a *Adapter) FetchVideos(ctx context.Context, videoIDs []string) ([]model.YTVideoItem, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	params := url.Values{}
	params.Set("part", "snippet,liveStreamingDetails")
	params.Set("id", strings.Join(videoIDs, ","))
	params.Set("key", a.keys.Get())

	var resp model.YTVideoListResponse
	if err := httpclient.GetJSON(ctx, a.httpClient, dataAPIURL+"/videos", params, nil, &resp); err != nil {
		return nil, fmt.Errorf("请求Data API失败: %w", err)
	}
	return resp.Items, nil
}

// ParseVideo 将视频资源归一化为LiveEvent。
// 返回nil表示"不是直播"（缺liveStreamingDetails或liveBroadcastContent为空），
// 调用方应将其记入已结束名单，之后不再请求。
func (a *Adapter) ParseVideo(item *model.YTVideoItem, group string) *model.LiveEvent {
	if item.LiveStreamingDetails == nil {
		return nil
	}
	details := item.LiveStreamingDetails

	status := model.StatusUpcoming
	var startTime int64
	if details.ScheduledStartTime != "" {
		if ts, err := timeparse.ParseRFC3339(details.ScheduledStartTime); err == nil {
			startTime = ts
		}
	}
	if details.ActualStartTime != "" {
		if ts, err := timeparse.ParseRFC3339(details.ActualStartTime); err == nil {
			status = model.StatusLive
			startTime = ts
		}
	}

	broadcast := item.Snippet.LiveBroadcastContent
	if broadcast == "" || broadcast == "none" {
		// 空/none说明不是（或不再是）直播内容
		if details.ActualEndTime == "" {
			return nil
		}
	}

	event := &model.LiveEvent{
		ID:        item.ID,
		SourceID:  item.ID,
		Title:     item.Snippet.Title,
		StartTime: startTime,
		Status:    status,
		Channel:   item.Snippet.ChannelID,
		Thumbnail: fmt.Sprintf("https://i.ytimg.com/vi/%s/maxresdefault.jpg", item.ID),
		Platform:  model.PlatformYouTube,
		Group:     group,
	}

	if details.ActualEndTime != "" {
		if ts, err := timeparse.ParseRFC3339(details.ActualEndTime); err == nil {
			event.Status = model.StatusPast
			event.EndTime = &ts
		}
	}
	if details.ConcurrentViewers != "" {
		if n, err := strconv.Atoi(details.ConcurrentViewers); err == nil {
			event.Viewers = &n
		}
	}
	return event
}

// channelBatchSize channels.list单次最多接受50个ID
const channelBatchSize = 50

// FetchChannels 批量拉取频道统计，实现interfaces.ChannelStatsFetcher。
// 同样走Data API并消耗配额，Key轮换。
func (a *Adapter) FetchChannels(ctx context.Context, channelIDs []string) ([]*model.ChannelStats, error) {
	stats := make([]*model.ChannelStats, 0, len(channelIDs))
	for start := 0; start < len(channelIDs); start += channelBatchSize {
		end := start + channelBatchSize
		if end > len(channelIDs) {
			end = len(channelIDs)
		}

		params := url.Values{}
		params.Set("part", "snippet,statistics")
		params.Set("id", strings.Join(channelIDs[start:end], ","))
		params.Set("key", a.keys.Get())

		var resp model.YTChannelListResponse
		if err := httpclient.GetJSON(ctx, a.httpClient, dataAPIURL+"/channels", params, nil, &resp); err != nil {
			return nil, fmt.Errorf("请求Data API频道统计失败: %w", err)
		}
		for i := range resp.Items {
			stats = append(stats, a.ParseChannel(&resp.Items[i]))
		}
	}
	return stats, nil
}

// ParseChannel 将频道资源归一化为ChannelStats。统计字段是字符串数字，解析失败按0处理。
func (a *Adapter) ParseChannel(item *model.YTChannelItem) *model.ChannelStats {
	subscribers, _ := strconv.ParseInt(item.Statistics.SubscriberCount, 10, 64)
	views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
	videos, _ := strconv.ParseInt(item.Statistics.VideoCount, 10, 64)
	return &model.ChannelStats{
		ID:              item.ID,
		Name:            item.Snippet.Title,
		Description:     item.Snippet.Description,
		Thumbnail:       item.Snippet.Thumbnails.High.URL,
		SubscriberCount: subscribers,
		ViewCount:       views,
		VideoCount:      videos,
		Platform:        model.PlatformYouTube,
	}
}
