package model

// YTVideoListResponse Data API videos.list 的外层结构
type YTVideoListResponse struct {
	Items []YTVideoItem `json:"items"`
}

// YTVideoItem 单个视频资源（part=snippet,liveStreamingDetails）
type YTVideoItem struct {
	ID                   string                  `json:"id"`
	Snippet              YTSnippet               `json:"snippet"`
	LiveStreamingDetails *YTLiveStreamingDetails `json:"liveStreamingDetails,omitempty"` // 缺失说明不是直播
}

// YTSnippet 视频基础信息
type YTSnippet struct {
	Title                string `json:"title"`
	ChannelID            string `json:"channelId"`
	LiveBroadcastContent string `json:"liveBroadcastContent"` // live/upcoming/none（空视为unknown）
}

// YTLiveStreamingDetails 直播细节，时间均为RFC3339字符串
type YTLiveStreamingDetails struct {
	ScheduledStartTime string `json:"scheduledStartTime,omitempty"`
	ActualStartTime    string `json:"actualStartTime,omitempty"`
	ActualEndTime      string `json:"actualEndTime,omitempty"`
	ConcurrentViewers  string `json:"concurrentViewers,omitempty"` // API返回字符串数字
}

// HoloAPILiveResponse 主源聚合API的 live 端点结构
type HoloAPILiveResponse struct {
	Live     []*LiveEvent `json:"live"`
	Upcoming []*LiveEvent `json:"upcoming"`
}

// YTChannelListResponse Data API channels.list 的外层结构
type YTChannelListResponse struct {
	Items []YTChannelItem `json:"items"`
}

// YTChannelItem 单个频道资源（part=snippet,statistics）
type YTChannelItem struct {
	ID         string              `json:"id"`
	Snippet    YTChannelSnippet    `json:"snippet"`
	Statistics YTChannelStatistics `json:"statistics"`
}

// YTChannelSnippet 频道基本信息
type YTChannelSnippet struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Thumbnails  YTThumbnails `json:"thumbnails"`
}

// YTThumbnails 各规格头像，取high档
type YTThumbnails struct {
	High YTThumbnail `json:"high"`
}

type YTThumbnail struct {
	URL string `json:"url"`
}

// YTChannelStatistics 频道统计，数值均为字符串数字
type YTChannelStatistics struct {
	SubscriberCount string `json:"subscriberCount"`
	ViewCount       string `json:"viewCount"`
	VideoCount      string `json:"videoCount"`
}
