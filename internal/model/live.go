package model

import "fmt"

// PlatformType 平台类型枚举
type PlatformType string

const (
	PlatformBiliBili    PlatformType = "bilibili"
	PlatformYouTube     PlatformType = "youtube"
	PlatformTwitch      PlatformType = "twitch"
	PlatformTwitcasting PlatformType = "twitcasting"
)

// LiveStatus 直播状态枚举
type LiveStatus string

const (
	StatusLive     LiveStatus = "live"     // 正在直播
	StatusUpcoming LiveStatus = "upcoming" // 预定直播
	StatusPast     LiveStatus = "past"     // 已结束
	StatusUnknown  LiveStatus = "unknown"  // 未知状态
)

// LiveEvent 统一的直播事件模型（抹平各平台差异）
// 字段名与落库文档保持一致，序列化后可直接进入 {pairing}_data 集合
type LiveEvent struct {
	ID          string       `json:"id"`                    // 唯一ID（见BuildLiveID各平台规则）
	RoomID      int64        `json:"room_id,omitempty"`     // BiliBili房间ID
	SourceID    string       `json:"-"`                     // 平台原始ID（房间/视频/会话），仅内部使用
	Title       string       `json:"title"`                 // 直播标题
	StartTime   int64        `json:"startTime"`             // 开播时间（UTC epoch秒）
	EndTime     *int64       `json:"endTime,omitempty"`     // 结束时间（确认结束后才有值）
	Status      LiveStatus   `json:"status,omitempty"`      // 直播状态
	Channel     string       `json:"channel,omitempty"`     // 频道/主播稳定ID
	ChannelName string       `json:"channel_name,omitempty"` // 频道显示名
	Viewers     *int         `json:"viewers,omitempty"`     // 当前观看人数
	PeakViewers *int         `json:"peakViewers,omitempty"` // 峰值观看人数（Twitcasting）
	Thumbnail   string       `json:"thumbnail,omitempty"`   // 封面图
	Platform    PlatformType `json:"platform"`              // 来源平台
	Group       string       `json:"group,omitempty"`       // 所属团体（仅读取层过滤用）
}

// LiveDocument {pairing}_data 集合的文档结构
type LiveDocument struct {
	Live     []*LiveEvent `json:"live"`
	Upcoming []*LiveEvent `json:"upcoming"`
}

// platformIDPrefix 各平台的复合ID前缀
var platformIDPrefix = map[PlatformType]string{
	PlatformBiliBili:    "bili",
	PlatformTwitch:      "ttv",
	PlatformTwitcasting: "twcast",
}

// BuildLiveID 生成复合唯一ID，同一场直播在轮询周期间保持稳定。
// 房间类平台为 前缀+房间ID+"_"+开播时间；YouTube 直接使用视频ID；
// Twitcasting 的会话ID每场递增，本身可区分场次，不拼接反推出来的开播时间。
// 纯函数：相同输入必定产生相同输出，是去重和忽略列表匹配的基础。
func BuildLiveID(platform PlatformType, sourceID string, startTime int64) string {
	switch platform {
	case PlatformYouTube:
		return sourceID
	case PlatformTwitcasting:
		return platformIDPrefix[platform] + sourceID
	}
	prefix, ok := platformIDPrefix[platform]
	if !ok {
		prefix = string(platform)
	}
	return fmt.Sprintf("%s%s_%d", prefix, sourceID, startTime)
}
