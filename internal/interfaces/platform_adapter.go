package interfaces

import (
	"context"

	"VTSync/internal/model"
)

// RoomStatusFetcher 副源房间状态探测（BiliBili直播间心跳）。
// 单个房间失败返回error由调用方跳过，不允许panic、不允许拖垮整批。
type RoomStatusFetcher interface {
	FetchRoom(ctx context.Context, roomID string) (*model.BiliRoomInfo, error)
	// ParseRoomLive 归一化房间信息，未开播/数据异常返回nil
	ParseRoomLive(info *model.BiliRoomInfo, roomID string) *model.LiveEvent
}

// PrimaryLiveSource 主源（YouTube聚合）当前直播/预定列表。
// endpoint 为配对配置里的主源端点路径（live、nijisanji/live等）。
type PrimaryLiveSource interface {
	FetchLives(ctx context.Context, endpoint string) (lives []*model.LiveEvent, upcoming []*model.LiveEvent, err error)
}

// YTVideoSource YouTube两段式数据源：RSS找视频ID（免费），Data API查详情（计费）
type YTVideoSource interface {
	FetchFeedVideoIDs(ctx context.Context, channelID string) ([]string, error)
	FetchVideos(ctx context.Context, videoIDs []string) ([]model.YTVideoItem, error)
	// ParseVideo 归一化视频详情，非直播内容返回nil（调用方记入已结束名单）
	ParseVideo(item *model.YTVideoItem, group string) *model.LiveEvent
}

// CalendarFetcher BiliBili预约日历（calendar任务用）
type CalendarFetcher interface {
	FetchCalendar(ctx context.Context, uids []string) ([]*model.LiveEvent, error)
}

// LiveListFetcher 批量直播状态适配器（Twitch/Twitcasting等一次查多个频道）
type LiveListFetcher interface {
	GetName() string // 平台名称
	FetchLives(ctx context.Context, channels []string) ([]*model.LiveEvent, error)
}

// ChannelStatsFetcher 频道元数据批量拉取（channels任务用）
type ChannelStatsFetcher interface {
	FetchChannels(ctx context.Context, channels []string) ([]*model.ChannelStats, error)
}

// VtbsStatsFetcher 全量BiliBili频道统计（vtbs镜像，一次请求覆盖全部UID）
type VtbsStatsFetcher interface {
	FetchVtbsInfo(ctx context.Context) ([]model.VtbsChannelInfo, error)
}
