package model

// ChannelStats 统一的频道统计模型（各平台频道任务共用，平台缺失的字段省略）
type ChannelStats struct {
	ID              string       `json:"id"`                        // 频道稳定ID（Bili为UID，Twitch为login名，Twitcasting为用户名）
	UserID          string       `json:"user_id,omitempty"`         // Twitch数字用户ID
	RoomID          string       `json:"room_id,omitempty"`         // BiliBili直播间ID
	Name            string       `json:"name"`                      // 显示名
	Description     string       `json:"description"`               // 简介
	Thumbnail       string       `json:"thumbnail"`                 // 头像
	SubscriberCount int64        `json:"subscriberCount,omitempty"` // 关注/订阅数（Bili）
	FollowerCount   int64        `json:"followerCount,omitempty"`   // 粉丝数（Twitch/Twitcasting）
	ViewCount       int64        `json:"viewCount,omitempty"`       // 总播放量
	VideoCount      int64        `json:"videoCount,omitempty"`      // 视频数
	Level           int          `json:"level,omitempty"`           // 用户等级（Twitcasting）
	Live            bool         `json:"live,omitempty"`            // 当前是否开播
	Platform        PlatformType `json:"platform"`                  // 来源平台

	// NSort 排序辅助字段，仅分组排序用，落库前剥离
	NSort int `json:"-"`
}

// RoomMapEntry 房间归属映射的单条记录：某平台房间属于哪个YouTube频道
type RoomMapEntry struct {
	ChannelID string `json:"id"`   // 对应的YouTube频道ID
	Name      string `json:"name"` // 显示名
}

// ChannelRoomMapping 房间ID→归属信息的静态映射（外部数据集提供，核心只读）
type ChannelRoomMapping map[string]RoomMapEntry
