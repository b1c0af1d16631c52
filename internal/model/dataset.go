package model

// DatasetEntry 配对数据集的单条记录：一个B站房间与其归属信息。
// 数据集由外部维护（dataset目录下的JSON文件），核心只读。
type DatasetEntry struct {
	UID       string `json:"uid"`     // B站主播UID
	RoomID    string `json:"room_id"` // 直播间ID
	ChannelID string `json:"id"`      // 对应的YouTube频道ID（无则为空，表示无主源归属）
	Name      string `json:"name"`    // 显示名
}

// YTChannel YouTube频道数据集的单条记录
type YTChannel struct {
	ID    string `json:"id"`    // 频道ID
	Name  string `json:"name"`  // 显示名
	Group string `json:"affs"`  // 所属团体
}

// TrackedUser Twitch/Twitcasting数据集的单条记录
type TrackedUser struct {
	ID string `json:"id"` // 登录名/用户名
}

// BuildRoomMapping 从数据集构建 房间ID→归属 的只读映射
func BuildRoomMapping(entries []DatasetEntry) ChannelRoomMapping {
	mapping := make(ChannelRoomMapping, len(entries))
	for _, e := range entries {
		mapping[e.RoomID] = RoomMapEntry{ChannelID: e.ChannelID, Name: e.Name}
	}
	return mapping
}
