package model

// BiliAPIResponse BiliBili开放接口的通用外层结构
type BiliAPIResponse[T any] struct {
	Code    int    `json:"code"`    // 0为成功
	Message string `json:"message"` // 错误信息
	Data    T      `json:"data"`    // 业务数据
}

// BiliRoomInfo room/v1/Room/get_info 返回的房间信息（仅保留用到的字段）
type BiliRoomInfo struct {
	UID        int64  `json:"uid"`         // 主播UID
	RoomID     int64  `json:"room_id"`     // 房间ID
	LiveStatus int    `json:"live_status"` // 1=开播 0=未开播 2=轮播
	Title      string `json:"title"`       // 直播标题
	LiveTime   string `json:"live_time"`   // 开播时间，GMT+8本地时间字符串（无时区标记）
	Online     int    `json:"online"`      // 在线人数
	UserCover  string `json:"user_cover"`  // 封面图
	Keyframe   string `json:"keyframe"`    // 关键帧截图
}

// BiliCalendarData GetProgramList 返回的日历数据
type BiliCalendarData struct {
	ProgramInfos map[string]BiliProgramDay  `json:"program_infos"` // 日期（当月第几天）→节目列表
	UserInfos    map[string]BiliProgramUser `json:"user_infos"`    // ruid→主播信息
}

// BiliProgramDay 某一天的节目集合
type BiliProgramDay struct {
	ProgramList []BiliProgram `json:"program_list"`
}

// BiliProgram 单条预约节目
type BiliProgram struct {
	RoomID         int64  `json:"room_id"`         // 预约直播房间
	RUID           int64  `json:"ruid"`            // 主播UID
	Title          string `json:"title"`           // 节目标题
	StartTime      int64  `json:"start_time"`      // 开播时间（已是epoch秒）
	SubscriptionID int64  `json:"subscription_id"` // 预约ID
	ProgramID      int64  `json:"program_id"`      // 节目ID
}

// BiliProgramUser 日历接口里的主播信息
type BiliProgramUser struct {
	UName string `json:"uname"` // 主播名
}

// VtbsChannelInfo api.vtbs.moe/v1/info 的单条频道统计
type VtbsChannelInfo struct {
	MID         int64  `json:"mid"`         // 主播UID
	RoomID      int64  `json:"roomid"`      // 直播间ID
	UName       string `json:"uname"`       // 主播名
	Sign        string `json:"sign"`        // 签名/简介
	Face        string `json:"face"`        // 头像
	Follower    int64  `json:"follower"`    // 粉丝数
	ArchiveView int64  `json:"archiveView"` // 总播放量
	Video       int64  `json:"video"`       // 视频数
	LiveStatus  int    `json:"liveStatus"`  // 是否开播
}
