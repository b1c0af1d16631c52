package model

// TwitchDataResponse Helix接口的通用外层结构
type TwitchDataResponse[T any] struct {
	Data  []T    `json:"data"`
	Total int64  `json:"total,omitempty"` // users/follows 才有
	Error string `json:"error,omitempty"`
}

// TwitchStream helix/streams 的单条直播
type TwitchStream struct {
	ID           string `json:"id"`            // 流会话ID
	UserID       string `json:"user_id"`       // 数字用户ID
	UserLogin    string `json:"user_login"`    // 登录名
	Type         string `json:"type"`          // "live"，异常时为空串
	Title        string `json:"title"`         // 直播标题
	ViewerCount  int    `json:"viewer_count"`  // 观看人数
	StartedAt    string `json:"started_at"`    // RFC3339（无小数秒）
	ThumbnailURL string `json:"thumbnail_url"` // 含{width}x{height}占位符
}

// TwitchUser helix/users 的单条用户
type TwitchUser struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
	ViewCount       int64  `json:"view_count"`
}

// TwitchTokenResponse OAuth client_credentials 授权响应
type TwitchTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // 秒
}

// TwitcastUser frontendapi 的用户详情（channels任务用）
type TwitcastUser struct {
	User struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Image       string `json:"image"` // 可能以 // 开头，需补协议
		BackerCount int64  `json:"backerCount"`
		Level       int    `json:"level"`
	} `json:"user"`
}
