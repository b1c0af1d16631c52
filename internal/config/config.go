package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server      ServerConfig              `mapstructure:"server"`      // 服务器配置
	Database    DatabaseConfig            `mapstructure:"database"`    // PostgreSQL配置
	Jobs        JobsConfig                `mapstructure:"jobs"`        // 轮询任务调度配置
	Reconcile   ReconcileConfig           `mapstructure:"reconcile"`   // 多源归并配置
	YouTube     YouTubeConfig             `mapstructure:"youtube"`     // YouTube Data API配置
	Twitch      TwitchConfig              `mapstructure:"twitch"`      // Twitch Helix配置
	Twitcasting TwitcastingConfig         `mapstructure:"twitcasting"` // Twitcasting配置
	Platforms   map[string]PlatformConfig `mapstructure:"platforms"`   // 各平台HTTP配置
	Pairings    map[string]PairingConfig  `mapstructure:"pairings"`    // 主源×副源配对（hololive/nijisanji/...）
	Dataset     DatasetConfig             `mapstructure:"dataset"`     // 静态数据集配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// DatabaseConfig PostgreSQL数据库配置
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
	OpTimeout       time.Duration `mapstructure:"op_timeout"`        // 单次读写超时（默认15s）
	ErrorThreshold  int           `mapstructure:"error_threshold"`   // 超时累计达到该值后重置连接（默认5）
}

// JobsConfig 各任务的轮询间隔（分钟）
type JobsConfig struct {
	BiliLive            int `mapstructure:"bili_live"`            // BiliBili房间心跳
	BiliCalendar        int `mapstructure:"bili_calendar"`        // BiliBili日历预约
	BiliChannels        int `mapstructure:"bili_channels"`        // BiliBili频道统计
	YouTubeFeeds        int `mapstructure:"yt_feeds"`             // YouTube RSS拉取
	YouTubeLive         int `mapstructure:"yt_live"`              // YouTube直播心跳
	YouTubeChannels     int `mapstructure:"yt_channels"`          // YouTube频道统计
	TwitchLive          int `mapstructure:"twitch_live"`          // Twitch直播心跳
	TwitchChannels      int `mapstructure:"twitch_channels"`      // Twitch频道统计
	TwitcastingLive     int `mapstructure:"twitcasting_live"`     // Twitcasting心跳
	TwitcastingChannels int `mapstructure:"twitcasting_channels"` // Twitcasting频道统计
}

// ReconcileConfig 多源归并参数
type ReconcileConfig struct {
	// GraceWindow 主源"预定中但实际已开播"的宽限窗口（秒），默认300
	GraceWindow int64 `mapstructure:"grace_window"`
}

// YouTubeConfig Data API密钥轮换与落库配置
type YouTubeConfig struct {
	APIKeys         []string `mapstructure:"api_keys"`         // 可配置多个Key轮换使用
	RotationRate    int      `mapstructure:"rotation_rate"`    // 轮换周期（分钟），默认60
	Dataset         string   `mapstructure:"dataset"`          // 频道数据集文件名
	LiveCollection  string   `mapstructure:"live_collection"`  // 直播数据集合，默认 yt_live
	EndedCollection string   `mapstructure:"ended_collection"` // 已结束ID集合，默认 yt_ended_ids

	// ChannelsCollection 频道统计集合，默认 yt_other_channels
	ChannelsCollection string `mapstructure:"channels_collection"`
}

// TwitchConfig Helix应用凭据与落库配置
type TwitchConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Dataset      string `mapstructure:"dataset"`    // 追踪名单数据集文件名
	Collection   string `mapstructure:"collection"` // 集合名，默认 twitch_data
}

// TwitcastingConfig Twitcasting追踪名单与落库配置
type TwitcastingConfig struct {
	Dataset            string `mapstructure:"dataset"`             // 追踪名单数据集文件名
	Collection         string `mapstructure:"collection"`          // 直播集合，默认 twitcasting_data
	ChannelsCollection string `mapstructure:"channels_collection"` // 频道集合，默认 twitcasting_channels
}

// PlatformConfig 单个平台的HTTP访问配置
type PlatformConfig struct {
	BaseURL   string `mapstructure:"base_url"`   // API基础地址
	Timeout   int    `mapstructure:"timeout"`    // 请求超时（秒）
	Proxy     string `mapstructure:"proxy"`      // 代理地址
	UserAgent string `mapstructure:"user_agent"` // UA，留空用默认浏览器UA
}

// PairingConfig 一组归并配对：哪个数据集、落到哪些集合、主源哪个端点
type PairingConfig struct {
	Dataset           string `mapstructure:"dataset"`            // 房间映射数据集文件名（dataset目录下）
	LiveCollection    string `mapstructure:"live_collection"`    // 直播数据集合名，如 hololive_data
	IgnoredCollection string `mapstructure:"ignored_collection"` // 忽略列表集合名，如 hololive_ignored
	PrimaryEndpoint   string `mapstructure:"primary_endpoint"`   // 主源live端点路径，如 live、nijisanji/live
	Group             string `mapstructure:"group"`              // 所属团体标识
}

// DatasetConfig 静态数据集位置
type DatasetConfig struct {
	Dir string `mapstructure:"dir"` // 数据集目录，默认 ./dataset
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("VTSYNC_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("YT_API_KEYS"); v != "" {
		cfg.YouTube.APIKeys = splitAndTrim(v)
	}
	if v := os.Getenv("TWITCH_CLIENT_ID"); v != "" {
		cfg.Twitch.ClientID = v
	}
	if v := os.Getenv("TWITCH_CLIENT_SECRET"); v != "" {
		cfg.Twitch.ClientSecret = v
	}
}

// applyDefaults 空值兜底，保证下游不用再判零
func applyDefaults(cfg *Config) {
	if cfg.Database.OpTimeout <= 0 {
		cfg.Database.OpTimeout = 15 * time.Second
	}
	if cfg.Database.ErrorThreshold <= 0 {
		cfg.Database.ErrorThreshold = 5
	}
	if cfg.Reconcile.GraceWindow <= 0 {
		cfg.Reconcile.GraceWindow = 300
	}
	if cfg.YouTube.RotationRate <= 0 {
		cfg.YouTube.RotationRate = 60
	}
	if cfg.YouTube.LiveCollection == "" {
		cfg.YouTube.LiveCollection = "yt_live"
	}
	if cfg.YouTube.EndedCollection == "" {
		cfg.YouTube.EndedCollection = "yt_ended_ids"
	}
	if cfg.YouTube.ChannelsCollection == "" {
		cfg.YouTube.ChannelsCollection = "yt_other_channels"
	}
	if cfg.Twitch.Collection == "" {
		cfg.Twitch.Collection = "twitch_data"
	}
	if cfg.Twitcasting.Collection == "" {
		cfg.Twitcasting.Collection = "twitcasting_data"
	}
	if cfg.Twitcasting.ChannelsCollection == "" {
		cfg.Twitcasting.ChannelsCollection = "twitcasting_channels"
	}
	if cfg.Dataset.Dir == "" {
		cfg.Dataset.Dir = "./dataset"
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
