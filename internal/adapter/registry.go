package adapter

import (
	"VTSync/internal/adapter/bilibili"
	"VTSync/internal/adapter/holoapi"
	"VTSync/internal/adapter/twitcasting"
	"VTSync/internal/adapter/twitch"
	"VTSync/internal/adapter/youtube"
	"VTSync/internal/config"
	"VTSync/internal/model"
	"VTSync/internal/utils/apikey"

	"github.com/sirupsen/logrus"
)

// Registry 按配置构造各平台适配器并缓存实例，任务装配时按平台取用
type Registry struct {
	cfg    *config.Config
	logger *logrus.Logger

	bili     *bilibili.Adapter
	yt       *youtube.Adapter
	ttv      *twitch.Adapter
	twcast   *twitcasting.Adapter
	primary  *holoapi.Client
}

func NewRegistry(cfg *config.Config, ytKeys *apikey.RotatingKey, logger *logrus.Logger) *Registry {
	r := &Registry{cfg: cfg, logger: logger}

	r.bili = bilibili.NewBiliAdapter(r.platformCfg(string(model.PlatformBiliBili)), logger)
	r.yt = youtube.NewYouTubeAdapter(r.platformCfg(string(model.PlatformYouTube)), ytKeys, logger)
	r.ttv = twitch.NewTwitchAdapter(r.platformCfg(string(model.PlatformTwitch)), &cfg.Twitch, logger)
	r.twcast = twitcasting.NewTwitcastingAdapter(r.platformCfg(string(model.PlatformTwitcasting)), logger)
	r.primary = holoapi.NewClient(r.platformCfg("holoapi"), logger)
	return r
}

// platformCfg 取平台HTTP配置，未配置时给带默认超时的空配置
func (r *Registry) platformCfg(name string) *config.PlatformConfig {
	if pc, ok := r.cfg.Platforms[name]; ok {
		return &pc
	}
	r.logger.WithField("platform", name).Warn("平台未配置，使用默认HTTP参数")
	return &config.PlatformConfig{Timeout: 10}
}

func (r *Registry) BiliBili() *bilibili.Adapter { return r.bili }
func (r *Registry) YouTube() *youtube.Adapter { return r.yt }
func (r *Registry) Twitch() *twitch.Adapter { return r.ttv }
func (r *Registry) Twitcasting() *twitcasting.Adapter { return r.twcast }
func (r *Registry) PrimarySource() *holoapi.Client { return r.primary }
