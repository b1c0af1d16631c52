package twitcasting

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"VTSync/internal/config"
	"VTSync/internal/model"
	"VTSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Adapter Twitcasting适配器。心跳接口不是JSON而是tab分隔的纯文本。
type Adapter struct {
	cfg         *config.PlatformConfig
	frontendURL string
	httpClient  *http.Client
	logger      *logrus.Logger
	now         func() time.Time
}

func NewTwitcastingAdapter(cfg *config.PlatformConfig, logger *logrus.Logger) *Adapter {
	return &Adapter{
		cfg:         cfg,
		frontendURL: "https://frontendapi.twitcasting.tv",
		httpClient:  httpclient.NewHTTPClient(cfg, logger),
		logger:      logger,
		now:         time.Now,
	}
}

func (a *Adapter) GetName() string {
	return "Twitcasting"
}

// FetchHeartbeat 探测单个用户的直播状态。未开播返回nil（会话ID为空或"7"都表示无直播）。
func (a *Adapter) FetchHeartbeat(ctx context.Context, channel string) (*model.LiveEvent, error) {
	params := url.Values{}
	params.Set("u", channel)
	params.Set("v", "999")

	body, err := httpclient.GetBody(ctx, a.httpClient, a.cfg.BaseURL+"/streamchecker.php", params, nil)
	if err != nil {
		return nil, fmt.Errorf("请求streamchecker失败(%s): %w", channel, err)
	}
	return a.parseHeartbeat(string(body), channel), nil
}

// parseHeartbeat 解析tab分隔的心跳响应。字段位：0=会话ID 3=当前观众 5=峰值观众 6=已播秒数 7=标题（URL转义）
func (a *Adapter) parseHeartbeat(raw, channel string) *model.LiveEvent {
	fields := strings.Split(raw, "\t")
	if len(fields) < 8 {
		return nil
	}

	sid := fields[0]
	if sid == "" || sid == "7" {
		return nil
	}

	elapsed, err := strconv.ParseInt(fields[6], 10, 64)
	if err != nil {
		a.logger.WithField("channel", channel).Warn("心跳响应已播秒数异常，跳过")
		return nil
	}
	currentViewers, _ := strconv.Atoi(fields[3])
	peakViewers, _ := strconv.Atoi(fields[5])

	title := fields[7]
	if unescaped, err := url.QueryUnescape(title); err == nil {
		title = unescaped
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = fmt.Sprintf("Radio Live #%s", sid)
	}

	startTime := a.now().UTC().Unix() - elapsed
	return &model.LiveEvent{
		ID:          model.BuildLiveID(model.PlatformTwitcasting, sid, startTime),
		SourceID:    sid,
		Title:       title,
		StartTime:   startTime,
		Status:      model.StatusLive,
		Channel:     channel,
		Viewers:     &currentViewers,
		PeakViewers: &peakViewers,
		Platform:    model.PlatformTwitcasting,
	}
}

// FetchLives 并发探测全部追踪用户，实现interfaces.LiveListFetcher。
// 单个用户失败只告警跳过。
func (a *Adapter) FetchLives(ctx context.Context, channels []string) ([]*model.LiveEvent, error) {
	results := make(chan *model.LiveEvent, len(channels))
	var wg sync.WaitGroup
	for _, channel := range channels {
		wg.Add(1)
		go func(ch string) {
			defer wg.Done()
			ev, err := a.FetchHeartbeat(ctx, ch)
			if err != nil {
				a.logger.WithError(err).WithField("channel", ch).Warn("心跳探测失败，跳过")
				return
			}
			if ev != nil {
				results <- ev
			}
		}(channel)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var lives []*model.LiveEvent
	for ev := range results {
		lives = append(lives, ev)
	}
	return lives, nil
}

// FetchChannels 逐个拉取用户详情，实现interfaces.ChannelStatsFetcher
func (a *Adapter) FetchChannels(ctx context.Context, channels []string) ([]*model.ChannelStats, error) {
	stats := make([]*model.ChannelStats, 0, len(channels))
	for _, channel := range channels {
		user, err := a.FetchUser(ctx, channel)
		if err != nil {
			a.logger.WithError(err).WithField("channel", channel).Warn("用户详情拉取失败，跳过")
			continue
		}
		thumbnail := user.User.Image
		if strings.HasPrefix(thumbnail, "//") {
			thumbnail = "https:" + thumbnail
		}
		stats = append(stats, &model.ChannelStats{
			ID:            channel,
			Name:          user.User.Name,
			Description:   user.User.Description,
			Thumbnail:     thumbnail,
			FollowerCount: user.User.BackerCount,
			Level:         user.User.Level,
			Platform:      model.PlatformTwitcasting,
		})
	}
	return stats, nil
}

// FetchUser 拉取用户详情（channels任务用）
func (a *Adapter) FetchUser(ctx context.Context, channel string) (*model.TwitcastUser, error) {
	params := url.Values{}
	params.Set("detail", "true")

	var user model.TwitcastUser
	err := httpclient.GetJSON(ctx, a.httpClient,
		fmt.Sprintf("%s/users/%s", a.frontendURL, url.PathEscape(channel)), params, nil, &user)
	if err != nil {
		return nil, fmt.Errorf("请求用户%s详情失败: %w", channel, err)
	}
	return &user, nil
}
