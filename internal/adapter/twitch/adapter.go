package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"VTSync/internal/config"
	"VTSync/internal/model"
	"VTSync/internal/utils/httpclient"
	"VTSync/internal/utils/timeparse"

	"github.com/sirupsen/logrus"
)

// helixBatchSize Helix接口单次最多接受的login/id数量
const helixBatchSize = 100

// Adapter Twitch Helix适配器，令牌管理见auth.go
type Adapter struct {
	cfg        *config.PlatformConfig
	httpClient *http.Client
	tokens     *tokenSource
	logger     *logrus.Logger
}

func NewTwitchAdapter(cfg *config.PlatformConfig, twitchCfg *config.TwitchConfig, logger *logrus.Logger) *Adapter {
	client := httpclient.NewHTTPClient(cfg, logger)
	return &Adapter{
		cfg:        cfg,
		httpClient: client,
		tokens:     newTokenSource(twitchCfg.ClientID, twitchCfg.ClientSecret, client, logger),
		logger:     logger,
	}
}

func (a *Adapter) GetName() string {
	return "Twitch"
}

// FetchStreams 批量查询登录名当前的直播流
func (a *Adapter) FetchStreams(ctx context.Context, logins []string) ([]model.TwitchStream, error) {
	params := []string{"first=100"}
	for _, login := range logins {
		params = append(params, "user_login="+url.QueryEscape(login))
	}
	var resp model.TwitchDataResponse[model.TwitchStream]
	if err := a.getHelix(ctx, "streams", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchUsers 批量查询用户信息（channels任务用）
func (a *Adapter) FetchUsers(ctx context.Context, logins []string) ([]model.TwitchUser, error) {
	params := make([]string, 0, len(logins))
	for _, login := range logins {
		params = append(params, "login="+url.QueryEscape(login))
	}
	var resp model.TwitchDataResponse[model.TwitchUser]
	if err := a.getHelix(ctx, "users", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchFollowerCount 查询用户粉丝数
func (a *Adapter) FetchFollowerCount(ctx context.Context, userID string) (int64, error) {
	var resp model.TwitchDataResponse[json.RawMessage]
	if err := a.getHelix(ctx, "users/follows", []string{"to_id=" + url.QueryEscape(userID)}, &resp); err != nil {
		return 0, err
	}
	return resp.Total, nil
}

// FetchLives 批量探测登录名的直播状态，实现interfaces.LiveListFetcher。
// Helix单次最多100个login，超出分批。
func (a *Adapter) FetchLives(ctx context.Context, channels []string) ([]*model.LiveEvent, error) {
	var lives []*model.LiveEvent
	for start := 0; start < len(channels); start += helixBatchSize {
		end := start + helixBatchSize
		if end > len(channels) {
			end = len(channels)
		}
		streams, err := a.FetchStreams(ctx, channels[start:end])
		if err != nil {
			return nil, err
		}
		for i := range streams {
			if ev := a.ParseStream(&streams[i]); ev != nil {
				lives = append(lives, ev)
			}
		}
	}
	return lives, nil
}

// FetchChannels 批量拉取用户信息并补粉丝数，实现interfaces.ChannelStatsFetcher
func (a *Adapter) FetchChannels(ctx context.Context, channels []string) ([]*model.ChannelStats, error) {
	var stats []*model.ChannelStats
	for start := 0; start < len(channels); start += helixBatchSize {
		end := start + helixBatchSize
		if end > len(channels) {
			end = len(channels)
		}
		users, err := a.FetchUsers(ctx, channels[start:end])
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			followers, err := a.FetchFollowerCount(ctx, user.ID)
			if err != nil {
				a.logger.WithError(err).WithField("user", user.Login).Warn("粉丝数查询失败，记0")
			}
			stats = append(stats, &model.ChannelStats{
				ID:            user.Login,
				UserID:        user.ID,
				Name:          user.DisplayName,
				Description:   user.Description,
				Thumbnail:     user.ProfileImageURL,
				FollowerCount: followers,
				ViewCount:     user.ViewCount,
				Platform:      model.PlatformTwitch,
			})
		}
	}
	return stats, nil
}

// ParseStream 将Helix流记录归一化为LiveEvent。type为空串表示平台侧异常流，返回nil跳过。
func (a *Adapter) ParseStream(stream *model.TwitchStream) *model.LiveEvent {
	if stream.Type == "" {
		return nil
	}
	startTime, err := timeparse.ParseRFC3339(stream.StartedAt)
	if err != nil {
		a.logger.WithError(err).WithField("stream", stream.ID).Warn("started_at解析失败，跳过")
		return nil
	}

	thumbnail := strings.NewReplacer("{width}", "1280", "{height}", "720").Replace(stream.ThumbnailURL)
	viewers := stream.ViewerCount
	return &model.LiveEvent{
		ID:          model.BuildLiveID(model.PlatformTwitch, stream.ID, startTime),
		SourceID:    stream.ID,
		Title:       stream.Title,
		StartTime:   startTime,
		Status:      model.StatusLive,
		Channel:     stream.UserLogin,
		ChannelName: stream.UserLogin,
		Viewers:     &viewers,
		Thumbnail:   thumbnail,
		Platform:    model.PlatformTwitch,
	}
}

// getHelix 带bearer token的Helix GET，401时作废令牌重试一次
func (a *Adapter) getHelix(ctx context.Context, endpoint string, params []string, out interface{}) error {
	for attempt := 0; attempt < 2; attempt++ {
		token, err := a.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("获取Twitch令牌失败: %w", err)
		}

		reqURL := a.cfg.BaseURL + "/" + endpoint
		if len(params) > 0 {
			reqURL += "?" + strings.Join(params, "&")
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("构造Helix请求失败: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Client-ID", a.tokens.clientID)

		resp, err := a.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("请求Helix失败: %w", err)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			a.logger.Warn("Helix返回401，作废令牌后重试")
			a.tokens.Invalidate()
			continue
		}
		err = decodeJSONBody(resp, out)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("Helix鉴权连续失败")
}

func decodeJSONBody(resp *http.Response, out interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应体失败: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP状态异常: %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("解析JSON响应失败: %w", err)
	}
	return nil
}
