package holoapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"VTSync/internal/config"
	"VTSync/internal/model"
	"VTSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Client 主源聚合API客户端：各团体的YouTube直播/预定列表由它提供，
// 归并引擎用这份数据判断副源候选是不是转播。
type Client struct {
	cfg        *config.PlatformConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(cfg *config.PlatformConfig, logger *logrus.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// FetchLives 拉取某端点的live/upcoming列表，实现interfaces.PrimaryLiveSource。
// 不在这里过滤"已到点的预定"——宽限窗口逻辑由归并引擎统一处理。
func (c *Client) FetchLives(ctx context.Context, endpoint string) ([]*model.LiveEvent, []*model.LiveEvent, error) {
	reqURL := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(endpoint, "/")

	var resp model.HoloAPILiveResponse
	if err := httpclient.GetJSON(ctx, c.httpClient, reqURL, nil, nil, &resp); err != nil {
		return nil, nil, fmt.Errorf("请求主源%s失败: %w", endpoint, err)
	}
	return resp.Live, resp.Upcoming, nil
}
