package twitch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"VTSync/internal/model"

	"github.com/sirupsen/logrus"
)

const oauthURL = "https://id.twitch.tv/oauth2/token"

// tokenSource client_credentials令牌缓存：按需获取、到期前复用、过期重取
type tokenSource struct {
	mu           sync.Mutex
	clientID     string
	clientSecret string
	httpClient   *http.Client
	token        string
	expiresAt    time.Time
	now          func() time.Time
	logger       *logrus.Logger
}

func newTokenSource(clientID, clientSecret string, client *http.Client, logger *logrus.Logger) *tokenSource {
	return &tokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   client,
		now:          time.Now,
		logger:       logger,
	}
}

// Token 返回有效的bearer token，必要时重新授权
func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// 提前一分钟视为过期，避免请求途中失效
	if t.token != "" && t.now().Add(time.Minute).Before(t.expiresAt) {
		return t.token, nil
	}

	t.logger.Info("Twitch令牌缺失或已过期，重新授权...")
	form := url.Values{}
	form.Set("client_id", t.clientID)
	form.Set("client_secret", t.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oauthURL+"?"+form.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("构造授权请求失败: %w", err)
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求授权接口失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("授权接口状态异常: %d", resp.StatusCode)
	}

	var tok model.TwitchTokenResponse
	if err := decodeJSONBody(resp, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("授权响应缺少access_token")
	}

	t.token = tok.AccessToken
	t.expiresAt = t.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	t.logger.WithField("expires_at", t.expiresAt.UTC()).Info("Twitch授权成功")
	return t.token, nil
}

// Invalidate 收到401后作废缓存令牌，下次调用强制重新授权
func (t *tokenSource) Invalidate() {
	t.mu.Lock()
	t.token = ""
	t.expiresAt = time.Time{}
	t.mu.Unlock()
}
