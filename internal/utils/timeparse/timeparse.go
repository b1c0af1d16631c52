package timeparse

import (
	"fmt"
	"strings"
	"time"
)

// 各平台已知的时间戳格式。同一平台可能带或不带小数秒，逐个尝试。
var (
	biliLayouts = []string{
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05.000 -0700",
	}
	rfc3339Layouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z07:00",
	}
)

// ParseBiliLocal 将BiliBili返回的GMT+8本地时间字符串转为UTC epoch秒。
// live_time 形如 "2021-01-01 10:00:00"，不带任何时区标记，
// 补上显式 +0800 偏移解析即可，不再额外减8小时（历史实现里两步同做导致双重校正）。
func ParseBiliLocal(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0000-00-00 00:00:00" {
		return 0, fmt.Errorf("空的live_time")
	}
	withOffset := raw + " +0800"
	var lastErr error
	for _, layout := range biliLayouts {
		t, err := time.Parse(layout, withOffset)
		if err == nil {
			return t.Unix(), nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("解析BiliBili时间失败 %q: %w", raw, lastErr)
}

// ParseRFC3339 解析YouTube/Twitch使用的RFC3339时间（兼容带小数秒），返回UTC epoch秒
func ParseRFC3339(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("空的时间字符串")
	}
	var lastErr error
	for _, layout := range rfc3339Layouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.Unix(), nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("解析RFC3339时间失败 %q: %w", raw, lastErr)
}
