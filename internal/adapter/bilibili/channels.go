package bilibili

import (
	"context"
	"fmt"

	"VTSync/internal/model"
	"VTSync/internal/utils/httpclient"
)

// vtbs.moe提供全量VTuber频道统计的镜像，避免逐个打B站接口
const vtbsInfoURL = "https://api.vtbs.moe/v1/info"

// FetchVtbsInfo 拉取全量频道统计（bili_channels任务用，一次请求覆盖全部UID）
func (a *Adapter) FetchVtbsInfo(ctx context.Context) ([]model.VtbsChannelInfo, error) {
	var items []model.VtbsChannelInfo
	if err := httpclient.GetJSON(ctx, a.httpClient, vtbsInfoURL, nil, nil, &items); err != nil {
		return nil, fmt.Errorf("请求vtbs接口失败: %w", err)
	}
	return items, nil
}
