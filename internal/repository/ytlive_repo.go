package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"VTSync/internal/interfaces"
	"VTSync/internal/model"
)

// YTLiveRepository yt_live等"频道ID→该频道直播事件列表"集合的读写
type YTLiveRepository struct {
	store interfaces.DocStore
}

func NewYTLiveRepository(store interfaces.DocStore) *YTLiveRepository {
	return &YTLiveRepository{store: store}
}

// Load 读取整份 频道ID→事件列表
func (r *YTLiveRepository) Load(ctx context.Context, coll string) (map[string][]*model.LiveEvent, error) {
	doc, err := r.store.Fetch(ctx, coll)
	if err != nil {
		if interfaces.IsStoreNotFound(err) {
			return map[string][]*model.LiveEvent{}, nil
		}
		return nil, err
	}

	out := make(map[string][]*model.LiveEvent, len(doc))
	for channel, raw := range doc {
		var events []*model.LiveEvent
		if err := json.Unmarshal(raw, &events); err != nil {
			return nil, fmt.Errorf("解析频道%s的直播列表失败: %w", channel, err)
		}
		out[channel] = events
	}
	return out, nil
}

// SaveChannel 只写回单个频道的事件列表（其余频道字段不动）
func (r *YTLiveRepository) SaveChannel(ctx context.Context, coll, channel string, events []*model.LiveEvent) error {
	if events == nil {
		events = []*model.LiveEvent{}
	}
	return r.store.Upsert(ctx, coll, map[string]interface{}{channel: events})
}
