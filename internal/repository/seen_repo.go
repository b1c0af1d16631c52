package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"VTSync/internal/interfaces"
)

// SeenRepository {job}_ended_ids 等"频道→已处理视频ID列表"集合的读写。
// YouTube费用控制的关键：确认不是直播或早已结束的视频进此名单后不再请求Data API。
type SeenRepository struct {
	store interfaces.DocStore
}

func NewSeenRepository(store interfaces.DocStore) *SeenRepository {
	return &SeenRepository{store: store}
}

// Load 读取整份 频道ID→视频ID列表，集合不存在返回空映射
func (r *SeenRepository) Load(ctx context.Context, coll string) (map[string][]string, error) {
	doc, err := r.store.Fetch(ctx, coll)
	if err != nil {
		if interfaces.IsStoreNotFound(err) {
			return map[string][]string{}, nil
		}
		return nil, err
	}

	out := make(map[string][]string, len(doc))
	for channel, raw := range doc {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, fmt.Errorf("解析频道%s的ID列表失败: %w", channel, err)
		}
		out[channel] = ids
	}
	return out, nil
}

// SaveAll 整体写回（每个频道一个顶层字段，仍是字段级合并）
func (r *SeenRepository) SaveAll(ctx context.Context, coll string, data map[string][]string) error {
	partial := make(map[string]interface{}, len(data))
	for channel, ids := range data {
		partial[channel] = ids
	}
	return r.store.Upsert(ctx, coll, partial)
}

// SaveChannel 只写回单个频道的列表
func (r *SeenRepository) SaveChannel(ctx context.Context, coll, channel string, ids []string) error {
	return r.store.Upsert(ctx, coll, map[string]interface{}{channel: ids})
}
