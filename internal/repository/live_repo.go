package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"VTSync/internal/interfaces"
	"VTSync/internal/model"
)

// LiveRepository {pairing}_data 集合的类型化读写
type LiveRepository struct {
	store interfaces.DocStore
}

func NewLiveRepository(store interfaces.DocStore) *LiveRepository {
	return &LiveRepository{store: store}
}

// FetchLive 读取直播文档，集合不存在时返回空文档（首次运行属正常）
func (r *LiveRepository) FetchLive(ctx context.Context, coll string) (*model.LiveDocument, error) {
	doc, err := r.store.Fetch(ctx, coll)
	if err != nil {
		if interfaces.IsStoreNotFound(err) {
			return &model.LiveDocument{}, nil
		}
		return nil, err
	}

	out := &model.LiveDocument{}
	if raw, ok := doc["live"]; ok {
		if err := json.Unmarshal(raw, &out.Live); err != nil {
			return nil, fmt.Errorf("解析live字段失败: %w", err)
		}
	}
	if raw, ok := doc["upcoming"]; ok {
		if err := json.Unmarshal(raw, &out.Upcoming); err != nil {
			return nil, fmt.Errorf("解析upcoming字段失败: %w", err)
		}
	}
	return out, nil
}

// UpdateLive 只覆盖live字段，upcoming等其他字段不动
func (r *LiveRepository) UpdateLive(ctx context.Context, coll string, events []*model.LiveEvent) error {
	if events == nil {
		events = []*model.LiveEvent{}
	}
	return r.store.Upsert(ctx, coll, map[string]interface{}{"live": events})
}

// UpdateUpcoming 只覆盖upcoming字段
func (r *LiveRepository) UpdateUpcoming(ctx context.Context, coll string, events []*model.LiveEvent) error {
	if events == nil {
		events = []*model.LiveEvent{}
	}
	return r.store.Upsert(ctx, coll, map[string]interface{}{"upcoming": events})
}
