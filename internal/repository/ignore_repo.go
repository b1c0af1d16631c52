package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"VTSync/internal/interfaces"
)

// IgnoreRepository {pairing}_ignored 集合：已判定为转播的复合ID集合。
// 只增不减——ID里嵌着开播时间，同一房间之后的新直播会拿到新ID被独立评估，
// 所以旧条目留着无害。
type IgnoreRepository struct {
	store interfaces.DocStore
}

func NewIgnoreRepository(store interfaces.DocStore) *IgnoreRepository {
	return &IgnoreRepository{store: store}
}

// Load 读取忽略集合，首次运行（集合不存在）返回空集
func (r *IgnoreRepository) Load(ctx context.Context, coll string) (map[string]struct{}, error) {
	doc, err := r.store.Fetch(ctx, coll)
	if err != nil {
		if interfaces.IsStoreNotFound(err) {
			return map[string]struct{}{}, nil
		}
		return nil, err
	}

	set := make(map[string]struct{})
	raw, ok := doc["data"]
	if !ok {
		return set, nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("解析忽略列表失败: %w", err)
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Save 持久化忽略集合。排序后落库，保证同一集合两次写出字节一致。
func (r *IgnoreRepository) Save(ctx context.Context, coll string, set map[string]struct{}) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return r.store.Upsert(ctx, coll, map[string]interface{}{"data": ids})
}
