package repository

import (
	"context"

	"VTSync/internal/interfaces"
	"VTSync/internal/model"
)

// ChannelRepository 频道统计集合的写入（channels任务整组重算，整字段替换可接受）
type ChannelRepository struct {
	store interfaces.DocStore
}

func NewChannelRepository(store interfaces.DocStore) *ChannelRepository {
	return &ChannelRepository{store: store}
}

// UpdateChannels 覆盖集合里的channels字段
func (r *ChannelRepository) UpdateChannels(ctx context.Context, coll string, channels []*model.ChannelStats) error {
	if channels == nil {
		channels = []*model.ChannelStats{}
	}
	return r.store.Upsert(ctx, coll, map[string]interface{}{"channels": channels})
}

// UpdateGroups 按团体分组写入（channel_data集合：hololive/nijisanji/other各一个字段）
func (r *ChannelRepository) UpdateGroups(ctx context.Context, coll string, groups map[string][]*model.ChannelStats) error {
	partial := make(map[string]interface{}, len(groups))
	for name, chans := range groups {
		if chans == nil {
			chans = []*model.ChannelStats{}
		}
		partial[name] = chans
	}
	return r.store.Upsert(ctx, coll, partial)
}
