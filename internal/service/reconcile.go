package service

import (
	"context"
	"sort"
	"time"

	"VTSync/internal/model"
	"VTSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// Reconciler 跨源归并引擎：判定副源（BiliBili房间）候选直播是独立直播
// 还是主源（YouTube）已知直播的转播。一旦判成转播，复合ID立刻进持久化
// 忽略列表——之后主源哪怕瞬时抖动不再报这场直播，也不会把副源的重复项
// 放回输出（防抖），同时免去每个周期重复交叉比对。
type Reconciler struct {
	ignoreRepo  *repository.IgnoreRepository
	graceWindow int64 // 秒：主源预定已超时未翻转成live的宽限
	logger      *logrus.Logger
	now         func() time.Time
}

func NewReconciler(ignoreRepo *repository.IgnoreRepository, graceWindow int64, logger *logrus.Logger) *Reconciler {
	if graceWindow <= 0 {
		graceWindow = 300
	}
	return &Reconciler{
		ignoreRepo:  ignoreRepo,
		graceWindow: graceWindow,
		logger:      logger,
		now:         time.Now,
	}
}

// ReconcileInput 一个配对、一个周期的归并输入
type ReconcileInput struct {
	Pairing         string                   // 配对名（hololive等，日志用）
	IgnoredColl     string                   // 忽略列表集合名
	Candidates      []*model.LiveEvent       // 副源本周期抓到的候选（仅live状态）
	PrimaryLives    []*model.LiveEvent       // 主源当前live
	PrimaryUpcoming []*model.LiveEvent       // 主源当前upcoming
	RoomMapping     model.ChannelRoomMapping // 房间→主源频道静态映射
}

// Reconcile 执行归并，返回按startTime升序的最终直播列表。
// 新发现的转播ID在本周期内立刻持久化；持久化失败只记日志不中止——
// 下个周期重新判定会得到同样结论。
func (r *Reconciler) Reconcile(ctx context.Context, in *ReconcileInput) ([]*model.LiveEvent, error) {
	vtlog := r.logger.WithField("pairing", in.Pairing)

	ignoreSet, err := r.ignoreRepo.Load(ctx, in.IgnoredColl)
	if err != nil {
		return nil, err
	}

	activeSet := r.activeChannelSet(in.PrimaryLives, in.PrimaryUpcoming)

	output := make([]*model.LiveEvent, 0, len(in.Candidates))
	newlyIgnored := 0
	for _, cand := range in.Candidates {
		id := cand.ID
		if id == "" {
			id = model.BuildLiveID(cand.Platform, cand.SourceID, cand.StartTime)
			cand.ID = id
		}

		// 已分类过的转播：短路丢弃，不再解析归属
		if _, ignored := ignoreSet[id]; ignored {
			continue
		}

		entry, mapped := in.RoomMapping[cand.SourceID]
		if mapped {
			if cand.ChannelName == "" {
				cand.ChannelName = entry.Name
			}
			if _, active := activeSet[entry.ChannelID]; active {
				// 该房间归属的频道正在主源直播：判为转播
				vtlog.WithField("room", cand.SourceID).WithField("id", id).
					Warn("判定为YouTube转播，加入忽略列表")
				ignoreSet[id] = struct{}{}
				newlyIgnored++
				continue
			}
		}

		output = append(output, cand)
	}

	// 本周期新增的分类结果立即落库，即便之后live列表更新失败也不丢
	if newlyIgnored > 0 {
		if err := r.ignoreRepo.Save(ctx, in.IgnoredColl, ignoreSet); err != nil {
			vtlog.WithError(err).Error("忽略列表持久化失败，下周期将重新判定")
		}
	}

	// startTime相同的保持插入序
	sort.SliceStable(output, func(i, j int) bool {
		return output[i].StartTime < output[j].StartTime
	})
	return output, nil
}

// activeChannelSet 计算"主源当前在播"的频道集合：
// live全部计入；upcoming里开播时间已过去超过宽限窗口的也计入
// （主源把upcoming翻成live存在延迟，这段时间副源转播已经开始了）。
func (r *Reconciler) activeChannelSet(lives, upcoming []*model.LiveEvent) map[string]struct{} {
	set := make(map[string]struct{}, len(lives))
	for _, ev := range lives {
		if ev.Channel != "" {
			set[ev.Channel] = struct{}{}
		}
	}
	nowUTC := r.now().UTC().Unix()
	for _, ev := range upcoming {
		if ev.Channel == "" {
			continue
		}
		if nowUTC-ev.StartTime > r.graceWindow {
			set[ev.Channel] = struct{}{}
		}
	}
	return set
}
