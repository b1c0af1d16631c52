package bilibili

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"VTSync/internal/config"
	"VTSync/internal/model"
	"VTSync/internal/utils/httpclient"
	"VTSync/internal/utils/timeparse"

	"github.com/sirupsen/logrus"
)

// Adapter BiliBili直播开放接口适配器（房间状态+预约日历）
type Adapter struct {
	cfg        *config.PlatformConfig
	httpClient *http.Client
	logger     *logrus.Logger
	now        func() time.Time // 测试可替换
}

func NewBiliAdapter(cfg *config.PlatformConfig, logger *logrus.Logger) *Adapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
		now:        time.Now,
	}
}

// FetchRoom 查询单个直播间状态，实现interfaces.RoomStatusFetcher。
// 网络/解析失败只返回error交给调用方跳过，单个坏房间不中止整批。
func (a *Adapter) FetchRoom(ctx context.Context, roomID string) (*model.BiliRoomInfo, error) {
	params := url.Values{}
	params.Set("room_id", roomID)

	var resp model.BiliAPIResponse[model.BiliRoomInfo]
	err := httpclient.GetJSON(ctx, a.httpClient, a.cfg.BaseURL+"/room/v1/Room/get_info", params, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("请求房间%s失败: %w", roomID, err)
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("房间%s接口返回异常: code=%d msg=%s", roomID, resp.Code, resp.Message)
	}
	return &resp.Data, nil
}

// ParseRoomLive 将房间信息归一化为LiveEvent。
// 仅live_status==1视为开播，其余状态（含轮播）返回nil表示"当前无直播"。
// live_time解析失败同样保守视为无直播，不作硬错误。
func (a *Adapter) ParseRoomLive(info *model.BiliRoomInfo, roomID string) *model.LiveEvent {
	if info == nil || info.LiveStatus != 1 {
		return nil
	}
	startTime, err := timeparse.ParseBiliLocal(info.LiveTime)
	if err != nil {
		a.logger.WithError(err).WithField("room", roomID).Warn("live_time解析失败，跳过该房间")
		return nil
	}

	viewers := info.Online
	thumbnail := info.UserCover
	if thumbnail == "" {
		thumbnail = info.Keyframe
	}
	rid, _ := strconv.ParseInt(roomID, 10, 64)
	return &model.LiveEvent{
		ID:        model.BuildLiveID(model.PlatformBiliBili, roomID, startTime),
		RoomID:    rid,
		SourceID:  roomID,
		Title:     info.Title,
		StartTime: startTime,
		Status:    model.StatusLive,
		Channel:   strconv.FormatInt(info.UID, 10),
		Viewers:   &viewers,
		Thumbnail: thumbnail,
		Platform:  model.PlatformBiliBili,
	}
}

// FetchCalendar 拉取当月预约日历并归一化为upcoming事件列表。
// 只保留今天及以后、且尚未到开播时间的节目。
func (a *Adapter) FetchCalendar(ctx context.Context, uids []string) ([]*model.LiveEvent, error) {
	// 日历接口按GMT+8的自然月组织
	local := a.now().In(time.FixedZone("CST", 8*3600))
	params := url.Values{}
	params.Set("type", "3")
	params.Set("year_month", local.Format("2006-01"))
	params.Set("ruids", strings.Join(uids, ","))

	var resp model.BiliAPIResponse[model.BiliCalendarData]
	err := httpclient.GetJSON(ctx, a.httpClient,
		a.cfg.BaseURL+"/xlive/web-ucenter/v2/calendar/GetProgramList", params, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("请求日历接口失败: %w", err)
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("日历接口返回异常: code=%d msg=%s", resp.Code, resp.Message)
	}

	currentDay := local.Day()
	nowUTC := a.now().Unix()
	var results []*model.LiveEvent
	for dateKey, day := range resp.Data.ProgramInfos {
		date, err := strconv.Atoi(dateKey)
		if err != nil || date < currentDay {
			continue
		}
		for _, program := range day.ProgramList {
			if nowUTC >= program.StartTime {
				continue
			}
			channelName := ""
			if user, ok := resp.Data.UserInfos[strconv.FormatInt(program.RUID, 10)]; ok {
				channelName = user.UName
			}
			roomID := strconv.FormatInt(program.RoomID, 10)
			results = append(results, &model.LiveEvent{
				ID:          model.BuildLiveID(model.PlatformBiliBili, roomID, program.StartTime),
				RoomID:      program.RoomID,
				SourceID:    roomID,
				Title:       program.Title,
				StartTime:   program.StartTime,
				Status:      model.StatusUpcoming,
				Channel:     strconv.FormatInt(program.RUID, 10),
				ChannelName: channelName,
				Platform:    model.PlatformBiliBili,
			})
		}
	}
	return results, nil
}
