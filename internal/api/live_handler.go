package api

import (
	"net/http"

	"VTSync/internal/config"
	"VTSync/internal/interfaces"
	"VTSync/internal/repository"
	"VTSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LiveHandler 提供给前端的只读查询接口
type LiveHandler struct {
	cfg      *config.Config
	store    interfaces.DocStore
	liveRepo *repository.LiveRepository
	logger   *logrus.Logger
}

func NewLiveHandler(cfg *config.Config, store interfaces.DocStore, logger *logrus.Logger) *LiveHandler {
	return &LiveHandler{
		cfg:      cfg,
		store:    store,
		liveRepo: repository.NewLiveRepository(store),
		logger:   logger,
	}
}

// GetPairingLive 某配对的直播+预定列表
// GET /api/live/:pairing
func (h *LiveHandler) GetPairingLive(c *gin.Context) {
	pairing := c.Param("pairing")
	pc, ok := h.cfg.Pairings[pairing]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "未知的配对: " + pairing})
		return
	}

	doc, err := h.liveRepo.FetchLive(c.Request.Context(), pc.LiveCollection)
	if err != nil {
		h.logger.WithError(err).WithField("pairing", pairing).Error("直播文档读取失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetChannels BiliBili频道统计（按团体分字段）
// GET /api/channels
func (h *LiveHandler) GetChannels(c *gin.Context) {
	h.fetchDoc(c, service.BiliChannelsColl)
}

// GetPlatform 单平台数据文档
// GET /api/platform/:platform  （youtube/twitch/twitcasting）
func (h *LiveHandler) GetPlatform(c *gin.Context) {
	var coll string
	switch name := c.Param("platform"); name {
	case "youtube":
		coll = h.cfg.YouTube.LiveCollection
	case "twitch":
		coll = h.cfg.Twitch.Collection
	case "twitcasting":
		coll = h.cfg.Twitcasting.Collection
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "未知的平台: " + name})
		return
	}
	h.fetchDoc(c, coll)
}

func (h *LiveHandler) fetchDoc(c *gin.Context, coll string) {
	doc, err := h.store.Fetch(c.Request.Context(), coll)
	if err != nil {
		if interfaces.IsStoreNotFound(err) {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		h.logger.WithError(err).WithField("coll", coll).Error("文档读取失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}
