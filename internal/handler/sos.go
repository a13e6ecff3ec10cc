package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"Disastrous/internal/broadcast"
	"Disastrous/internal/models"
	errs "Disastrous/pkg/errors"
	"Disastrous/pkg/logger"
	"Disastrous/pkg/metrics"
	"Disastrous/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 市民提交求助请求。署名缺省为联系方式；紧急按钮会带上规范署名。
func (h *Handlers) handleCreateSOS(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Message  string `json:"message" binding:"required"`
		Contact  string `json:"contact" binding:"required"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	senderName := req.Name
	if senderName == "" {
		senderName = req.Contact
	}

	record, err := models.CreateSOSRequest(h.db, senderName, req.Contact, req.Message, req.Location)
	if err != nil {
		logger.Error("create sos failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save SOS request"})
		return
	}
	metrics.SOSCreated.Inc()

	// 广播失败只记日志，提交本身已成功
	h.dispatcher.SOSCreated(record)

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// 救援人员面板：全部记录，新的在前
func (h *Handlers) handleListSOSRequests(c *gin.Context) {
	reqs, err := models.ListAllSOSRequests(h.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load SOS requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

func (h *Handlers) handleUpdateSOSStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid SOS id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 领域错误带码（非法状态 400、未知 id 404），按码映射状态
	if err := h.dispatcher.StatusChanged(uint(id), req.Status); err != nil {
		if errs.GetCode(err) == errs.CodeUnknown {
			logger.Error("update sos status failed", zap.Error(err))
			err = errs.Wrap(err, "failed to update SOS status")
		}
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// replayPayloads 连接时的回放：先是事件日志里的全部紧急事件，然后是
// 最近 5 条 SOS 记录（按时间正序）。两段之间可能重复，客户端自行去重。
func (h *Handlers) replayPayloads() [][]byte {
	var payloads [][]byte

	for _, e := range h.dispatcher.Log().RecentEmergencies() {
		if data, err := json.Marshal(e); err == nil {
			payloads = append(payloads, data)
		}
	}

	rows, err := models.ListRecentSOSRequests(h.db, 5)
	if err != nil {
		logger.Warn("replay query failed", zap.Error(err))
		return payloads
	}
	// 存储层返回新的在前，回放要按时间正序
	for i := len(rows) - 1; i >= 0; i-- {
		e := broadcast.NewSOSEvent(&rows[i])
		if data, err := json.Marshal(e); err == nil {
			payloads = append(payloads, data)
		}
	}
	return payloads
}

// SSE 推送流
func (h *Handlers) handleSOSStream(c *gin.Context) {
	metrics.SSEClients.Inc()
	defer metrics.SSEClients.Dec()

	h.hub.Serve(c, h.replayPayloads)
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const wsWriteWait = 10 * time.Second

// WebSocket 下发同一事件流，供 SSE 被中间层干扰的客户端使用
func (h *Handlers) handleSOSStreamWS(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	metrics.SSEClients.Inc()
	defer metrics.SSEClients.Dec()

	client := h.hub.Subscribe()
	defer h.hub.Unsubscribe(client)

	for _, payload := range h.replayPayloads() {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}

	// 读协程只为观测对端关闭
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(h.hub.Heartbeat())
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case payload := <-client.Messages():
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
