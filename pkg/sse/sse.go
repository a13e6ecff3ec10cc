package sse

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultHeartbeat 心跳间隔：连接静默不超过该时长
const DefaultHeartbeat = 15 * time.Second

// clientBuffer 每个订阅者的事件缓冲；写满即丢（慢消费者不阻塞分发）
const clientBuffer = 64

// Client 一个订阅者。ch 中存放原始 JSON 负载，SSE 成帧在写出时进行，
// 同一负载也可以直接走 WebSocket 下发。
type Client struct {
	id   string
	ch   chan []byte
	done chan struct{}
}

// Messages 订阅者的接收通道（测试和 WebSocket 转发用）
func (c *Client) Messages() <-chan []byte { return c.ch }

func (c *Client) ID() string { return c.id }

// Hub 推送流注册表。订阅者互相独立，分发为 best-effort。
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	heartbeat time.Duration
	retryMs   int
}

func NewHub(heartbeat time.Duration) *Hub {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Hub{
		clients:   make(map[string]*Client),
		heartbeat: heartbeat,
		retryMs:   5000,
	}
}

// Subscribe 注册一个新订阅者
func (h *Hub) Subscribe() *Client {
	c := &Client{
		id:   uuid.NewString(),
		ch:   make(chan []byte, clientBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	return c
}

// Unsubscribe 注销订阅者，之后不再收到任何分发
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		close(c.done)
		delete(h.clients, c.id)
	}
	h.mu.Unlock()
}

// Publish 向所有订阅者分发一条 JSON 负载。缓冲已满的订阅者丢弃该条，
// 不做重投递。
func (h *Hub) Publish(payload []byte) {
	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.ch <- payload:
		default:
		}
	}
	h.mu.RUnlock()
}

// Heartbeat 心跳间隔
func (h *Hub) Heartbeat() time.Duration { return h.heartbeat }

// ClientCount 当前订阅者数量
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func writeFrame(w io.Writer, payload []byte) error {
	_, err := fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

func heartbeatFrame() []byte {
	return []byte(fmt.Sprintf(`{"type":"heartbeat","timestamp":%q}`, time.Now().UTC().Format(time.RFC3339)))
}

func errorFrame() []byte {
	return []byte(`{"type":"error","message":"stream error"}`)
}

// Serve 驱动一条 SSE 连接：先回放 replay 给出的负载（按序），随后进入
// 事件循环 —— 有事件立即下发，静默超过心跳间隔发 heartbeat。写失败
// 发送一条 error 帧后关闭，客户端断开在下一次唤醒时被观测到。
// 退出路径上总会注销订阅者。
func (h *Hub) Serve(c *gin.Context, replay func() [][]byte) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	// 先订阅再取回放快照：快照查询期间分发的事件进入缓冲，不会丢失
	client := h.Subscribe()
	defer h.Unsubscribe(client)

	fmt.Fprintf(c.Writer, "retry: %d\n\n", h.retryMs)
	if replay != nil {
		for _, payload := range replay() {
			if err := writeFrame(c.Writer, payload); err != nil {
				return
			}
		}
	}
	flusher.Flush()

	ping := time.NewTicker(h.heartbeat)
	defer ping.Stop()

	for {
		select {
		case <-client.done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			if err := writeFrame(c.Writer, heartbeatFrame()); err != nil {
				_ = writeFrame(c.Writer, errorFrame())
				flusher.Flush()
				return
			}
			flusher.Flush()
		case payload := <-client.ch:
			if err := writeFrame(c.Writer, payload); err != nil {
				_ = writeFrame(c.Writer, errorFrame())
				flusher.Flush()
				return
			}
			flusher.Flush()
		}
	}
}
