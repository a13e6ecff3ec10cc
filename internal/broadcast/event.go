package broadcast

import (
	"time"

	"Disastrous/internal/models"
)

const (
	EventSOSUpdate = "sos_update"
	EventHeartbeat = "heartbeat"
	EventError     = "error"
)

const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

// SOSSnapshot 推送给客户端的 SOS 快照
type SOSSnapshot struct {
	ID         uint   `json:"id"`
	Timestamp  string `json:"timestamp"`
	SenderName string `json:"sender_name"`
	Contact    string `json:"contact"`
	Message    string `json:"message"`
	Location   string `json:"location"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
}

// Event 一条广播事件。创建后不再修改。
type Event struct {
	Type      string       `json:"type"`
	SOS       *SOSSnapshot `json:"sos,omitempty"`
	Emergency bool         `json:"emergency"`
	Timestamp time.Time    `json:"timestamp"`
}

// SnapshotOf 由 SOS 记录派生快照，紧急呼叫优先级为 high
func SnapshotOf(r *models.SOSRequest) *SOSSnapshot {
	priority := PriorityNormal
	if r.IsEmergency() {
		priority = PriorityHigh
	}
	return &SOSSnapshot{
		ID:         r.ID,
		Timestamp:  r.CreatedAt.UTC().Format(time.RFC3339),
		SenderName: r.SenderName,
		Contact:    r.Contact,
		Message:    r.Message,
		Location:   r.Location,
		Status:     r.Status,
		Priority:   priority,
	}
}

// NewSOSEvent 从 SOS 记录构造 sos_update 事件
func NewSOSEvent(r *models.SOSRequest) Event {
	return Event{
		Type:      EventSOSUpdate,
		SOS:       SnapshotOf(r),
		Emergency: r.IsEmergency(),
		Timestamp: time.Now().UTC(),
	}
}
