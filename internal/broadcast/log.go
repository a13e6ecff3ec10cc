package broadcast

import "sync"

// DefaultLogCapacity 事件环形缓冲容量
const DefaultLogCapacity = 100

// EventLog 进程内的有界事件日志。只追加，超容量时淘汰最老的一条。
// 进程重启即清空，不做持久化。
type EventLog struct {
	mu       sync.Mutex
	events   []Event
	capacity int
}

func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &EventLog{capacity: capacity}
}

// Append 追加事件，必要时按 FIFO 淘汰
func (l *EventLog) Append(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	if len(l.events) > l.capacity {
		over := len(l.events) - l.capacity
		l.events = append(l.events[:0:0], l.events[over:]...)
	}
}

// RecentEmergencies 按插入顺序返回所有紧急事件，读取不删除
func (l *EventLog) RecentEmergencies() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, e := range l.events {
		if e.Emergency {
			out = append(out, e)
		}
	}
	return out
}

// Events 按插入顺序返回全部事件的副本
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
