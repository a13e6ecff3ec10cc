package broadcast

import (
	"encoding/json"

	"Disastrous/internal/models"
	"Disastrous/pkg/metrics"
	"Disastrous/pkg/sse"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dispatcher 把领域事件写入事件日志并扇出到推送流。
// 追加或分发失败只记日志（事件视为丢弃），绝不影响触发它的请求。
type Dispatcher struct {
	db     *gorm.DB
	log    *EventLog
	hub    *sse.Hub
	logger *zap.Logger
}

func NewDispatcher(db *gorm.DB, log *EventLog, hub *sse.Hub, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{db: db, log: log, hub: hub, logger: logger}
}

// Log 事件日志（推送流回放用）
func (d *Dispatcher) Log() *EventLog { return d.log }

// SOSCreated 新 SOS 入库后调用：记入事件日志并广播
func (d *Dispatcher) SOSCreated(r *models.SOSRequest) {
	d.dispatch(NewSOSEvent(r))
}

// StatusChanged 执行状态更新并在成功时广播带新状态的事件。
// 更新失败（未知 id、非法状态）原样返回错误，不广播。
func (d *Dispatcher) StatusChanged(id uint, status string) error {
	updated, err := models.UpdateSOSStatus(d.db, id, status)
	if err != nil {
		return err
	}
	d.dispatch(NewSOSEvent(updated))
	return nil
}

func (d *Dispatcher) dispatch(e Event) {
	d.log.Append(e)

	payload, err := json.Marshal(e)
	if err != nil {
		d.logger.Warn("broadcast event dropped", zap.Error(err))
		return
	}
	d.hub.Publish(payload)
	metrics.BroadcastEvents.WithLabelValues(emergencyLabel(e.Emergency)).Inc()
}

func emergencyLabel(emergency bool) string {
	if emergency {
		return "emergency"
	}
	return "normal"
}
