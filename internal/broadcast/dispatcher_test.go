package broadcast

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"Disastrous/internal/models"
	"Disastrous/pkg/sse"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.SOSRequest{}))
	return db
}

func receiveEvent(t *testing.T, client *sse.Client) Event {
	t.Helper()
	select {
	case payload := <-client.Messages():
		var e Event
		require.NoError(t, json.Unmarshal(payload, &e))
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestDispatcherEmergencyTagging(t *testing.T) {
	db := newTestDB(t)
	hub := sse.NewHub(time.Minute)
	d := NewDispatcher(db, NewEventLog(100), hub, nil)

	client := hub.Subscribe()
	defer hub.Unsubscribe(client)

	emergency, err := models.CreateSOSRequest(db, models.EmergencySenderName, models.EmergencyContact, "help", "somewhere")
	require.NoError(t, err)
	d.SOSCreated(emergency)

	e := receiveEvent(t, client)
	assert.Equal(t, EventSOSUpdate, e.Type)
	assert.True(t, e.Emergency)
	assert.Equal(t, PriorityHigh, e.SOS.Priority)

	normal, err := models.CreateSOSRequest(db, "9876543210", "9876543210", "stuck on roof", "")
	require.NoError(t, err)
	d.SOSCreated(normal)

	e = receiveEvent(t, client)
	assert.False(t, e.Emergency)
	assert.Equal(t, PriorityNormal, e.SOS.Priority)

	// 两条都进了事件日志，只有一条是紧急
	assert.Equal(t, 2, d.Log().Len())
	assert.Len(t, d.Log().RecentEmergencies(), 1)
}

func TestDispatcherStatusChanged(t *testing.T) {
	db := newTestDB(t)
	hub := sse.NewHub(time.Minute)
	d := NewDispatcher(db, NewEventLog(100), hub, nil)

	record, err := models.CreateSOSRequest(db, "caller", "12345", "trapped", "")
	require.NoError(t, err)

	client := hub.Subscribe()
	defer hub.Unsubscribe(client)

	require.NoError(t, d.StatusChanged(record.ID, models.SOSStatusHandled))

	e := receiveEvent(t, client)
	assert.Equal(t, models.SOSStatusHandled, e.SOS.Status)

	// 失败路径不广播
	assert.ErrorIs(t, d.StatusChanged(record.ID, "bogus"), models.ErrInvalidSOSStatus)
	assert.ErrorIs(t, d.StatusChanged(99999, models.SOSStatusClosed), models.ErrSOSNotFound)
	assert.Equal(t, 1, d.Log().Len())
}

func TestDispatcherFanOutIndependence(t *testing.T) {
	db := newTestDB(t)
	hub := sse.NewHub(time.Minute)
	d := NewDispatcher(db, NewEventLog(100), hub, nil)

	c1 := hub.Subscribe()
	defer hub.Unsubscribe(c1)
	c2 := hub.Subscribe()
	defer hub.Unsubscribe(c2)

	record, err := models.CreateSOSRequest(db, models.EmergencySenderName, models.EmergencyContact, "fire", "")
	require.NoError(t, err)
	d.SOSCreated(record)

	e1 := receiveEvent(t, c1)
	e2 := receiveEvent(t, c2)
	assert.True(t, e1.Emergency)
	assert.True(t, e2.Emergency)
	assert.Equal(t, e1.SOS.ID, e2.SOS.ID)

	// 各自恰好一条
	assert.Empty(t, c1.Messages())
	assert.Empty(t, c2.Messages())
}

func TestDispatcherUnsubscribedClientDoesNotBlock(t *testing.T) {
	db := newTestDB(t)
	hub := sse.NewHub(time.Minute)
	d := NewDispatcher(db, NewEventLog(100), hub, nil)

	gone := hub.Subscribe()
	hub.Unsubscribe(gone)

	record, err := models.CreateSOSRequest(db, "caller", "12345", "landslide", "")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		d.SOSCreated(record)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on unsubscribed client")
	}
	assert.Empty(t, gone.Messages())
}
