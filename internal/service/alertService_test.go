package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sehat-saathi/reminder-service/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	published []interface{}
	delayed   []time.Duration
	handler   func(message []byte) error
}

func (f *fakeQueue) Publish(_ context.Context, message interface{}) error {
	f.published = append(f.published, message)
	return nil
}

func (f *fakeQueue) PublishWithDelay(_ context.Context, message interface{}, delay time.Duration) error {
	f.published = append(f.published, message)
	f.delayed = append(f.delayed, delay)
	return nil
}

func (f *fakeQueue) Consume(_ context.Context, handler func(message []byte) error) error {
	f.handler = handler
	return nil
}

func (f *fakeQueue) Close() error { return nil }

func TestPublishAlertImmediate(t *testing.T) {
	queue := &fakeQueue{}
	uc := NewAlertUseCase(nil, queue, &fakeDispatcher{})

	notification, err := uc.PublishAlert(context.Background(), &entity.AlertRequest{
		UserID:  "u1",
		Title:   "Checkup booked",
		Message: "See you Monday",
		Type:    entity.NotificationAppointment,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, notification.ID)
	assert.Equal(t, entity.StatusPending, notification.Status)
	require.Len(t, queue.published, 1)
	assert.Empty(t, queue.delayed)
}

func TestPublishAlertDelayed(t *testing.T) {
	queue := &fakeQueue{}
	uc := NewAlertUseCase(nil, queue, &fakeDispatcher{})

	sendTime := time.Now().Add(2 * time.Hour)
	_, err := uc.PublishAlert(context.Background(), &entity.AlertRequest{
		UserID:   "u1",
		Title:    "Refill due",
		Message:  "Pharmacy pickup",
		Type:     entity.NotificationMedication,
		SendTime: &sendTime,
	})
	require.NoError(t, err)

	require.Len(t, queue.delayed, 1)
	assert.InDelta(t, (2 * time.Hour).Seconds(), queue.delayed[0].Seconds(), 5)
}

func TestPublishAlertPastSendTimeGoesOutNow(t *testing.T) {
	queue := &fakeQueue{}
	uc := NewAlertUseCase(nil, queue, &fakeDispatcher{})

	sendTime := time.Now().Add(-time.Minute)
	_, err := uc.PublishAlert(context.Background(), &entity.AlertRequest{
		UserID:   "u1",
		Title:    "Missed window",
		Message:  "Send immediately",
		Type:     entity.NotificationSystem,
		SendTime: &sendTime,
	})
	require.NoError(t, err)

	require.Len(t, queue.published, 1)
	assert.Empty(t, queue.delayed)
}

func TestConsumerFeedsDispatcher(t *testing.T) {
	queue := &fakeQueue{}
	dispatcher := &fakeDispatcher{}
	uc := NewAlertUseCase(nil, queue, dispatcher)

	require.NoError(t, uc.StartConsumer(context.Background()))
	require.NotNil(t, queue.handler)

	payload, err := json.Marshal(&entity.Notification{
		ID:      "n1",
		UserID:  "u1",
		Title:   "Take medicine",
		Message: "Metformin 500mg",
		Type:    entity.NotificationMedication,
	})
	require.NoError(t, err)

	require.NoError(t, queue.handler(payload))
	require.Len(t, dispatcher.alerts, 1)
	assert.Equal(t, "n1", dispatcher.alerts[0].ID)

	assert.Error(t, queue.handler([]byte("not json")), "malformed alerts are rejected for requeue")
}
