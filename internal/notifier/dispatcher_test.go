package notifier

import (
	"context"
	"testing"

	"github.com/sehat-saathi/reminder-service/internal/entity"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	inbox       []*entity.Notification
	published   []*entity.Notification
	permissions map[string]*entity.PermissionState
}

func newFakeStore() *fakeStore {
	return &fakeStore{permissions: make(map[string]*entity.PermissionState)}
}

func (f *fakeStore) List(_ context.Context, _ string) []*entity.Reminder { return nil }
func (f *fakeStore) SaveAll(_ context.Context, _ string, _ []*entity.Reminder) error {
	return nil
}
func (f *fakeStore) Users(_ context.Context) ([]string, error) { return nil, nil }

func (f *fakeStore) Append(_ context.Context, n *entity.Notification) error {
	f.inbox = append(f.inbox, n)
	return nil
}

func (f *fakeStore) Inbox(_ context.Context, _ string, _ int64) ([]*entity.Notification, error) {
	return f.inbox, nil
}

func (f *fakeStore) GetPermission(_ context.Context, userID string) (*entity.PermissionState, error) {
	if state, ok := f.permissions[userID]; ok {
		return state, nil
	}
	return &entity.PermissionState{State: entity.PermissionDefault}, nil
}

func (f *fakeStore) SetPermission(_ context.Context, userID string, state *entity.PermissionState) error {
	f.permissions[userID] = state
	return nil
}

func (f *fakeStore) Publish(_ context.Context, n *entity.Notification) error {
	f.published = append(f.published, n)
	return nil
}

type fakePush struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakePush) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func medicineReminder() *entity.Reminder {
	return &entity.Reminder{
		ID:         "r1",
		UserID:     "u1",
		Type:       entity.TypeMedicine,
		Title:      "Ibuprofen",
		Dosage:     "400mg",
		Time:       "09:00",
		Recurrence: entity.RecurrenceDaily,
		Enabled:    true,
	}
}

func TestDispatchReminderInAppAlways(t *testing.T) {
	store := newFakeStore()
	dispatcher := NewDispatcher(store, nil)

	require.NoError(t, dispatcher.DispatchReminder(context.Background(), medicineReminder()))

	require.Len(t, store.inbox, 1)
	require.Len(t, store.published, 1)

	delivered := store.inbox[0]
	assert.Equal(t, "u1", delivered.UserID)
	assert.Equal(t, "r1", delivered.ReminderID)
	assert.Equal(t, entity.NotificationMedication, delivered.Type)
	assert.Equal(t, entity.StatusSent, delivered.Status)
	assert.Equal(t, "💊 Medicine Reminder", delivered.Title)
	assert.Equal(t, "Ibuprofen - 400mg\nTime: 09:00", delivered.Message)
}

func TestDispatchReminderPushPermission(t *testing.T) {
	tests := []struct {
		name     string
		state    *entity.PermissionState
		wantPush bool
	}{
		{name: "granted with chat", state: &entity.PermissionState{State: entity.PermissionGranted, ChatID: 42}, wantPush: true},
		{name: "granted without chat", state: &entity.PermissionState{State: entity.PermissionGranted}, wantPush: false},
		{name: "denied", state: &entity.PermissionState{State: entity.PermissionDenied, ChatID: 42}, wantPush: false},
		{name: "default", state: &entity.PermissionState{State: entity.PermissionDefault, ChatID: 42}, wantPush: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.permissions["u1"] = tt.state
			push := &fakePush{}
			dispatcher := NewDispatcher(store, push)

			require.NoError(t, dispatcher.DispatchReminder(context.Background(), medicineReminder()))

			// in-app delivery happens regardless of push permission
			assert.Len(t, store.inbox, 1)

			if tt.wantPush {
				require.Len(t, push.sent, 1)
				assert.EqualValues(t, 42, push.sent[0].ChatID)
				assert.False(t, push.sent[0].DisableNotification, "medication pushes are audible")
			} else {
				assert.Empty(t, push.sent)
			}
		})
	}
}

func TestDispatchAlertUrgency(t *testing.T) {
	store := newFakeStore()
	store.permissions["u1"] = &entity.PermissionState{State: entity.PermissionGranted, ChatID: 7}
	push := &fakePush{}
	dispatcher := NewDispatcher(store, push)

	system := &entity.Notification{
		UserID:  "u1",
		Title:   "Maintenance",
		Message: "Scheduled downtime tonight",
		Type:    entity.NotificationSystem,
	}
	require.NoError(t, dispatcher.DispatchAlert(context.Background(), system))

	require.Len(t, push.sent, 1)
	assert.True(t, push.sent[0].DisableNotification, "system alerts are silent")
	assert.NotEmpty(t, system.ID, "missing id is assigned")
	assert.False(t, system.CreatedAt.IsZero())

	medication := &entity.Notification{
		UserID:  "u1",
		Title:   "Refill due",
		Message: "Insulin refill is due",
		Type:    entity.NotificationMedication,
	}
	require.NoError(t, dispatcher.DispatchAlert(context.Background(), medication))

	require.Len(t, push.sent, 2)
	assert.False(t, push.sent[1].DisableNotification)
}

func TestReminderBodyAppointment(t *testing.T) {
	reminder := &entity.Reminder{
		Type:  entity.TypeAppointment,
		Title: "Cardiology checkup",
		Time:  "15:30",
	}
	assert.Equal(t, "📅 Appointment Reminder", reminderTitle(reminder))
	assert.Equal(t, "Cardiology checkup\nTime: 15:30", reminderBody(reminder))
	assert.Equal(t, entity.NotificationAppointment, notificationType(reminder))
}
