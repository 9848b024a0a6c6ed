package database

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sehat-saathi/reminder-service/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRemindersRoundTrip(t *testing.T) {
	taken := time.Date(2024, 1, 5, 9, 1, 0, 0, time.UTC)
	reminders := []*entity.Reminder{
		{
			ID:         "a",
			UserID:     "u1",
			Type:       entity.TypeMedicine,
			Title:      "Amoxicillin",
			Dosage:     "250mg",
			Date:       "2024-01-01",
			Time:       "09:00",
			Recurrence: entity.RecurrenceDaily,
			Enabled:    true,
			Notified:   true,
			TakenAt:    &taken,
			CreatedAt:  time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2024, 1, 5, 9, 1, 0, 0, time.UTC),
		},
		{
			ID:         "b",
			UserID:     "u1",
			Type:       entity.TypeAppointment,
			Title:      "Dentist",
			Date:       "2024-02-14",
			Time:       "15:30",
			Recurrence: entity.RecurrenceOnce,
			Enabled:    true,
		},
	}

	data, err := json.Marshal(reminders)
	require.NoError(t, err)

	decoded := decodeReminders("u1", data)
	require.Len(t, decoded, 2)
	assert.Equal(t, reminders, decoded)
}

func TestDecodeRemindersFailsOpen(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "corrupt json", data: `[{"id": "a", "title":`},
		{name: "wrong shape", data: `{"id": "a"}`},
		{name: "null payload", data: `null`},
		{name: "empty payload", data: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := decodeReminders("u1", []byte(tt.data))
			require.NotNil(t, decoded)
			assert.Empty(t, decoded, "unreadable collections are treated as empty")
		})
	}
}
