package service

import (
	"context"

	"github.com/sehat-saathi/reminder-service/internal/entity"
)

type ReminderUseCase interface {
	CreateReminder(ctx context.Context, userID string, req *entity.ReminderRequest) (*entity.Reminder, error)
	GetReminders(ctx context.Context, userID string) []*entity.Reminder
	GetReminder(ctx context.Context, userID, id string) (*entity.Reminder, error)
	UpdateReminder(ctx context.Context, userID, id string, req *entity.ReminderRequest) (*entity.Reminder, error)
	DeleteReminder(ctx context.Context, userID, id string) error
	MarkTaken(ctx context.Context, userID, id string) (*entity.Reminder, error)
	Snooze(ctx context.Context, userID, id string, minutes int) (*entity.Reminder, error)
	ProcessDueReminders(ctx context.Context) error
	ResetDailyState(ctx context.Context) error
}

// Dispatcher renders a due reminder or an incoming alert to the user through
// the configured delivery channels.
type Dispatcher interface {
	DispatchReminder(ctx context.Context, reminder *entity.Reminder) error
	DispatchAlert(ctx context.Context, notification *entity.Notification) error
}
