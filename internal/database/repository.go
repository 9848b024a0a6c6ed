package database

import (
	"context"

	"github.com/sehat-saathi/reminder-service/internal/entity"
)

// ReminderRepository stores each user's reminders as one collection that is
// read and written whole. List fails open: an unreachable store or corrupt
// payload yields an empty collection, never an error.
type ReminderRepository interface {
	List(ctx context.Context, userID string) []*entity.Reminder
	SaveAll(ctx context.Context, userID string, reminders []*entity.Reminder) error
	Users(ctx context.Context) ([]string, error)
}

type InboxRepository interface {
	Append(ctx context.Context, notification *entity.Notification) error
	Inbox(ctx context.Context, userID string, limit int64) ([]*entity.Notification, error)
}

type PermissionRepository interface {
	GetPermission(ctx context.Context, userID string) (*entity.PermissionState, error)
	SetPermission(ctx context.Context, userID string, state *entity.PermissionState) error
}

// Publisher pushes a notification onto the user's live channel.
type Publisher interface {
	Publish(ctx context.Context, notification *entity.Notification) error
}

type Repository interface {
	ReminderRepository
	InboxRepository
	PermissionRepository
	Publisher
}
