package entity

import (
	"time"
)

type NotificationType string

const (
	NotificationMedication  NotificationType = "medication"
	NotificationAppointment NotificationType = "appointment"
	NotificationSystem      NotificationType = "system"
	NotificationReminder    NotificationType = "reminder"
)

// Notification is a single delivered event: either a fired local reminder or
// a server-originated alert that arrived over the broker. It is what lands in
// the user's inbox and on the live channel.
type Notification struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Type       NotificationType `json:"type"`
	ReminderID string           `json:"reminder_id,omitempty"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
}

// AlertRequest is the wire contract for server-originated alerts. SendTime in
// the future schedules delayed delivery through the broker.
type AlertRequest struct {
	UserID   string           `json:"user_id" binding:"required"`
	Title    string           `json:"title" binding:"required"`
	Message  string           `json:"message" binding:"required"`
	Type     NotificationType `json:"type" binding:"required,oneof=medication appointment system reminder"`
	SendTime *time.Time       `json:"send_time"`
}

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Urgent reports whether the notification type warrants an audible alert.
func (t NotificationType) Urgent() bool {
	return t == NotificationMedication || t == NotificationReminder
}

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

type PermissionRequest struct {
	State  Permission `json:"state" binding:"required,oneof=default granted denied"`
	ChatID int64      `json:"chat_id"`
}

type PermissionState struct {
	State  Permission `json:"state"`
	ChatID int64      `json:"chat_id,omitempty"`
}
