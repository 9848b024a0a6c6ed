package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/sehat-saathi/reminder-service/internal/database"
	"github.com/sehat-saathi/reminder-service/internal/entity"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// pushSender is the slice of the Telegram bot API the dispatcher uses.
type pushSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Dispatcher delivers notifications on two channels: the in-app path (inbox +
// live pub/sub event, always) and Telegram push (only when the user granted
// notification permission and bound a chat). Delivery is best effort; channel
// failures are logged and never propagated past the dispatch.
type Dispatcher struct {
	store database.Repository
	push  pushSender
}

func NewDispatcher(store database.Repository, push pushSender) *Dispatcher {
	return &Dispatcher{store: store, push: push}
}

// NewTelegramBot builds the push channel client, or nil when no token is
// configured (in-app-only delivery).
func NewTelegramBot(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	return bot, nil
}

func (d *Dispatcher) DispatchReminder(ctx context.Context, reminder *entity.Reminder) error {
	notification := &entity.Notification{
		ID:         uuid.New().String(),
		UserID:     reminder.UserID,
		Title:      reminderTitle(reminder),
		Message:    reminderBody(reminder),
		Type:       notificationType(reminder),
		ReminderID: reminder.ID,
		Status:     entity.StatusPending,
		CreatedAt:  time.Now(),
	}
	return d.deliver(ctx, notification)
}

func (d *Dispatcher) DispatchAlert(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	notification.Status = entity.StatusPending
	return d.deliver(ctx, notification)
}

func (d *Dispatcher) deliver(ctx context.Context, notification *entity.Notification) error {
	notification.Status = entity.StatusSent

	if err := d.sendPush(ctx, notification); err != nil {
		logrus.Warnf("push delivery failed for notification %s: %v", notification.ID, err)
		notification.Status = entity.StatusFailed
	}

	// the in-app path runs regardless of push outcome
	if err := d.store.Append(ctx, notification); err != nil {
		logrus.Errorf("failed to store notification %s: %v", notification.ID, err)
	}
	if err := d.store.Publish(ctx, notification); err != nil {
		logrus.Errorf("failed to publish notification %s: %v", notification.ID, err)
	}
	return nil
}

func (d *Dispatcher) sendPush(ctx context.Context, notification *entity.Notification) error {
	if d.push == nil {
		return nil
	}

	perm, err := d.store.GetPermission(ctx, notification.UserID)
	if err != nil {
		return err
	}
	if perm.State != entity.PermissionGranted || perm.ChatID == 0 {
		// default or denied: in-app only
		return nil
	}

	msg := tgbotapi.NewMessage(perm.ChatID, notification.Title+"\n"+notification.Message)
	msg.DisableNotification = !notification.Type.Urgent()
	_, err = d.push.Send(msg)
	return err
}

func reminderTitle(r *entity.Reminder) string {
	if r.Type == entity.TypeAppointment {
		return "📅 Appointment Reminder"
	}
	return "💊 Medicine Reminder"
}

func reminderBody(r *entity.Reminder) string {
	body := r.Title
	if r.Dosage != "" {
		body += " - " + r.Dosage
	}
	return body + "\nTime: " + r.Time
}

func notificationType(r *entity.Reminder) entity.NotificationType {
	if r.Type == entity.TypeAppointment {
		return entity.NotificationAppointment
	}
	return entity.NotificationMedication
}
