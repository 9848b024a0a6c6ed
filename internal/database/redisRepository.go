package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sehat-saathi/reminder-service/internal/entity"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	reminderKeyPrefix = "reminders:"
	inboxKeyPrefix    = "inbox:"
	permKeyPrefix     = "notify:permission:"

	// inboxLimit caps how many delivered notifications are retained per user.
	inboxLimit = 100
)

// NotificationChannel is the pub/sub channel carrying a user's live
// notifications. The remote channel subscribes to it, the dispatcher
// publishes to it.
func NotificationChannel(userID string) string {
	return "notifications:user:" + userID
}

type redisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) Repository {
	return &redisRepository{client: client}
}

func (r *redisRepository) List(ctx context.Context, userID string) []*entity.Reminder {
	data, err := r.client.Get(ctx, reminderKeyPrefix+userID).Result()
	if err != nil {
		if err != redis.Nil {
			logrus.Warnf("reminder store unavailable for user %s: %v", userID, err)
		}
		return []*entity.Reminder{}
	}
	return decodeReminders(userID, []byte(data))
}

func (r *redisRepository) SaveAll(ctx context.Context, userID string, reminders []*entity.Reminder) error {
	if reminders == nil {
		reminders = []*entity.Reminder{}
	}
	data, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("failed to marshal reminders: %w", err)
	}
	return r.client.Set(ctx, reminderKeyPrefix+userID, data, 0).Err()
}

func (r *redisRepository) Users(ctx context.Context) ([]string, error) {
	keys, err := r.client.Keys(ctx, reminderKeyPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder keys: %w", err)
	}

	users := make([]string, 0, len(keys))
	for _, key := range keys {
		users = append(users, strings.TrimPrefix(key, reminderKeyPrefix))
	}
	return users, nil
}

func (r *redisRepository) Append(ctx context.Context, notification *entity.Notification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := inboxKeyPrefix + notification.UserID
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, inboxLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to inbox: %w", err)
	}
	return nil
}

func (r *redisRepository) Inbox(ctx context.Context, userID string, limit int64) ([]*entity.Notification, error) {
	if limit <= 0 || limit > inboxLimit {
		limit = inboxLimit
	}

	items, err := r.client.LRange(ctx, inboxKeyPrefix+userID, 0, limit-1).Result()
	if err != nil {
		if err == redis.Nil {
			return []*entity.Notification{}, nil
		}
		return nil, fmt.Errorf("failed to read inbox: %w", err)
	}

	notifications := make([]*entity.Notification, 0, len(items))
	for _, item := range items {
		var notification entity.Notification
		if err := json.Unmarshal([]byte(item), &notification); err != nil {
			logrus.Warnf("skipping corrupt inbox entry for user %s: %v", userID, err)
			continue
		}
		notifications = append(notifications, &notification)
	}
	return notifications, nil
}

func (r *redisRepository) GetPermission(ctx context.Context, userID string) (*entity.PermissionState, error) {
	data, err := r.client.Get(ctx, permKeyPrefix+userID).Result()
	if err != nil {
		if err == redis.Nil {
			return &entity.PermissionState{State: entity.PermissionDefault}, nil
		}
		return nil, fmt.Errorf("failed to get permission state: %w", err)
	}

	var state entity.PermissionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return &entity.PermissionState{State: entity.PermissionDefault}, nil
	}
	return &state, nil
}

func (r *redisRepository) SetPermission(ctx context.Context, userID string, state *entity.PermissionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal permission state: %w", err)
	}
	return r.client.Set(ctx, permKeyPrefix+userID, data, 0).Err()
}

func (r *redisRepository) Publish(ctx context.Context, notification *entity.Notification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	return r.client.Publish(ctx, NotificationChannel(notification.UserID), data).Err()
}

func decodeReminders(userID string, data []byte) []*entity.Reminder {
	var reminders []*entity.Reminder
	if err := json.Unmarshal(data, &reminders); err != nil {
		logrus.Warnf("corrupt reminder collection for user %s, treating as empty: %v", userID, err)
		return []*entity.Reminder{}
	}
	if reminders == nil {
		reminders = []*entity.Reminder{}
	}
	return reminders
}
