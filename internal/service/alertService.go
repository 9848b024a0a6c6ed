package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sehat-saathi/reminder-service/internal/database"
	"github.com/sehat-saathi/reminder-service/internal/entity"
	"github.com/sehat-saathi/reminder-service/internal/rabbitMQ"

	"github.com/google/uuid"
)

type AlertUseCase interface {
	PublishAlert(ctx context.Context, req *entity.AlertRequest) (*entity.Notification, error)
	StartConsumer(ctx context.Context) error
	Inbox(ctx context.Context, userID string, limit int64) ([]*entity.Notification, error)
	Permission(ctx context.Context, userID string) (*entity.PermissionState, error)
	SetPermission(ctx context.Context, userID string, req *entity.PermissionRequest) (*entity.PermissionState, error)
}

type alertUseCase struct {
	repo       database.Repository
	queue      rabbitMQ.Queue
	dispatcher Dispatcher
}

func NewAlertUseCase(repo database.Repository, queue rabbitMQ.Queue, dispatcher Dispatcher) AlertUseCase {
	return &alertUseCase{
		repo:       repo,
		queue:      queue,
		dispatcher: dispatcher,
	}
}

// PublishAlert enqueues a server-originated alert. A future send time parks
// the alert on the delayed path; anything else goes out immediately.
func (uc *alertUseCase) PublishAlert(ctx context.Context, req *entity.AlertRequest) (*entity.Notification, error) {
	notification := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Title:     req.Title,
		Message:   req.Message,
		Type:      req.Type,
		Status:    entity.StatusPending,
		CreatedAt: time.Now(),
	}

	if req.SendTime != nil {
		if delay := time.Until(*req.SendTime); delay > 0 {
			if err := uc.queue.PublishWithDelay(ctx, notification, delay); err != nil {
				return nil, err
			}
			return notification, nil
		}
	}

	if err := uc.queue.Publish(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// StartConsumer wires the alerts queue into the dispatcher.
func (uc *alertUseCase) StartConsumer(ctx context.Context) error {
	return uc.queue.Consume(ctx, func(message []byte) error {
		var notification entity.Notification
		if err := json.Unmarshal(message, &notification); err != nil {
			return fmt.Errorf("failed to unmarshal alert: %w", err)
		}
		return uc.dispatcher.DispatchAlert(ctx, &notification)
	})
}

func (uc *alertUseCase) Inbox(ctx context.Context, userID string, limit int64) ([]*entity.Notification, error) {
	return uc.repo.Inbox(ctx, userID, limit)
}

func (uc *alertUseCase) Permission(ctx context.Context, userID string) (*entity.PermissionState, error) {
	return uc.repo.GetPermission(ctx, userID)
}

func (uc *alertUseCase) SetPermission(ctx context.Context, userID string, req *entity.PermissionRequest) (*entity.PermissionState, error) {
	state := &entity.PermissionState{
		State:  req.State,
		ChatID: req.ChatID,
	}
	if err := uc.repo.SetPermission(ctx, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}
