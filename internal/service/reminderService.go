package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sehat-saathi/reminder-service/internal/database"
	"github.com/sehat-saathi/reminder-service/internal/entity"

	"github.com/google/uuid"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/sirupsen/logrus"
)

const DefaultSnoozeMinutes = 10

type reminderUseCase struct {
	repo          database.ReminderRepository
	dispatcher    Dispatcher
	snoozeMinutes int
	parser        *when.Parser
	now           func() time.Time
}

func NewReminderUseCase(repo database.ReminderRepository, dispatcher Dispatcher, snoozeMinutes int) ReminderUseCase {
	if snoozeMinutes <= 0 {
		snoozeMinutes = DefaultSnoozeMinutes
	}

	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	parser.SetOptions(&rules.Options{
		Distance:     10,
		MatchByOrder: true,
	})

	return &reminderUseCase{
		repo:          repo,
		dispatcher:    dispatcher,
		snoozeMinutes: snoozeMinutes,
		parser:        parser,
		now:           time.Now,
	}
}

func (uc *reminderUseCase) CreateReminder(ctx context.Context, userID string, req *entity.ReminderRequest) (*entity.Reminder, error) {
	if !req.Type.Valid() || !req.Recurrence.Valid() {
		return nil, entity.ErrInvalidInput
	}
	date, clock, err := uc.resolveSchedule(req)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	reminder := &entity.Reminder{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       req.Type,
		Title:      req.Title,
		Dosage:     req.Dosage,
		Notes:      req.Notes,
		Date:       date,
		Time:       clock,
		Recurrence: req.Recurrence,
		Enabled:    enabled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	reminders := uc.repo.List(ctx, userID)
	reminders = append(reminders, reminder)
	if err := uc.repo.SaveAll(ctx, userID, reminders); err != nil {
		return nil, fmt.Errorf("failed to save reminder: %w", err)
	}
	return reminder, nil
}

func (uc *reminderUseCase) GetReminders(ctx context.Context, userID string) []*entity.Reminder {
	return uc.repo.List(ctx, userID)
}

func (uc *reminderUseCase) GetReminder(ctx context.Context, userID, id string) (*entity.Reminder, error) {
	for _, reminder := range uc.repo.List(ctx, userID) {
		if reminder.ID == id {
			return reminder, nil
		}
	}
	return nil, entity.ErrReminderNotFound
}

func (uc *reminderUseCase) UpdateReminder(ctx context.Context, userID, id string, req *entity.ReminderRequest) (*entity.Reminder, error) {
	if !req.Type.Valid() || !req.Recurrence.Valid() {
		return nil, entity.ErrInvalidInput
	}
	date, clock, err := uc.resolveSchedule(req)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	reminders := uc.repo.List(ctx, userID)
	var updated *entity.Reminder
	for _, reminder := range reminders {
		if reminder.ID != id {
			continue
		}
		reminder.Type = req.Type
		reminder.Title = req.Title
		reminder.Dosage = req.Dosage
		reminder.Notes = req.Notes
		reminder.Date = date
		reminder.Time = clock
		reminder.Recurrence = req.Recurrence
		if req.Enabled != nil {
			reminder.Enabled = *req.Enabled
		}
		// editing the schedule restarts the cycle
		reminder.Notified = false
		reminder.SnoozedUntil = nil
		reminder.UpdatedAt = now
		updated = reminder
		break
	}
	if updated == nil {
		return nil, entity.ErrReminderNotFound
	}

	if err := uc.repo.SaveAll(ctx, userID, reminders); err != nil {
		return nil, fmt.Errorf("failed to save reminder: %w", err)
	}
	return updated, nil
}

func (uc *reminderUseCase) DeleteReminder(ctx context.Context, userID, id string) error {
	reminders := uc.repo.List(ctx, userID)
	kept := reminders[:0]
	found := false
	for _, reminder := range reminders {
		if reminder.ID == id {
			found = true
			continue
		}
		kept = append(kept, reminder)
	}
	if !found {
		return entity.ErrReminderNotFound
	}
	return uc.repo.SaveAll(ctx, userID, kept)
}

func (uc *reminderUseCase) MarkTaken(ctx context.Context, userID, id string) (*entity.Reminder, error) {
	now := uc.now()
	return uc.mutate(ctx, userID, id, func(reminder *entity.Reminder) {
		reminder.TakenAt = &now
		reminder.Notified = true
		reminder.SnoozedUntil = nil
		reminder.UpdatedAt = now
	})
}

func (uc *reminderUseCase) Snooze(ctx context.Context, userID, id string, minutes int) (*entity.Reminder, error) {
	if minutes <= 0 {
		minutes = uc.snoozeMinutes
	}
	now := uc.now()
	until := now.Add(time.Duration(minutes) * time.Minute)
	return uc.mutate(ctx, userID, id, func(reminder *entity.Reminder) {
		reminder.SnoozedUntil = &until
		reminder.UpdatedAt = now
	})
}

// ProcessDueReminders runs one evaluation pass over every user's reminders
// and dispatches the ones that are due.
func (uc *reminderUseCase) ProcessDueReminders(ctx context.Context) error {
	users, err := uc.repo.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate reminder owners: %w", err)
	}

	now := uc.now()
	fired := 0
	for _, userID := range users {
		reminders := uc.repo.List(ctx, userID)
		changed := false
		for _, reminder := range reminders {
			if !ShouldTrigger(reminder, now) {
				continue
			}
			// the tolerance window spans several ticks; deliver once per window
			if reminder.LastNotified != nil && now.Sub(*reminder.LastNotified) < TriggerTolerance {
				continue
			}

			if err := uc.dispatcher.DispatchReminder(ctx, reminder); err != nil {
				logrus.Errorf("failed to dispatch reminder %s: %v", reminder.ID, err)
			}

			sent := now
			reminder.Notified = true
			reminder.LastNotified = &sent
			reminder.UpdatedAt = now
			changed = true
			fired++
		}
		if changed {
			if err := uc.repo.SaveAll(ctx, userID, reminders); err != nil {
				logrus.Errorf("failed to persist reminder state for user %s: %v", userID, err)
			}
		}
	}

	if fired > 0 {
		logrus.Infof("reminder pass complete: %d dispatched", fired)
	}
	return nil
}

// ResetDailyState clears per-day acknowledgment state on recurring reminders
// once the stored day no longer matches today.
func (uc *reminderUseCase) ResetDailyState(ctx context.Context) error {
	users, err := uc.repo.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate reminder owners: %w", err)
	}

	now := uc.now()
	for _, userID := range users {
		reminders := uc.repo.List(ctx, userID)
		changed := false
		for _, reminder := range reminders {
			if reminder.Recurrence == entity.RecurrenceOnce || reminder.TakenAt == nil {
				continue
			}
			if sameDay(*reminder.TakenAt, now) {
				continue
			}
			reminder.TakenAt = nil
			reminder.Notified = false
			reminder.SnoozedUntil = nil
			reminder.UpdatedAt = now
			changed = true
		}
		if changed {
			if err := uc.repo.SaveAll(ctx, userID, reminders); err != nil {
				logrus.Errorf("failed to reset reminder state for user %s: %v", userID, err)
			}
		}
	}
	return nil
}

func (uc *reminderUseCase) mutate(ctx context.Context, userID, id string, apply func(*entity.Reminder)) (*entity.Reminder, error) {
	reminders := uc.repo.List(ctx, userID)
	for _, reminder := range reminders {
		if reminder.ID != id {
			continue
		}
		apply(reminder)
		if err := uc.repo.SaveAll(ctx, userID, reminders); err != nil {
			return nil, fmt.Errorf("failed to save reminder: %w", err)
		}
		return reminder, nil
	}
	return nil, entity.ErrReminderNotFound
}

// resolveSchedule produces the stored date and time fields from either the
// explicit pair or a natural language phrase like "tomorrow at 9am".
func (uc *reminderUseCase) resolveSchedule(req *entity.ReminderRequest) (string, string, error) {
	if req.Date != "" && req.Time != "" {
		if _, err := time.Parse(dateLayout, req.Date); err != nil {
			return "", "", fmt.Errorf("%w: %v", entity.ErrInvalidSchedule, err)
		}
		if _, _, err := parseClock(req.Time); err != nil {
			return "", "", fmt.Errorf("%w: %v", entity.ErrInvalidSchedule, err)
		}
		return req.Date, req.Time, nil
	}

	if req.When == "" {
		return "", "", entity.ErrInvalidSchedule
	}

	result, err := uc.parser.Parse(req.When, uc.now())
	if err != nil || result == nil {
		return "", "", entity.ErrInvalidSchedule
	}
	return result.Time.Format(dateLayout), result.Time.Format(clockLayout), nil
}
