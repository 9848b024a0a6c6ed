package worker

import (
	"context"
	"time"

	"github.com/sehat-saathi/reminder-service/internal/service"

	"github.com/sirupsen/logrus"
)

// Checker drives the reminder evaluation loop: one pass immediately on start,
// then one per interval. The interval must stay below the trigger tolerance
// window or due reminders can be missed between passes.
type Checker struct {
	reminders service.ReminderUseCase
	interval  time.Duration
}

func NewChecker(reminders service.ReminderUseCase, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Checker{
		reminders: reminders,
		interval:  interval,
	}
}

func (c *Checker) Start(ctx context.Context) {
	logrus.Infof("reminder checker started, interval %s", c.interval)

	c.runPass(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("reminder checker stopped")
			return
		case <-ticker.C:
			c.runPass(ctx)
		}
	}
}

func (c *Checker) runPass(ctx context.Context) {
	if err := c.reminders.ProcessDueReminders(ctx); err != nil {
		logrus.Errorf("reminder evaluation pass failed: %v", err)
	}
}
