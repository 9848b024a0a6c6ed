package worker

import (
	"context"

	"github.com/sehat-saathi/reminder-service/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DailyReset clears the per-day acknowledgment state of recurring reminders
// at midnight, and once immediately on start to catch up after downtime.
type DailyReset struct {
	reminders service.ReminderUseCase
	cron      *cron.Cron
}

func NewDailyReset(reminders service.ReminderUseCase) *DailyReset {
	return &DailyReset{
		reminders: reminders,
		cron:      cron.New(),
	}
}

func (w *DailyReset) Start(ctx context.Context) error {
	if err := w.reminders.ResetDailyState(ctx); err != nil {
		logrus.Errorf("startup daily reset failed: %v", err)
	}

	_, err := w.cron.AddFunc("0 0 * * *", func() {
		if err := w.reminders.ResetDailyState(context.Background()); err != nil {
			logrus.Errorf("daily reset failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	w.cron.Start()
	logrus.Info("daily reset job scheduled")
	return nil
}

func (w *DailyReset) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}
