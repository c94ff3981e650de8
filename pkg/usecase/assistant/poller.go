package assistant

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/araddon/dateparse"
	"github.com/m-mizutani/butler/pkg/utils/logging"
)

// runAlarmPoller wakes on a fixed tick and announces due alarms and
// reminders. Each record is marked immediately after its announcement so
// a trigger fires exactly once even across restarts.
func (a *Assistant) runAlarmPoller(ctx context.Context, stop <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(a.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.pollAlarms(ctx)
			a.pollReminders(ctx)
		}
	}
}

func (a *Assistant) pollAlarms(ctx context.Context) {
	logger := logging.From(ctx)

	alarms, err := a.repo.ListAlarms(ctx, false)
	if err != nil {
		logger.Warn("alarm poll failed", "error", err)
		return
	}

	now := a.now()
	for _, alarm := range alarms {
		if !alarm.Due(now) {
			continue
		}
		logger.Info("alarm due", "id", alarm.ID, "message", alarm.Message)
		a.say(ctx, "Your time is up! "+alarm.Message)
		if alarm.SoundFile != "" {
			if err := a.sound.Play(ctx, alarm.SoundFile); err != nil {
				logger.Warn("alarm sound failed", "file", alarm.SoundFile, "error", err)
			}
		}
		if err := a.repo.MarkAlarmTriggered(ctx, alarm.ID); err != nil {
			logger.Error("failed to mark alarm triggered", "id", alarm.ID, "error", err)
		}
	}
}

func (a *Assistant) pollReminders(ctx context.Context) {
	logger := logging.From(ctx)

	reminders, err := a.repo.ListReminders(ctx, false)
	if err != nil {
		logger.Warn("reminder poll failed", "error", err)
		return
	}

	now := a.now()
	for _, r := range reminders {
		if r.Announced {
			continue
		}
		due, err := dateparse.ParseLocal(r.ScheduledAt)
		if err != nil {
			logger.Warn("reminder carries unparseable schedule, skipping", "id", r.ID, "scheduled_at", r.ScheduledAt)
			continue
		}
		if due.After(now) {
			continue
		}
		logger.Info("reminder due", "id", r.ID, "task", r.Task)
		a.say(ctx, a.planner.DueReminderAnnouncement(ctx, r))
		if err := a.repo.MarkReminderAnnounced(ctx, r.ID, startOfDay(due) == startOfDay(now)); err != nil {
			logger.Error("failed to mark reminder announced", "id", r.ID, "error", err)
		}
	}
}

// runModeWatcher flips the input mode on SIGUSR1, the headless analogue of
// a push-to-toggle hotkey.
func (a *Assistant) runModeWatcher(ctx context.Context, stop <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGUSR1)
	defer signal.Stop(sig)

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-sig:
			mode := a.modes.Toggle()
			logging.From(ctx).Info("input mode switched", "mode", mode)
			a.say(ctx, "Input mode switched to "+string(mode)+".")
		}
	}
}
