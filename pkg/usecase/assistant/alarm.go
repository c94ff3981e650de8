package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/butler/pkg/model"
	"github.com/m-mizutani/butler/pkg/repository"
	"github.com/m-mizutani/butler/pkg/utils/logging"
)

// handleSetAlarm persists a one-shot alarm. An explicit time is required;
// unlike reminders, there are no literal cues to infer one from.
func (a *Assistant) handleSetAlarm(ctx context.Context, plan *model.ActionPlan) error {
	logger := logging.From(ctx)

	raw := strings.TrimSpace(plan.Entity("time"))
	if raw == "" {
		reply, err := a.ask(ctx, "What time should I set the alarm for?")
		if err != nil {
			return a.abortClarification(ctx, err)
		}
		raw = reply
	}

	now := a.now()
	fireAt, err := parseFuzzyTime(raw, now)
	if err != nil {
		logger.Warn("could not parse alarm time", "input", raw, "error", err)
		a.respond(ctx, fmt.Sprintf("I'm sorry, I couldn't make sense of %q as a time, so no alarm was set.", raw))
		return nil
	}
	if !fireAt.After(now) {
		a.respond(ctx, "That time has already passed, so I haven't set an alarm.")
		return nil
	}

	message := strings.TrimSpace(plan.Entity("message"))
	if message == "" {
		message = "Alarm"
	}

	id, err := a.repo.NextID(ctx, repository.KindAlarm)
	if err != nil {
		logger.Error("failed to allocate alarm id", "error", err)
		a.respond(ctx, "I'm sorry, I couldn't save that alarm.")
		return nil
	}

	alarm := &model.Alarm{
		ID:        id,
		FireAt:    fireAt,
		Message:   message,
		SoundFile: a.config.AlarmSound,
	}
	if err := a.repo.PutAlarm(ctx, alarm); err != nil {
		logger.Error("failed to persist alarm", "id", id, "error", err)
		a.respond(ctx, "I'm sorry, I couldn't save that alarm.")
		return nil
	}

	logger.Info("alarm set", "id", id, "fire_at", fireAt)
	a.respond(ctx, fmt.Sprintf("Alarm set for %s.", fireAt.Format("3:04 PM on Monday, January 2")))
	return nil
}

func (a *Assistant) handleListAlarms(ctx context.Context) {
	alarms, err := a.repo.ListAlarms(ctx, false)
	if err != nil {
		logging.From(ctx).Error("failed to list alarms", "error", err)
		a.respond(ctx, "I'm sorry, I couldn't read your alarms.")
		return
	}
	if len(alarms) == 0 {
		a.respond(ctx, "You have no pending alarms.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d pending alarm", len(alarms))
	if len(alarms) > 1 {
		sb.WriteString("s")
	}
	sb.WriteString(". ")
	for i, alarm := range alarms {
		fmt.Fprintf(&sb, "Number %d: %s at %s. ", i+1, alarm.Message, alarm.FireAt.Format("3:04 PM on January 2"))
	}
	a.respond(ctx, strings.TrimSpace(sb.String()))
}

func (a *Assistant) handleDeleteAllAlarms(ctx context.Context) {
	if err := a.repo.DeleteAllAlarms(ctx); err != nil {
		logging.From(ctx).Error("failed to delete alarms", "error", err)
		a.respond(ctx, "I'm sorry, I couldn't clear your alarms.")
		return
	}
	a.respond(ctx, "All alarms are cleared.")
}
