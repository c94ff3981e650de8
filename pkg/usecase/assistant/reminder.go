package assistant

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/m-mizutani/goerr/v2"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/m-mizutani/butler/pkg/model"
	"github.com/m-mizutani/butler/pkg/repository"
	"github.com/m-mizutani/butler/pkg/utils/logging"
)

const scheduleLayout = "2006-01-02 15:04:05"

// handleSetReminder resolves the reminder's task and schedule, then
// persists it. Schedule resolution follows a strict precedence: an
// explicit time entity wins, then literal cues in the utterance, then a
// clarification question with fuzzy parsing, and finally a spoken abort.
func (a *Assistant) handleSetReminder(ctx context.Context, plan *model.ActionPlan, utterance string) error {
	logger := logging.From(ctx)

	taskText := strings.TrimSpace(plan.Entity("task"))
	if taskText == "" {
		// fall back to the raw command so the reminder is never empty
		taskText = utterance
	}

	scheduledAt, err := a.resolveReminderTime(ctx, plan, utterance)
	if err != nil {
		return a.abortClarification(ctx, err)
	}
	if scheduledAt == "" {
		a.respond(ctx, "I'm sorry, I couldn't work out when you'd like to be reminded, so I haven't set anything.")
		return nil
	}

	id, err := a.repo.NextID(ctx, repository.KindReminder)
	if err != nil {
		logger.Error("failed to allocate reminder id", "error", err)
		a.respond(ctx, "I'm sorry, I couldn't save that reminder.")
		return nil
	}

	reminder := &model.Reminder{
		ID:          id,
		Task:        taskText,
		ScheduledAt: scheduledAt,
		CreatedAt:   a.now(),
	}
	if err := a.repo.PutReminder(ctx, reminder); err != nil {
		logger.Error("failed to persist reminder", "id", id, "error", err)
		a.respond(ctx, "I'm sorry, I couldn't save that reminder.")
		return nil
	}

	logger.Info("reminder set", "id", id, "task", taskText, "scheduled_at", scheduledAt)
	a.respond(ctx, a.planner.ReminderConfirmation(ctx, taskText, scheduledAt))
	return nil
}

// resolveReminderTime returns the schedule as "2006-01-02 15:04:05".
// An empty string with a nil error means resolution failed gracefully and
// the caller should abort with an explanation.
func (a *Assistant) resolveReminderTime(ctx context.Context, plan *model.ActionPlan, utterance string) (string, error) {
	if explicit := strings.TrimSpace(plan.Entity("time")); explicit != "" {
		return explicit, nil
	}

	now := a.now()
	lower := strings.ToLower(utterance)
	switch {
	case strings.Contains(lower, "today"):
		return startOfDay(now).Format(scheduleLayout), nil
	case strings.Contains(lower, "tomorrow"):
		return startOfDay(now.AddDate(0, 0, 1)).Format(scheduleLayout), nil
	case strings.Contains(lower, "now") || strings.Contains(lower, "immediately"):
		return now.Format(scheduleLayout), nil
	}

	reply, err := a.ask(ctx, "When would you like to be reminded?")
	if err != nil {
		return "", err
	}

	parsed, err := parseFuzzyTime(reply, now)
	if err != nil {
		logging.From(ctx).Warn("could not parse reminder time", "reply", reply, "error", err)
		return "", nil
	}
	return parsed.Format(scheduleLayout), nil
}

func (a *Assistant) handleListReminders(ctx context.Context) {
	reminders, err := a.repo.ListReminders(ctx, false)
	if err != nil {
		logging.From(ctx).Error("failed to list reminders", "error", err)
		a.respond(ctx, "I'm sorry, I couldn't read your reminders.")
		return
	}
	if len(reminders) == 0 {
		a.respond(ctx, "You have no active reminders.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d active reminder", len(reminders))
	if len(reminders) > 1 {
		sb.WriteString("s")
	}
	sb.WriteString(". ")
	for i, r := range reminders {
		fmt.Fprintf(&sb, "Number %d: %s, %s. ", i+1, r.Task, a.describeSchedule(r.ScheduledAt))
	}
	a.respond(ctx, strings.TrimSpace(sb.String()))
}

// describeSchedule renders a stored schedule in speech-friendly terms,
// collapsing today and tomorrow to words.
func (a *Assistant) describeSchedule(scheduledAt string) string {
	t, err := dateparse.ParseLocal(scheduledAt)
	if err != nil {
		return "scheduled for " + scheduledAt
	}
	now := a.now()
	switch startOfDay(t) {
	case startOfDay(now):
		return "due today at " + t.Format("3:04 PM")
	case startOfDay(now.AddDate(0, 0, 1)):
		return "due tomorrow at " + t.Format("3:04 PM")
	}
	return "due " + t.Format("Monday, January 2 at 3:04 PM")
}

func (a *Assistant) handleDeleteReminder(ctx context.Context, plan *model.ActionPlan) error {
	raw := strings.TrimSpace(plan.Entity("id"))
	if raw == "" {
		reply, err := a.ask(ctx, "Which reminder number should I delete?")
		if err != nil {
			return a.abortClarification(ctx, err)
		}
		raw = reply
	}

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		a.respond(ctx, fmt.Sprintf("I'm sorry, %q doesn't look like a reminder number.", raw))
		return nil
	}

	if err := a.repo.DeleteReminder(ctx, id); err != nil {
		logging.From(ctx).Warn("failed to delete reminder", "id", id, "error", err)
		a.respond(ctx, fmt.Sprintf("I couldn't find reminder number %d.", id))
		return nil
	}
	a.respond(ctx, fmt.Sprintf("Done. Reminder number %d is deleted.", id))
	return nil
}

func (a *Assistant) handleDeleteAllReminders(ctx context.Context) {
	if err := a.repo.DeleteAllReminders(ctx); err != nil {
		logging.From(ctx).Error("failed to delete reminders", "error", err)
		a.respond(ctx, "I'm sorry, I couldn't clear your reminders.")
		return
	}
	a.respond(ctx, "All reminders are cleared.")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseFuzzyTime interprets a time expression. Explicit timestamps are
// tried first so "2025-06-05 09:00:00" is never misread as today at 9;
// natural phrasing ("tomorrow at 9am", "in 20 minutes") goes through the
// fuzzy parser.
func parseFuzzyTime(text string, now time.Time) (time.Time, error) {
	if t, err := dateparse.ParseLocal(text); err == nil {
		return t, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(text, now)
	if err != nil || r == nil {
		return time.Time{}, goerr.New("unparseable time expression", goerr.V("text", text))
	}
	return r.Time, nil
}
