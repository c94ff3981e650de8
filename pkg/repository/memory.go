package repository

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
)

// Memory is an in-memory Repository used by tests and ephemeral sessions
type Memory struct {
	mu        sync.Mutex
	reminders []*model.Reminder
	alarms    []*model.Alarm
	facts     []string
	sequence  map[string]int64
}

func NewMemory() *Memory {
	return &Memory{sequence: map[string]int64{}}
}

func (r *Memory) PutReminder(ctx context.Context, reminder *model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := *reminder
	r.reminders = append(r.reminders, &rec)
	return nil
}

func (r *Memory) ListReminders(ctx context.Context, includeCompleted bool) ([]*model.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Reminder, 0, len(r.reminders))
	for _, rem := range r.reminders {
		if !includeCompleted && rem.Completed {
			continue
		}
		rec := *rem
		out = append(out, &rec)
	}
	return out, nil
}

func (r *Memory) MarkReminderCompleted(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range r.reminders {
		if rem.ID == id {
			rem.Completed = true
			rem.Announced = true
			return nil
		}
	}
	return goerr.Wrap(errRecordNotFound, "reminder not found", goerr.V("id", id))
}

func (r *Memory) MarkReminderAnnounced(ctx context.Context, id int64, today bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range r.reminders {
		if rem.ID == id {
			rem.Announced = true
			if today {
				rem.AnnouncedToday = true
			}
			return nil
		}
	}
	return goerr.Wrap(errRecordNotFound, "reminder not found", goerr.V("id", id))
}

func (r *Memory) DeleteReminder(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.reminders)
	r.reminders = slices.DeleteFunc(r.reminders, func(rem *model.Reminder) bool {
		return rem.ID == id
	})
	if len(r.reminders) == before {
		return goerr.Wrap(errRecordNotFound, "reminder not found", goerr.V("id", id))
	}
	return nil
}

func (r *Memory) DeleteAllReminders(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders = nil
	return nil
}

func (r *Memory) PutAlarm(ctx context.Context, alarm *model.Alarm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := *alarm
	r.alarms = append(r.alarms, &rec)
	return nil
}

func (r *Memory) ListAlarms(ctx context.Context, includeTriggered bool) ([]*model.Alarm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Alarm, 0, len(r.alarms))
	for _, a := range r.alarms {
		if !includeTriggered && a.Triggered {
			continue
		}
		rec := *a
		out = append(out, &rec)
	}
	return out, nil
}

func (r *Memory) MarkAlarmTriggered(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alarms {
		if a.ID == id {
			a.Triggered = true
			return nil
		}
	}
	return goerr.Wrap(errRecordNotFound, "alarm not found", goerr.V("id", id))
}

func (r *Memory) DeleteAllAlarms(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alarms = nil
	return nil
}

func (r *Memory) AppendFact(ctx context.Context, fact string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.facts, fact) {
		return nil
	}
	r.facts = append(r.facts, fact)
	return nil
}

func (r *Memory) Knowledge(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := json.Marshal(map[string]any{"facts": r.facts})
	if err != nil {
		return "", goerr.Wrap(err, "failed to serialize knowledge base")
	}
	return string(data), nil
}

func (r *Memory) NextID(ctx context.Context, kind string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence[kind]++
	return r.sequence[kind], nil
}
