package repository

import (
	"context"

	"github.com/m-mizutani/butler/pkg/model"
)

// ID sequence kinds
const (
	KindReminder = "reminder"
	KindAlarm    = "alarm"
)

// Repository defines the persistence boundary for reminders, alarms and the
// knowledge base. Implementations rewrite the whole record set on each
// mutation and must serialize writers: the alarm poller and the dispatcher
// mutate the same sets concurrently.
type Repository interface {
	// PutReminder saves a reminder record
	PutReminder(ctx context.Context, reminder *model.Reminder) error

	// ListReminders retrieves reminders, optionally including completed ones.
	// Callers receive copies, never the live collection.
	ListReminders(ctx context.Context, includeCompleted bool) ([]*model.Reminder, error)

	// MarkReminderCompleted marks a reminder completed (and announced)
	MarkReminderCompleted(ctx context.Context, id int64) error

	// MarkReminderAnnounced marks a reminder announced
	MarkReminderAnnounced(ctx context.Context, id int64, today bool) error

	// DeleteReminder removes a reminder by ID
	DeleteReminder(ctx context.Context, id int64) error

	// DeleteAllReminders clears the reminder set
	DeleteAllReminders(ctx context.Context) error

	// PutAlarm saves an alarm record
	PutAlarm(ctx context.Context, alarm *model.Alarm) error

	// ListAlarms retrieves alarms, optionally including triggered ones
	ListAlarms(ctx context.Context, includeTriggered bool) ([]*model.Alarm, error)

	// MarkAlarmTriggered marks an alarm triggered so later polls skip it
	MarkAlarmTriggered(ctx context.Context, id int64) error

	// DeleteAllAlarms clears the alarm set
	DeleteAllAlarms(ctx context.Context) error

	// AppendFact adds a fact to the knowledge base. Duplicate facts are
	// ignored without error.
	AppendFact(ctx context.Context, fact string) error

	// Knowledge returns the whole knowledge base serialized for oracle calls
	Knowledge(ctx context.Context) (string, error)

	// NextID returns the next ID from a persisted monotonic counter. IDs
	// are independent of live collection size and never reused.
	NextID(ctx context.Context, kind string) (int64, error)
}
