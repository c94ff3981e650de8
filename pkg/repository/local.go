package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
)

var errRecordNotFound = goerr.New("record not found")

const (
	remindersFile = "reminders.json"
	alarmsFile    = "alarms.json"
	knowledgeFile = "knowledge.json"
	sequenceFile  = "sequence.json"
)

// knowledgeData is the knowledge artifact shape
type knowledgeData struct {
	UserProfile map[string]string `json:"user_profile"`
	Facts       []string          `json:"facts"`
	Preferences map[string]string `json:"preferences"`
}

// Local persists record sets as JSON files under a data directory. Every
// mutation rewrites the whole artifact under a single writer lock so the
// alarm poller and the dispatcher never interleave partial updates.
type Local struct {
	mu  sync.Mutex
	dir string

	reminders []*model.Reminder
	alarms    []*model.Alarm
	knowledge knowledgeData
	sequence  map[string]int64
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create data directory", goerr.V("dir", dir))
	}

	r := &Local{
		dir:      dir,
		sequence: map[string]int64{},
		knowledge: knowledgeData{
			UserProfile: map[string]string{},
			Preferences: map[string]string{},
		},
	}

	if err := loadJSON(r.path(remindersFile), &r.reminders); err != nil {
		return nil, err
	}
	if err := loadJSON(r.path(alarmsFile), &r.alarms); err != nil {
		return nil, err
	}
	if err := loadJSON(r.path(knowledgeFile), &r.knowledge); err != nil {
		return nil, err
	}
	if err := loadJSON(r.path(sequenceFile), &r.sequence); err != nil {
		return nil, err
	}
	if r.sequence == nil {
		r.sequence = map[string]int64{}
	}

	return r, nil
}

func (r *Local) path(name string) string {
	return filepath.Join(r.dir, name)
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return goerr.Wrap(err, "failed to read record set", goerr.V("path", path))
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(err, "failed to decode record set", goerr.V("path", path))
	}
	return nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode record set", goerr.V("path", path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write record set", goerr.V("path", path))
	}
	return nil
}

func (r *Local) PutReminder(ctx context.Context, reminder *model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := *reminder
	r.reminders = append(r.reminders, &rec)
	return saveJSON(r.path(remindersFile), r.reminders)
}

func (r *Local) ListReminders(ctx context.Context, includeCompleted bool) ([]*model.Reminder, error) {
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

func (r *Local) MarkReminderCompleted(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rem := range r.reminders {
		if rem.ID == id {
			rem.Completed = true
			rem.Announced = true
			return saveJSON(r.path(remindersFile), r.reminders)
		}
	}
	return goerr.Wrap(errRecordNotFound, "reminder not found", goerr.V("id", id))
}

func (r *Local) MarkReminderAnnounced(ctx context.Context, id int64, today bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rem := range r.reminders {
		if rem.ID == id {
			rem.Announced = true
			if today {
				rem.AnnouncedToday = true
			}
			return saveJSON(r.path(remindersFile), r.reminders)
		}
	}
	return goerr.Wrap(errRecordNotFound, "reminder not found", goerr.V("id", id))
}

func (r *Local) DeleteReminder(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.reminders)
	r.reminders = slices.DeleteFunc(r.reminders, func(rem *model.Reminder) bool {
		return rem.ID == id
	})
	if len(r.reminders) == before {
		return goerr.Wrap(errRecordNotFound, "reminder not found", goerr.V("id", id))
	}
	return saveJSON(r.path(remindersFile), r.reminders)
}

func (r *Local) DeleteAllReminders(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reminders = nil
	return saveJSON(r.path(remindersFile), r.reminders)
}

func (r *Local) PutAlarm(ctx context.Context, alarm *model.Alarm) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := *alarm
	r.alarms = append(r.alarms, &rec)
	return saveJSON(r.path(alarmsFile), r.alarms)
}

func (r *Local) ListAlarms(ctx context.Context, includeTriggered bool) ([]*model.Alarm, error) {
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

func (r *Local) MarkAlarmTriggered(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.alarms {
		if a.ID == id {
			a.Triggered = true
			return saveJSON(r.path(alarmsFile), r.alarms)
		}
	}
	return goerr.Wrap(errRecordNotFound, "alarm not found", goerr.V("id", id))
}

func (r *Local) DeleteAllAlarms(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alarms = nil
	return saveJSON(r.path(alarmsFile), r.alarms)
}

func (r *Local) AppendFact(ctx context.Context, fact string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.knowledge.Facts, fact) {
		return nil
	}
	r.knowledge.Facts = append(r.knowledge.Facts, fact)
	return saveJSON(r.path(knowledgeFile), &r.knowledge)
}

func (r *Local) Knowledge(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(&r.knowledge, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to serialize knowledge base")
	}
	return string(data), nil
}

func (r *Local) NextID(ctx context.Context, kind string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sequence[kind]++
	if err := saveJSON(r.path(sequenceFile), r.sequence); err != nil {
		return 0, err
	}
	return r.sequence[kind], nil
}
