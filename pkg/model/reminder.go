package model

import "time"

// Reminder is a scheduled task record. IDs come from a persisted monotonic
// counter and are never reused after deletion.
type Reminder struct {
	ID             int64     `json:"id"`
	Task           string    `json:"task"`
	ScheduledAt    string    `json:"scheduled_at"`
	CreatedAt      time.Time `json:"created_at"`
	Completed      bool      `json:"completed"`
	Announced      bool      `json:"announced"`
	AnnouncedToday bool      `json:"announced_today"`
}

// Alarm is a one-shot timed trigger. Once Triggered is set the alarm is
// never re-fired; the poller must skip it on later ticks.
type Alarm struct {
	ID        int64     `json:"id"`
	FireAt    time.Time `json:"fire_at"`
	Message   string    `json:"message"`
	SoundFile string    `json:"sound_file"`
	Triggered bool      `json:"triggered"`
}

// Due reports whether the alarm should fire at the given instant
func (a *Alarm) Due(now time.Time) bool {
	return !a.Triggered && !a.FireAt.After(now)
}
