package task

import (
	"context"
	"time"

	"github.com/m-mizutani/butler/pkg/model"
)

// TimeHandler answers get_time from the local clock
type TimeHandler struct {
	now func() time.Time
}

func NewTimeHandler(now func() time.Time) *TimeHandler {
	if now == nil {
		now = time.Now
	}
	return &TimeHandler{now: now}
}

func (h *TimeHandler) Intent() model.Action { return model.ActionGetTime }
func (h *TimeHandler) Required() []string   { return nil }

func (h *TimeHandler) Execute(ctx context.Context, entities map[string]string) (string, error) {
	return "The current time is " + h.now().Format("3:04 PM") + ".", nil
}

// DateHandler answers get_date from the local clock
type DateHandler struct {
	now func() time.Time
}

func NewDateHandler(now func() time.Time) *DateHandler {
	if now == nil {
		now = time.Now
	}
	return &DateHandler{now: now}
}

func (h *DateHandler) Intent() model.Action { return model.ActionGetDate }
func (h *DateHandler) Required() []string   { return nil }

func (h *DateHandler) Execute(ctx context.Context, entities map[string]string) (string, error) {
	return "Today's date is " + h.now().Format("Monday, January 2, 2006") + ".", nil
}
