package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/butler/pkg/model"
)

func TestAlarmDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		alarm model.Alarm
		due   bool
	}{
		{"future", model.Alarm{FireAt: now.Add(time.Minute)}, false},
		{"exactly now", model.Alarm{FireAt: now}, true},
		{"past", model.Alarm{FireAt: now.Add(-time.Minute)}, true},
		{"past but triggered", model.Alarm{FireAt: now.Add(-time.Minute), Triggered: true}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, tc.alarm.Due(now), tc.due)
		})
	}
}
