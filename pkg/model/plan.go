package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrPlanMalformed = goerr.New("action plan malformed")
	ErrUnknownAction = goerr.New("unknown action")
)

// Action identifies an intent the planning oracle may select
type Action string

const (
	// Specialized task intents
	ActionGetTime        Action = "get_time"
	ActionGetDate        Action = "get_date"
	ActionGetWeather     Action = "get_weather"
	ActionGetNews        Action = "get_news"
	ActionGetStockPrice  Action = "get_stock_price"
	ActionGetImage       Action = "get_image"
	ActionGenerateQRCode Action = "generate_qr_code"
	ActionPlayMusic      Action = "play_music"
	ActionPauseMusic     Action = "pause_music"
	ActionStopMusic      Action = "stop_music"
	ActionNextSong       Action = "next_song"
	ActionPreviousSong   Action = "previous_song"
	ActionSendEmail      Action = "send_email"
	ActionWriteNotepad   Action = "write_notepad"
	ActionSummarizeFile  Action = "summarize_file"

	// Memory intents
	ActionRememberFact Action = "remember_fact"

	// Reminder / alarm intents
	ActionSetReminder        Action = "set_reminder"
	ActionListReminders      Action = "list_reminders"
	ActionDeleteReminder     Action = "delete_reminder"
	ActionDeleteAllReminders Action = "delete_all_reminders"
	ActionSetAlarm           Action = "set_alarm"
	ActionListAlarms         Action = "list_alarms"
	ActionDeleteAllAlarms    Action = "delete_all_alarms"

	// Language control intents
	ActionSetLanguage         Action = "set_language"
	ActionToggleInputLanguage Action = "toggle_input_language"
	ActionSetAllLanguage      Action = "set_all_language"

	// Conversational / composite intents
	ActionDirectAnswer    Action = "direct_answer"
	ActionSearchAndAnswer Action = "search_and_answer"
	ActionExecuteCmd      Action = "execute_cmd"
	ActionExit            Action = "exit"
)

var knownActions = map[Action]struct{}{
	ActionGetTime:             {},
	ActionGetDate:             {},
	ActionGetWeather:          {},
	ActionGetNews:             {},
	ActionGetStockPrice:       {},
	ActionGetImage:            {},
	ActionGenerateQRCode:      {},
	ActionPlayMusic:           {},
	ActionPauseMusic:          {},
	ActionStopMusic:           {},
	ActionNextSong:            {},
	ActionPreviousSong:        {},
	ActionSendEmail:           {},
	ActionWriteNotepad:        {},
	ActionSummarizeFile:       {},
	ActionRememberFact:        {},
	ActionSetReminder:         {},
	ActionListReminders:       {},
	ActionDeleteReminder:      {},
	ActionDeleteAllReminders:  {},
	ActionSetAlarm:            {},
	ActionListAlarms:          {},
	ActionDeleteAllAlarms:     {},
	ActionSetLanguage:         {},
	ActionToggleInputLanguage: {},
	ActionSetAllLanguage:      {},
	ActionDirectAnswer:        {},
	ActionSearchAndAnswer:     {},
	ActionExecuteCmd:          {},
	ActionExit:                {},
}

// Validate checks if the action belongs to the closed intent set
func (a Action) Validate() error {
	if _, ok := knownActions[a]; !ok {
		return goerr.Wrap(ErrUnknownAction, "action is not in the intent set", goerr.V("action", a))
	}
	return nil
}

// Actions returns every action in the closed intent set
func Actions() []Action {
	actions := make([]Action, 0, len(knownActions))
	for a := range knownActions {
		actions = append(actions, a)
	}
	return actions
}

// EntityCommandDescription is the single entity carried by the fallback plan
const EntityCommandDescription = "command_description"

// ActionPlan is the structured intent produced by the planning oracle
type ActionPlan struct {
	Action   Action            `json:"action"`
	Entities map[string]string `json:"entities"`
}

// Entity returns the named entity value, or "" when absent. Absence is
// preserved as absence: no defaults are applied here.
func (p *ActionPlan) Entity(name string) string {
	if p.Entities == nil {
		return ""
	}
	return p.Entities[name]
}

// ParsePlan decodes and validates an action plan payload. A payload that
// does not parse as the two-field shape, or whose action is outside the
// intent set, is rejected outright: the caller must substitute FallbackPlan.
func ParsePlan(raw []byte) (*ActionPlan, error) {
	var plan ActionPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, goerr.Wrap(ErrPlanMalformed, "failed to decode plan payload", goerr.V("payload", string(raw)))
	}
	if err := plan.Action.Validate(); err != nil {
		return nil, goerr.Wrap(ErrPlanMalformed, "plan carries an unknown action", goerr.V("action", plan.Action))
	}
	if plan.Entities == nil {
		plan.Entities = map[string]string{}
	}
	return &plan, nil
}

// FallbackPlan is the universal substitute used whenever planning fails:
// degrade to executing the literal command description.
func FallbackPlan(utterance string) *ActionPlan {
	return &ActionPlan{
		Action: ActionExecuteCmd,
		Entities: map[string]string{
			EntityCommandDescription: utterance,
		},
	}
}
