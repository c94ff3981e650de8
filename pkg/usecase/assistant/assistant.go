package assistant

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/adapter"
	"github.com/m-mizutani/butler/pkg/model"
	"github.com/m-mizutani/butler/pkg/repository"
	"github.com/m-mizutani/butler/pkg/service/planner"
	"github.com/m-mizutani/butler/pkg/session"
	"github.com/m-mizutani/butler/pkg/task"
	"github.com/m-mizutani/butler/pkg/utils/logging"
)

// Config carries orchestrator tunables
type Config struct {
	// ClarifyRetries bounds each clarification sub-dialogue. After this
	// many unusable replies the current intent is abandoned.
	ClarifyRetries int

	// PollInterval is the alarm poller tick
	PollInterval time.Duration

	// AlarmSound is the sound file recorded on new alarms
	AlarmSound string

	// InitialMode selects voice or text input at startup
	InitialMode model.InputMode

	// ShowProgress enables the terminal spinner during web lookups
	ShowProgress bool
}

func (c *Config) setDefaults() {
	if c.ClarifyRetries == 0 {
		c.ClarifyRetries = 3
	}
	if c.PollInterval == 0 {
		c.PollInterval = time.Second
	}
	if c.InitialMode == "" {
		c.InitialMode = model.InputModeVoice
	}
}

// Input contains dependencies for creating an Assistant
type Input struct {
	Planner  *planner.Planner
	Registry *task.Registry
	Repo     repository.Repository
	Session  *session.Store
	Voice    adapter.Voice
	Shell    adapter.Shell
	Sound    adapter.Sound
	Search   task.Searcher
	Config   Config

	// Now overrides the clock, for tests
	Now func() time.Time
}

// Assistant is the top-level orchestrator: one main loop, two background
// pollers, at most one ephemeral lookup worker at a time.
type Assistant struct {
	planner  *planner.Planner
	registry *task.Registry
	repo     repository.Repository
	session  *session.Store
	voice    adapter.Voice
	shell    adapter.Shell
	sound    adapter.Sound
	search   task.Searcher
	config   Config
	now      func() time.Time

	modes *modeCell

	// spoken/input language codes, mutated only by the main loop
	outputLang string
	inputLang  string
}

func New(input Input) (*Assistant, error) {
	if input.Planner == nil {
		return nil, goerr.New("planner is required")
	}
	if input.Repo == nil {
		return nil, goerr.New("repository is required")
	}
	if input.Session == nil {
		return nil, goerr.New("session store is required")
	}
	if input.Voice == nil {
		return nil, goerr.New("voice adapter is required")
	}

	cfg := input.Config
	cfg.setDefaults()

	now := input.Now
	if now == nil {
		now = time.Now
	}
	registry := input.Registry
	if registry == nil {
		registry = task.New()
	}
	sound := input.Sound
	if sound == nil {
		sound = adapter.NopSound{}
	}

	return &Assistant{
		planner:    input.Planner,
		registry:   registry,
		repo:       input.Repo,
		session:    input.Session,
		voice:      input.Voice,
		shell:      input.Shell,
		sound:      sound,
		search:     input.Search,
		config:     cfg,
		now:        now,
		modes:      newModeCell(cfg.InitialMode),
		outputLang: "en",
		inputLang:  "en",
	}, nil
}

// Run drives the main loop until the exit intent or an unrecoverable input
// failure. Background pollers are started once here and stopped
// cooperatively on the way out; the session artifact is erased last.
func (a *Assistant) Run(ctx context.Context) error {
	logger := logging.From(ctx)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go a.runAlarmPoller(ctx, stop, &wg)
	go a.runModeWatcher(ctx, stop, &wg)

	defer func() {
		close(stop)
		wg.Wait()
		if err := a.session.Clear(); err != nil {
			logger.Warn("failed to clear session on shutdown", "error", err)
		}
		logger.Info("assistant powered down")
	}()

	a.say(ctx, "Online and ready. How may I assist you?")

	for {
		mode := a.modes.Current()
		utterance, err := a.voice.Listen(ctx, mode)
		if err != nil {
			if errors.Is(err, adapter.ErrInputClosed) {
				logger.Info("input channel closed, shutting down")
				return nil
			}
			return goerr.Wrap(err, "input channel failed")
		}
		if utterance == "" {
			continue
		}

		shutdown, err := a.HandleUtterance(ctx, utterance)
		if err != nil {
			if errors.Is(err, adapter.ErrInputClosed) {
				logger.Info("input channel closed mid-dialogue, shutting down")
				return nil
			}
			return err
		}
		if shutdown {
			return nil
		}
	}
}

// HandleUtterance processes one user command end to end: plan acquisition
// under the resilience protocol, then dispatch. The returned flag reports
// whether the exit intent was reached.
func (a *Assistant) HandleUtterance(ctx context.Context, utterance string) (bool, error) {
	logger := logging.From(ctx)
	logger.Debug("received command", "utterance", utterance)

	history := a.session.Snapshot()
	if err := a.session.Append(model.RoleUser, utterance); err != nil {
		logger.Warn("failed to append user message", "error", err)
	}

	plan := a.acquirePlan(ctx, utterance, history)
	return a.dispatch(ctx, plan, utterance)
}

// say emits an utterance without recording an assistant turn. Used for
// acknowledgments and poller announcements.
func (a *Assistant) say(ctx context.Context, text string) {
	if err := a.voice.Say(ctx, text); err != nil {
		logging.From(ctx).Warn("failed to speak", "error", err)
	}
}

// respond completes one assistant turn: exactly one context append paired
// with exactly one utterance.
func (a *Assistant) respond(ctx context.Context, text string) {
	if err := a.session.Append(model.RoleAssistant, text); err != nil {
		logging.From(ctx).Warn("failed to append assistant message", "error", err)
	}
	a.say(ctx, text)
}

// knowledge returns the serialized knowledge snapshot for oracle calls
func (a *Assistant) knowledge(ctx context.Context) string {
	snapshot, err := a.repo.Knowledge(ctx)
	if err != nil {
		logging.From(ctx).Warn("failed to load knowledge base", "error", err)
		return ""
	}
	return snapshot
}

// modeCell is the shared input-mode state, read by the main loop and
// flipped by the hotkey watcher under the same guard.
type modeCell struct {
	mu   sync.Mutex
	mode model.InputMode
}

func newModeCell(initial model.InputMode) *modeCell {
	return &modeCell{mode: initial}
}

func (c *modeCell) Current() model.InputMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *modeCell) Toggle() model.InputMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = c.mode.Toggle()
	return c.mode
}
